// Package forecast reduces 3-hour forecast samples to daily averages and
// draws them as an ASCII bar chart.
package forecast

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fakhrymubarak/weatherbuddy/internal/model"
)

const (
	// MaxDays caps the number of daily summaries.
	MaxDays = 5
	// BarWidth is the width of the bar for the warmest day.
	BarWidth = 40
	// NoData is what RenderChart returns for an empty input.
	NoData = "(no data)"
)

// SummarizeDaily buckets samples by the date part of dt_txt and returns the
// mean temperature of the earliest MaxDays dates, ascending. Samples missing
// a timestamp or a temperature are skipped.
func SummarizeDaily(data *model.ForecastResponse) []model.DailySummary {
	if data == nil {
		return nil
	}

	buckets := make(map[string][]float64)
	for _, slot := range data.List {
		if slot.DtTxt == "" || slot.Main == nil || !slot.Main.Temp.Valid {
			continue
		}
		day := slot.DtTxt
		if len(day) > 10 {
			day = day[:10] // YYYY-MM-DD
		}
		buckets[day] = append(buckets[day], slot.Main.Temp.Value)
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)
	if len(days) > MaxDays {
		days = days[:MaxDays]
	}

	dailies := make([]model.DailySummary, 0, len(days))
	for _, day := range days {
		temps := buckets[day]
		sum := 0.0
		for _, t := range temps {
			sum += t
		}
		dailies = append(dailies, model.DailySummary{Date: day, AvgTemp: sum / float64(len(temps))})
	}
	return dailies
}

// RenderChart draws one line per day with a bar proportional to where the
// day's average sits between the coolest and warmest day. The span is
// floored at 1.0 so near-equal temperatures do not blow up the scale, and
// every bar is at least one character wide.
func RenderChart(dailies []model.DailySummary) string {
	if len(dailies) == 0 {
		return NoData
	}

	tmin, tmax := dailies[0].AvgTemp, dailies[0].AvgTemp
	for _, d := range dailies[1:] {
		tmin = math.Min(tmin, d.AvgTemp)
		tmax = math.Max(tmax, d.AvgTemp)
	}
	span := math.Max(1.0, tmax-tmin)

	lines := make([]string, 0, len(dailies))
	for _, d := range dailies {
		width := int(math.Round(BarWidth * (d.AvgTemp - tmin) / span))
		if width < 1 {
			width = 1
		}
		lines = append(lines, fmt.Sprintf("%s | %s %.1f°C", d.Date, strings.Repeat("#", width), d.AvgTemp))
	}
	return strings.Join(lines, "\n")
}
