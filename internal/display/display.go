// Package display renders current conditions and the forecast as terminal text.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fakhrymubarak/weatherbuddy/internal/forecast"
	"github.com/fakhrymubarak/weatherbuddy/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	placeholder   = "?"
	noDescription = "N/A"

	MsgNoCurrent  = "No current weather data available."
	MsgNoForecast = "No forecast data available."
)

var rule = strings.Repeat("-", 40)

var titleCaser = cases.Title(language.English)

func num(r model.Reading) string {
	if !r.Valid {
		return placeholder
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

func str(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

// CurrentWeather writes the current conditions block. Missing fields are
// shown as placeholders; a payload without "main" counts as no data.
func CurrentWeather(w io.Writer, data *model.CurrentWeatherResponse) {
	if data == nil || data.Main == nil {
		fmt.Fprintln(w, MsgNoCurrent)
		return
	}

	country := ""
	if data.Sys != nil {
		country = str(data.Sys.Country, "")
	}
	description := noDescription
	if len(data.Weather) > 0 && data.Weather[0].Description != nil {
		description = *data.Weather[0].Description
	}
	m := data.Main

	fmt.Fprintln(w, "\nCurrent Weather")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "City: %s, %s\n", str(data.Name, placeholder), country)
	fmt.Fprintf(w, "Temperature: %s°C (feels %s°C)\n", num(m.Temp), num(m.FeelsLike))
	fmt.Fprintf(w, "Humidity: %s%% | Pressure: %s hPa\n", num(m.Humidity), num(m.Pressure))
	fmt.Fprintf(w, "Condition: %s\n", titleCaser.String(description))
	if data.Wind != nil && data.Wind.Speed.Valid {
		fmt.Fprintf(w, "Wind: %s m/s @ %s°\n", num(data.Wind.Speed), num(data.Wind.Deg))
	}
}

// Forecast writes the daily averages followed by the temperature trend chart.
func Forecast(w io.Writer, data *model.ForecastResponse) {
	if data == nil || data.List == nil {
		fmt.Fprintln(w, MsgNoForecast)
		return
	}

	city := placeholder
	if data.City != nil {
		city = str(data.City.Name, placeholder)
	}
	fmt.Fprintf(w, "\n5-Day Forecast — %s\n", city)
	fmt.Fprintln(w, rule)

	dailies := forecast.SummarizeDaily(data)
	for _, d := range dailies {
		fmt.Fprintf(w, "%s: %.1f°C (avg)\n", d.Date, d.AvgTemp)
	}

	fmt.Fprintln(w, "\nTemperature Trend (ASCII)")
	fmt.Fprintln(w, forecast.RenderChart(dailies))
}
