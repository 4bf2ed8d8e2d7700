package model

import (
	"bytes"
	"encoding/json"
)

// Reading is a numeric payload value. Valid is false when the field is
// missing, null or not a number, so a mistyped value renders like a missing
// one instead of failing the whole payload.
type Reading struct {
	Value float64
	Valid bool
}

func (r *Reading) UnmarshalJSON(b []byte) error {
	*r = Reading{}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	*r = Reading{Value: v, Valid: true}
	return nil
}

// Some returns a valid Reading holding v.
func Some(v float64) Reading {
	return Reading{Value: v, Valid: true}
}

// String fields are pointers so that values missing from the payload can be
// told apart from empty ones and rendered as placeholders.

type CurrentWeatherResponse struct {
	Name    *string            `json:"name"`
	Sys     *Sys               `json:"sys"`
	Main    *CurrentMain       `json:"main"`
	Weather []WeatherCondition `json:"weather"`
	Wind    *Wind              `json:"wind"`
}

type Sys struct {
	Country *string `json:"country"`
}

type CurrentMain struct {
	Temp      Reading `json:"temp"`
	FeelsLike Reading `json:"feels_like"`
	Pressure  Reading `json:"pressure"`
	Humidity  Reading `json:"humidity"`
}

type WeatherCondition struct {
	Description *string `json:"description"`
}

type Wind struct {
	Speed Reading `json:"speed"`
	Deg   Reading `json:"deg"`
}

type ForecastResponse struct {
	City *ForecastCity `json:"city"`
	// List is nil when the payload carries no "list" field at all.
	List []ForecastSample `json:"list"`
}

type ForecastCity struct {
	Name *string `json:"name"`
}

// ForecastSample is one 3-hour interval of the 5 day forecast.
type ForecastSample struct {
	DtTxt string        `json:"dt_txt"`
	Main  *ForecastMain `json:"main"`
}

type ForecastMain struct {
	Temp Reading `json:"temp"`
}

// DailySummary is the mean temperature of all forecast samples sharing a calendar date.
type DailySummary struct {
	Date    string
	AvgTemp float64
}
