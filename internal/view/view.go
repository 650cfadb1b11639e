// Package view maps a weather.RequestState onto the card a client displays.
package view

import (
	"fmt"
	"strconv"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Kind selects which card the client draws.
type Kind string

const (
	KindEmpty   Kind = "empty"
	KindLoading Kind = "loading"
	KindWeather Kind = "weather"
	KindError   Kind = "error"
)

const errorPrefix = "⚠️  "

// Stat is one labelled tile in the details grid.
type Stat struct {
	Emoji string `json:"emoji"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is the rendered form of a RequestState.
type Card struct {
	Kind      Kind   `json:"kind"`
	Status    string `json:"status"`
	RequestID string `json:"requestId,omitempty"`
	Query     string `json:"query,omitempty"`

	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Message  string `json:"message,omitempty"`

	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	Temperature string `json:"temperature,omitempty"`
	FeelsLike   string `json:"feelsLike,omitempty"`
	Condition   string `json:"condition,omitempty"`
	IconURL     string `json:"iconUrl,omitempty"`
	Stats       []Stat `json:"stats,omitempty"`
}

// Render builds the card for state.
func Render(state weather.RequestState) Card {
	card := Card{
		Status:    string(state.Status),
		RequestID: state.RequestID,
		Query:     state.Query,
	}

	switch state.Status {
	case weather.StatusLoading:
		card.Kind = KindLoading
	case weather.StatusFailure:
		card.Kind = KindError
		card.Message = errorPrefix + state.Message
	case weather.StatusSuccess:
		if state.Snapshot == nil {
			card.Kind = KindError
			card.Message = errorPrefix + "missing weather data"
			return card
		}
		renderSnapshot(&card, *state.Snapshot)
	default:
		card.Kind = KindEmpty
		card.Title = "Discover the Weather"
		card.Subtitle = "Search for any city to get\ncurrent weather conditions"
	}
	return card
}

func renderSnapshot(card *Card, s weather.WeatherSnapshot) {
	feelsLike := fmt.Sprintf("%d°C", s.RoundedFeelsLike())

	card.Kind = KindWeather
	card.City = s.Location.CityName
	card.Country = s.Location.Country
	card.Temperature = s.DisplayTemperature()
	card.FeelsLike = "Feels like " + feelsLike
	card.Condition = s.Condition.Text
	card.IconURL = s.Condition.IconURL(true)
	card.Stats = []Stat{
		{Emoji: "💧", Label: "Humidity", Value: fmt.Sprintf("%d%%", s.HumidityPct)},
		{Emoji: "💨", Label: "Wind", Value: formatFloat(s.WindKph) + " km/h"},
		{Emoji: "🌡️", Label: "Feels Like", Value: feelsLike},
		{Emoji: "⏱️", Label: "Pressure", Value: formatFloat(s.PressureMb) + " mb"},
	}
}

// formatFloat prints provider values the way they arrive: 12.3 stays 12.3,
// 1012.0 becomes 1012.0 rather than 1012.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + trailingZero(v)
}

func trailingZero(v float64) string {
	if v == float64(int64(v)) {
		return ".0"
	}
	return ""
}
