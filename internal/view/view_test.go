package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/weather"
)

func TestRenderIdle(t *testing.T) {
	card := Render(weather.IdleState())

	assert.Equal(t, KindEmpty, card.Kind)
	assert.Equal(t, "idle", card.Status)
	assert.Equal(t, "Discover the Weather", card.Title)
	assert.Empty(t, card.Stats)
}

func TestRenderLoading(t *testing.T) {
	card := Render(weather.LoadingState(1, "req-1", "Paris"))

	assert.Equal(t, KindLoading, card.Kind)
	assert.Equal(t, "req-1", card.RequestID)
	assert.Equal(t, "Paris", card.Query)
	assert.Empty(t, card.Message)
}

func TestRenderFailure(t *testing.T) {
	card := Render(weather.FailureState(1, "req-1", "Atlantis", "Bad Request: No matching location found."))

	assert.Equal(t, KindError, card.Kind)
	assert.Equal(t, "⚠️  Bad Request: No matching location found.", card.Message)
}

func TestRenderSuccess(t *testing.T) {
	snap := weather.WeatherSnapshot{
		Location:     weather.Location{CityName: "Paris", Country: "France"},
		TemperatureC: 18.4,
		FeelsLikeC:   17.9,
		HumidityPct:  61,
		WindKph:      12.3,
		PressureMb:   1012,
		Condition:    weather.Condition{Text: "Partly cloudy", Icon: "//cdn.example/64x64/116.png"},
	}

	card := Render(weather.SuccessState(1, "req-1", "Paris", snap))

	assert.Equal(t, KindWeather, card.Kind)
	assert.Equal(t, "Paris", card.City)
	assert.Equal(t, "France", card.Country)
	assert.Equal(t, "18°", card.Temperature)
	assert.Equal(t, "Feels like 18°C", card.FeelsLike)
	assert.Equal(t, "Partly cloudy", card.Condition)
	assert.Equal(t, "https://cdn.example/128x128/116.png", card.IconURL)

	require.Len(t, card.Stats, 4)
	assert.Equal(t, Stat{Emoji: "💧", Label: "Humidity", Value: "61%"}, card.Stats[0])
	assert.Equal(t, "12.3 km/h", card.Stats[1].Value)
	assert.Equal(t, "18°C", card.Stats[2].Value)
	assert.Equal(t, "1012.0 mb", card.Stats[3].Value)
}

func TestRenderSuccessWithoutSnapshot(t *testing.T) {
	card := Render(weather.RequestState{Status: weather.StatusSuccess})
	assert.Equal(t, KindError, card.Kind)
}
