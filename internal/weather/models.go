package weather

import (
	"fmt"
	"math"
	"strings"

	"github.com/i474232898/weather-lookup/internal/common"
)

// ConditionKind represents a normalized high-level weather condition.
type ConditionKind string

const (
	KindUnknown ConditionKind = "unknown"
	KindClear   ConditionKind = "clear"
	KindCloudy  ConditionKind = "cloudy"
	KindRain    ConditionKind = "rain"
	KindSnow    ConditionKind = "snow"
	KindStorm   ConditionKind = "storm"
	KindMist    ConditionKind = "mist"
)

// Icon sizes served by the provider CDN.
const (
	iconSizeDefault = "64x64"
	iconSizeLarge   = "128x128"
)

// Location is the place a snapshot was reported for.
type Location struct {
	CityName string `json:"cityName"`
	Country  string `json:"country"`
}

// Condition is the provider's textual description of the sky plus its icon.
// Icon is scheme-relative, e.g. "//cdn.weatherapi.com/weather/64x64/day/116.png".
type Condition struct {
	Text string        `json:"text"`
	Icon string        `json:"icon"`
	Kind ConditionKind `json:"kind"`
}

// IconURL returns an absolute https URL for the condition icon. When upscale
// is set the 64x64 variant is swapped for the 128x128 one.
func (c Condition) IconURL(upscale bool) string {
	if c.Icon == "" {
		return ""
	}
	u := c.Icon
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	if upscale {
		u = strings.ReplaceAll(u, iconSizeDefault, iconSizeLarge)
	}
	return u
}

// WeatherSnapshot is an immutable point-in-time reading for one location.
// It is passed by value; nothing in this module mutates one after decoding.
type WeatherSnapshot struct {
	Location     Location  `json:"location"`
	TemperatureC float64   `json:"temperatureC"`
	FeelsLikeC   float64   `json:"feelsLikeC"`
	HumidityPct  int       `json:"humidityPct"`
	WindKph      float64   `json:"windKph"`
	PressureMb   float64   `json:"pressureMb"`
	Condition    Condition `json:"condition"`
}

// RoundedTemperature returns the temperature rounded half to even.
func (s WeatherSnapshot) RoundedTemperature() int {
	return int(math.RoundToEven(s.TemperatureC))
}

// RoundedFeelsLike returns the feels-like temperature rounded half to even.
func (s WeatherSnapshot) RoundedFeelsLike() int {
	return int(math.RoundToEven(s.FeelsLikeC))
}

// DisplayTemperature formats the rounded temperature, e.g. "18°".
func (s WeatherSnapshot) DisplayTemperature() string {
	return fmt.Sprintf("%d°", s.RoundedTemperature())
}

// ClassifyCondition maps provider condition text onto a ConditionKind.
func ClassifyCondition(text string) ConditionKind {
	switch {
	case strings.TrimSpace(text) == "":
		return KindUnknown
	case common.HasAny(text, "thunder", "storm"):
		return KindStorm
	case common.HasAny(text, "snow", "sleet", "blizzard", "ice pellets"):
		return KindSnow
	case common.HasAny(text, "rain", "shower", "drizzle"):
		return KindRain
	case common.HasAny(text, "mist", "fog", "haze"):
		return KindMist
	case common.HasAny(text, "cloud", "overcast"):
		return KindCloudy
	case common.HasAny(text, "sunny", "clear"):
		return KindClear
	default:
		return KindUnknown
	}
}
