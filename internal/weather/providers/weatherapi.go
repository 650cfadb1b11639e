package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// DefaultWeatherAPIBaseURL is the WeatherAPI.com v1 root.
const DefaultWeatherAPIBaseURL = "https://api.weatherapi.com/v1"

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(cfg HTTPClientConfig, baseURL, apiKey string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = DefaultWeatherAPIBaseURL
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: cfg,
		circuit: newCircuitBreaker("weatherapi", cfg),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// Fetch issues GET {baseURL}/current.json?key=..&q=city. city is passed
// through verbatim.
func (p *WeatherAPIProvider) Fetch(ctx context.Context, city string) (weather.WeatherSnapshot, error) {
	if p.apiKey == "" {
		return weather.WeatherSnapshot{}, &weather.LocalError{Err: weather.ErrMissingAPIKey}
	}

	u, err := url.Parse(p.baseURL + "/current.json")
	if err != nil {
		return weather.WeatherSnapshot{}, &weather.LocalError{Err: fmt.Errorf("parse base url: %w", err)}
	}
	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", city)
	u.RawQuery = values.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return weather.WeatherSnapshot{}, &weather.LocalError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, req)
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weather.WeatherSnapshot{}, decodeAPIError(resp)
	}

	snapshot, err := decodeCurrent(resp.Body)
	if err != nil {
		return weather.WeatherSnapshot{}, &weather.TransportError{Op: "decode response", Err: err}
	}
	return snapshot, nil
}

// currentPayload mirrors the fields of current.json this module consumes.
type currentPayload struct {
	Location *struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Current *struct {
		TempC      float64 `json:"temp_c"`
		FeelsLikeC float64 `json:"feelslike_c"`
		Humidity   int     `json:"humidity"`
		WindKph    float64 `json:"wind_kph"`
		PressureMb float64 `json:"pressure_mb"`
		Condition  struct {
			Text string `json:"text"`
			Icon string `json:"icon"`
		} `json:"condition"`
	} `json:"current"`
}

func decodeCurrent(r io.Reader) (weather.WeatherSnapshot, error) {
	var payload currentPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	if payload.Location == nil || payload.Current == nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("response is missing location or current block")
	}

	cur := payload.Current
	return weather.WeatherSnapshot{
		Location: weather.Location{
			CityName: payload.Location.Name,
			Country:  payload.Location.Country,
		},
		TemperatureC: cur.TempC,
		FeelsLikeC:   cur.FeelsLikeC,
		HumidityPct:  cur.Humidity,
		WindKph:      cur.WindKph,
		PressureMb:   cur.PressureMb,
		Condition: weather.Condition{
			Text: cur.Condition.Text,
			Icon: cur.Condition.Icon,
			Kind: weather.ClassifyCondition(cur.Condition.Text),
		},
	}, nil
}

// decodeAPIError builds an HTTPError, enriching it with the provider's error
// body ({"error":{"code":1006,"message":"No matching location found."}}) when
// it can be read.
func decodeAPIError(resp *http.Response) error {
	httpErr := weather.NewHTTPError(resp.StatusCode, resp.Status)

	var body struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		httpErr.ProviderCode = body.Error.Code
		httpErr.ProviderMessage = body.Error.Message
	}
	return httpErr
}
