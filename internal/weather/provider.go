package weather

import (
	"context"
)

// Provider abstracts the weather data source. Fetch must issue at most one
// outbound request and return *HTTPError, *TransportError or *LocalError on
// failure.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city string) (WeatherSnapshot, error)
}
