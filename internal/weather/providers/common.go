package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// HTTPClientConfig bundles the shared HTTP client and breaker settings.
type HTTPClientConfig struct {
	Client *http.Client

	// BreakerThreshold is the number of consecutive transport or 5xx failures
	// that opens the circuit. 0 disables the breaker.
	BreakerThreshold int
	// BreakerCooldown is how long the circuit stays open before a probe.
	BreakerCooldown time.Duration
}

var errServerError = errors.New("server error")

func newCircuitBreaker(name string, cfg HTTPClientConfig) *gobreaker.CircuitBreaker {
	if cfg.BreakerThreshold <= 0 {
		return nil
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	threshold := uint32(cfg.BreakerThreshold)

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
}

// doRequest executes exactly one request through the circuit breaker. 4xx
// responses are returned to the caller untouched and never count as breaker
// failures; transport errors and 5xx do.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	req *http.Request,
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, &weather.LocalError{Err: errors.New("http client not configured")}
	}

	req = req.WithContext(ctx)

	if cb == nil {
		resp, err := cfg.Client.Do(req)
		if err != nil {
			return nil, &weather.TransportError{Op: "execute request", Err: err}
		}
		return resp, nil
	}

	var serverResp *http.Response
	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode >= 500 {
			// Keep the response so the caller can still report the status line.
			serverResp = resp
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		return resp, nil
	})

	if err == nil {
		resp, ok := result.(*http.Response)
		if !ok {
			return nil, &weather.TransportError{Op: "execute request", Err: fmt.Errorf("unexpected result type from circuit breaker")}
		}
		return resp, nil
	}

	if serverResp != nil {
		return serverResp, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &weather.TransportError{Op: "execute request", Err: fmt.Errorf("%w: %v", weather.ErrCircuitOpen, err)}
	}

	return nil, &weather.TransportError{Op: "execute request", Err: err}
}
