package httpapi

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/i474232898/weather-lookup/internal/view"
	"github.com/i474232898/weather-lookup/internal/weather"
)

var validate = validator.New()

// keepAliveInterval is how often an idle stream sends a comment line so that
// dead connections are noticed.
const keepAliveInterval = 15 * time.Second

// StateController is the part of weather.Controller the routes need.
type StateController interface {
	Search(city string)
	State() weather.RequestState
	Subscribe(fn func(weather.RequestState)) (unsubscribe func())
	Done() <-chan struct{}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, ctrl StateController) {
	v1 := app.Group("/api/v1")

	v1.Post("/weather/search", func(c *fiber.Ctx) error {
		req, err := parseSearchRequest(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctrl.Search(req.City)
		return c.Status(fiber.StatusAccepted).JSON(view.Render(ctrl.State()))
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		return c.JSON(view.Render(ctrl.State()))
	})

	v1.Get("/weather/stream", func(c *fiber.Ctx) error {
		untilTerminal := c.Query("until") == "terminal"

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			streamStates(w, ctrl, untilTerminal)
		}))
		return nil
	})
}

// searchRequest is the body (or query) of a search call. City is forwarded
// verbatim; only its length is checked here.
type searchRequest struct {
	City string `json:"city" form:"city" validate:"max=200"`
}

func parseSearchRequest(c *fiber.Ctx) (searchRequest, error) {
	var req searchRequest

	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return req, fmt.Errorf("invalid request body: %w", err)
		}
	} else {
		req.City = c.Query("city")
	}

	if err := validate.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}

// streamStates writes the current state, then every transition, as
// server-sent events until the client goes away, the controller is closed
// or, with untilTerminal, a terminal state has been written.
func streamStates(w *bufio.Writer, ctrl StateController, untilTerminal bool) {
	updates := make(chan weather.RequestState, 1)
	unsubscribe := ctrl.Subscribe(func(s weather.RequestState) {
		offerLatest(updates, s)
	})
	defer unsubscribe()

	current := ctrl.State()
	if err := writeEvent(w, current); err != nil {
		return
	}
	if untilTerminal && current.Terminal() {
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case s := <-updates:
			if !s.Supersedes(current) {
				continue
			}
			current = s
			if err := writeEvent(w, s); err != nil {
				return
			}
			if untilTerminal && s.Terminal() {
				return
			}
		case <-ctrl.Done():
			return
		case <-ticker.C:
			if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

// offerLatest puts s into the single-slot channel ch, replacing a pending
// state the reader has not taken yet. The newest state is never dropped.
func offerLatest(ch chan weather.RequestState, s weather.RequestState) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case old := <-ch:
			log.Printf("DEBUG: stream skipped %s transition for request %s", old.Status, old.RequestID)
		default:
		}
	}
}

func writeEvent(w *bufio.Writer, s weather.RequestState) error {
	data, err := json.Marshal(view.Render(s))
	if err != nil {
		return err
	}
	if s.RequestID != "" {
		fmt.Fprintf(w, "id: %s\n", s.RequestID)
	}
	fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
	return w.Flush()
}
