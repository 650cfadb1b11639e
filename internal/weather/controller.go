package weather

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Controller owns the current RequestState and mediates between Search calls
// and the asynchronous provider fetch. A newer search always wins: completions
// from superseded searches are discarded.
type Controller struct {
	provider Provider
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// pubMu serializes set-and-deliver so every subscriber observes the same
	// order of transitions.
	pubMu sync.Mutex

	mu        sync.RWMutex
	state     RequestState
	latest    uint64
	closed    bool
	subs      []*subscriber
	nextSubID uint64
}

type subscriber struct {
	id     uint64
	fn     func(RequestState)
	active bool
}

// NewController creates a Controller in the Idle state. A timeout <= 0 leaves
// the fetch bounded only by the provider's HTTP client.
func NewController(provider Provider, timeout time.Duration) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		provider: provider,
		timeout:  timeout,
		ctx:      ctx,
		cancel:   cancel,
		state:    IdleState(),
	}
}

// State returns the latest published state.
func (c *Controller) State() RequestState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe registers fn for every future transition. fn runs synchronously
// on the publishing goroutine and must not call Search.
func (c *Controller) Subscribe(fn func(RequestState)) (unsubscribe func()) {
	c.mu.Lock()
	c.nextSubID++
	sub := &subscriber{id: c.nextSubID, fn: fn, active: true}
	c.subs = append(c.subs, sub)
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			sub.active = false
			kept := c.subs[:0]
			for _, s := range c.subs {
				if s.id != sub.id {
					kept = append(kept, s)
				}
			}
			c.subs = kept
		})
	}
}

// Search publishes Loading immediately and fetches weather for city in the
// background. Errors never escape; they are published as Failure.
func (c *Controller) Search(city string) {
	requestID := uuid.NewString()

	c.pubMu.Lock()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.pubMu.Unlock()
		log.Printf("ERROR: search %s for %q rejected: %v", requestID, city, ErrControllerClosed)
		c.publishFailureClosed(requestID, city)
		return
	}
	c.latest++
	seq := c.latest
	c.wg.Add(1)
	c.mu.Unlock()
	c.setAndDeliver(LoadingState(seq, requestID, city))
	c.pubMu.Unlock()

	log.Printf("INFO: search %s (#%d) started for %q", requestID, seq, city)

	go func() {
		defer c.wg.Done()
		snapshot, err := c.fetch(city)

		var next RequestState
		if err != nil {
			log.Printf("ERROR: search %s (#%d) failed for %q: %v", requestID, seq, city, err)
			next = FailureState(seq, requestID, city, FailureMessage(err))
		} else {
			next = SuccessState(seq, requestID, city, snapshot)
		}
		c.complete(next)
	}()
}

// fetch calls the provider and converts panics into LocalError.
func (c *Controller) fetch(city string) (snapshot WeatherSnapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &LocalError{Err: fmt.Errorf("provider panicked: %v", r)}
		}
	}()

	if c.provider == nil {
		return WeatherSnapshot{}, &LocalError{Err: ErrNoProvider}
	}

	ctx := c.ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.provider.Fetch(ctx, city)
}

// complete publishes a terminal state unless a newer search has been issued.
func (c *Controller) complete(next RequestState) {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.mu.RLock()
	latest := c.latest
	c.mu.RUnlock()

	if next.Seq != latest {
		log.Printf("DEBUG: discarding %s result of superseded search %s (#%d, latest #%d)",
			next.Status, next.RequestID, next.Seq, latest)
		return
	}
	c.setAndDeliver(next)
}

func (c *Controller) publishFailureClosed(requestID, city string) {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.mu.Lock()
	c.latest++
	seq := c.latest
	c.mu.Unlock()
	c.setAndDeliver(FailureState(seq, requestID, city, ErrControllerClosed.Error()))
}

// setAndDeliver must be called with pubMu held.
func (c *Controller) setAndDeliver(next RequestState) {
	c.mu.Lock()
	c.state = next
	active := make([]*subscriber, 0, len(c.subs))
	for _, s := range c.subs {
		if s.active {
			active = append(active, s)
		}
	}
	c.mu.Unlock()

	for _, s := range active {
		s.fn(next)
	}
}

// Done is closed once Close has been called.
func (c *Controller) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Wait blocks until every fetch spawned so far has completed.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight fetches and waits for them to return. Later calls to
// Search publish a Failure.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}
