package loader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/pkg/idgen"
)

const defaultTimeout = 30 * time.Second

// Config holds the loader dependencies.
type Config struct {
	Fetcher Fetcher
	IDGen   idgen.Generator
	// Timeout bounds a single fetch (optional, defaults to 30 seconds)
	Timeout time.Duration
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	if c.Fetcher == nil {
		return errors.InvalidArgument("fetcher is required")
	}
	if c.IDGen == nil {
		return errors.InvalidArgument("id generator is required")
	}
	if c.Timeout < 0 {
		return errors.InvalidArgument("timeout must not be negative")
	}
	return nil
}

type loader struct {
	fetcher Fetcher
	ids     idgen.Generator
	timeout time.Duration

	mu        sync.Mutex
	state     State
	version   uint64
	cancel    context.CancelFunc
	done      chan struct{}
	listeners []func(State)

	// notifyMu orders listener callbacks; delivered is the version of the
	// last state handed to them.
	notifyMu  sync.Mutex
	delivered uint64
}

// New returns an idle loader with no class selected.
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	done := make(chan struct{})
	close(done)
	return &loader{
		fetcher: cfg.Fetcher,
		ids:     cfg.IDGen,
		timeout: timeout,
		done:    done,
	}, nil
}

func (l *loader) Select(ctx context.Context, class string) string {
	reqID := l.ids.Generate()
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	prevDone := l.done
	l.cancel = cancel
	l.done = make(chan struct{})
	done := l.done

	next := State{Class: class, RequestID: reqID, Loading: true}
	if class == l.state.Class {
		// same class: keep showing what we have while refreshing
		next.Payload = l.state.Payload
	}
	l.state = next
	l.version++
	version := l.version
	// release waiters of the superseded request
	closeOnce(prevDone)
	l.mu.Unlock()

	l.notify(next, version)

	slog.DebugContext(ctx, "loading talent payload", "class", class, "request_id", reqID)

	go l.fetch(fetchCtx, cancel, class, reqID, done)
	return reqID
}

func (l *loader) fetch(ctx context.Context, cancel context.CancelFunc, class, reqID string, done chan struct{}) {
	defer cancel()

	payload, err := l.fetcher.FetchPayload(ctx, class)
	if err == nil && payload == nil {
		err = errors.DataLoss("fetcher returned no payload")
	}
	if err == nil && payload.Error != "" {
		err = errors.FailedPrecondition(payload.Error)
		payload = nil
	}

	l.mu.Lock()
	if l.state.RequestID != reqID {
		l.mu.Unlock()
		slog.Debug("discarding stale talent payload", "class", class, "request_id", reqID)
		return
	}
	l.state.Loading = false
	if err != nil {
		l.state.Err = err
		l.state.Payload = nil
	} else {
		l.state.Err = nil
		l.state.Payload = payload
	}
	state := l.state
	l.version++
	version := l.version
	l.cancel = nil
	closeOnce(done)
	l.mu.Unlock()

	if err != nil {
		slog.Warn("talent payload fetch failed", "class", class, "request_id", reqID, "error", err)
	}
	l.notify(state, version)
}

func (l *loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *loader) Wait(ctx context.Context) (State, error) {
	for {
		l.mu.Lock()
		done := l.done
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return l.State(), errors.Wrap(ctx.Err(), "wait aborted")
		case <-done:
		}

		if s := l.State(); !s.Loading {
			return s, nil
		}
	}
}

func (l *loader) OnChange(fn func(State)) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

func (l *loader) Close() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	// an in-flight result must not land after Close
	l.state.RequestID = ""
	l.state.Loading = false
	closeOnce(l.done)
	l.mu.Unlock()
}

// notify hands s to the listeners unless a newer state already went out.
func (l *loader) notify(s State, version uint64) {
	l.notifyMu.Lock()
	defer l.notifyMu.Unlock()
	if version <= l.delivered {
		return
	}
	l.delivered = version

	l.mu.Lock()
	listeners := append([]func(State){}, l.listeners...)
	l.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

// closeOnce must be called with mu held.
func closeOnce(ch chan struct{}) {
	select {
	case <-ch:
	default:
		close(ch)
	}
}
