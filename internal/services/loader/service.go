// Package loader tracks the payload of the currently selected class. It
// keeps at most one fetch in flight: selecting a class supersedes the
// previous request and a superseded response is dropped on arrival.
package loader

import (
	"context"

	"github.com/KirkDiggler/talent-api/internal/entities/talents"
)

//go:generate mockgen -destination=mock/mock_service.go -package=loadermock github.com/KirkDiggler/talent-api/internal/services/loader Service

// Fetcher retrieves a raw payload for a class. Both the HTTP client and the
// DBC repository satisfy it.
type Fetcher interface {
	FetchPayload(ctx context.Context, class string) (*talents.Payload, error)
}

// State is a point-in-time view of the loader.
type State struct {
	Class     string
	RequestID string
	Payload   *talents.Payload
	Loading   bool
	Err       error
}

// Service loads payloads for a selected class.
type Service interface {
	// Select makes class current and starts fetching it. It returns the
	// request ID of the new fetch.
	Select(ctx context.Context, class string) string

	// State returns the current state.
	State() State

	// Wait blocks until the current selection is no longer loading.
	Wait(ctx context.Context) (State, error)

	// OnChange registers fn to receive state transitions in order. A state
	// superseded before its callback ran is skipped. fn runs on the
	// goroutine that made the change and must not call Select.
	OnChange(fn func(State))

	// Close cancels any fetch in flight.
	Close()
}
