package views

import (
	"context"
	"errors"
	"sync"

	"github.com/aarogyalekha/hospital-portal/internal/gateway"
	"github.com/aarogyalekha/hospital-portal/internal/session"
	"github.com/rs/zerolog/log"
)

// State is a loader's render state. Exactly one applies at a time;
// Loaded with an empty slice is an explicit empty state, not an error.
type State string

const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateLoaded  State = "loaded"
)

// Result is what a loader hands the view.
type Result[T any] struct {
	State State
	Data  T
	Err   error
}

// Loader runs one fetch for a dashboard subcomponent, keyed by the
// view's refresh token. It re-fetches iff the token differs from the
// one it last fetched under; an unchanged token always serves the
// cached result, including a cached error (no retry).
type Loader[T any] struct {
	mu        sync.Mutex
	fetch     func(context.Context) (T, error)
	fetched   bool
	lastToken uint64
	result    Result[T]
}

// NewLoader wraps a fetch function, typically a gateway call.
func NewLoader[T any](fetch func(context.Context) (T, error)) *Loader[T] {
	return &Loader[T]{fetch: fetch}
}

// Load returns the loader's result for the given refresh token,
// fetching when the token is new to it.
func (l *Loader[T]) Load(ctx context.Context, token uint64) Result[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fetched && l.lastToken == token {
		return l.result
	}

	data, err := l.fetch(ctx)
	l.fetched = true
	l.lastToken = token

	if err != nil {
		l.result = Result[T]{State: StateError, Err: err}
	} else {
		l.result = Result[T]{State: StateLoaded, Data: data}
	}
	return l.result
}

// State reports the loader's current state without triggering a fetch.
func (l *Loader[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.fetched {
		return StateLoading
	}
	return l.result.State
}

// HandleAuthFailure applies the session-clear fallback for a loader
// error: a 401-class failure clears role's credential (idempotently —
// several loaders may observe the same expiry near-simultaneously) and
// reports that the caller must redirect to that role's login. Any other
// error leaves the session alone.
func HandleAuthFailure(ctx context.Context, store session.Store, role session.Role, err error) bool {
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) || !apiErr.Unauthorized() {
		return false
	}
	if clearErr := store.Clear(ctx, role); clearErr != nil {
		log.Error().Err(clearErr).Str("role", string(role)).Msg("Failed to clear credential")
	}
	return true
}
