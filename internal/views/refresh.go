// Package views implements the dashboard consistency layer: a refresh
// coordinator per view and fetch-on-token loaders under it. There is no
// push channel; after a mutation the view bumps its coordinator and
// every subordinate loader re-fetches. Full re-fetch is deliberate —
// the token carries identity-change semantics only, no payload.
package views

import "sync/atomic"

// Coordinator owns one dashboard view's refresh token: a monotonically
// increasing counter starting at 0. Bumping it is the sole
// cache-invalidation signal for the view's loaders.
type Coordinator struct {
	token atomic.Uint64
}

// NewCoordinator creates a coordinator at token 0.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Token returns the current refresh token.
func (c *Coordinator) Token() uint64 {
	return c.token.Load()
}

// Bump invalidates the view. Called exactly once after a mutation's
// success response — never optimistically, never on failure.
func (c *Coordinator) Bump() uint64 {
	return c.token.Add(1)
}
