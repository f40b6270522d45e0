// Package httpx is the shared HTTP plumbing: middleware composition,
// JSON response helpers, anti-forgery, and rate limiting. It knows
// nothing about the access domain; principal-aware middleware lives next
// to the handlers that use it.
package httpx

import "net/http"

// Middleware wraps a handler with cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares around h so the first listed runs first on
// the way in.
func Chain(h http.Handler, mw ...Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
