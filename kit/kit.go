// Package kit holds the small transport-agnostic building blocks shared by
// service packages: the Endpoint function type, middleware chaining, and
// MCP tool registration.
package kit

import "context"

// Endpoint is one transport-agnostic operation: a typed request in, a
// serializable response out.
type Endpoint func(ctx context.Context, request any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behavior.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first one listed is outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
