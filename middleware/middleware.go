// Package middleware carries the pieces the framework adapters share:
// stashing a validated element in the request context and shaping issues
// for JSON responses.
package middleware

import (
	"context"

	relief "github.com/tonich-sh/relief"
)

// ctxKeyElement is the typed context key for the validated element.
type ctxKeyElement struct{}

// ContextWithElement attaches a validated element to the context.
func ContextWithElement(ctx context.Context, el relief.Element) context.Context {
	return context.WithValue(ctx, ctxKeyElement{}, el)
}

// ElementFromContext retrieves the element a validation middleware stored.
func ElementFromContext(ctx context.Context) (relief.Element, bool) {
	el, ok := ctx.Value(ctxKeyElement{}).(relief.Element)
	return el, ok
}

// ErrorPayload shapes issues for JSON responses.
func ErrorPayload(issues relief.Issues) map[string]any {
	return map[string]any{"issues": issues}
}
