package relief

import "context"

// Unnamed is the display name observers and messages see when the context
// carries none.
const Unnamed = "unnamed"

// Typed context keys keep the validation context an ordinary
// context.Context: extra data rides along without widening any signature.
type (
	ctxKeyName     struct{}
	ctxKeyObserver struct{}
)

// WithName attaches a display name for the element being validated.
func WithName(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyName{}, name)
}

// NameOf returns the display name attached to ctx, or Unnamed.
func NameOf(ctx context.Context) string {
	if ctx == nil {
		return Unnamed
	}
	if s, ok := ctx.Value(ctxKeyName{}).(string); ok && s != "" {
		return s
	}
	return Unnamed
}

// WithObserver attaches an Observer that sees every validator invocation
// under this context.
func WithObserver(ctx context.Context, obs Observer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyObserver{}, obs)
}

func observerFrom(ctx context.Context) Observer {
	obs, _ := ctx.Value(ctxKeyObserver{}).(Observer)
	return obs
}
