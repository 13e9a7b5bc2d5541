package relief

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davecgh/go-spew/spew"
)

// Observer receives one callback per validator invocation. Attach it with
// WithObserver when a schema misbehaves and the element states need to be
// watched without sprinkling prints through validators.
type Observer interface {
	Validated(ctx context.Context, el Element, v Validator, ok bool)
}

// SlogObserver logs validator invocations at debug level. Values are
// rendered with go-spew so sentinel states and nested payloads stay
// readable.
type SlogObserver struct {
	Logger *slog.Logger
}

func (o SlogObserver) Validated(ctx context.Context, el Element, v Validator, ok bool) {
	if o.Logger == nil {
		return
	}
	o.Logger.Log(ctx, slog.LevelDebug, "validate",
		slog.String("name", NameOf(ctx)),
		slog.String("validator", fmt.Sprintf("%T", v)),
		slog.String("value", spew.Sprintf("%#v", el.Value())),
		slog.Bool("ok", ok),
	)
}
