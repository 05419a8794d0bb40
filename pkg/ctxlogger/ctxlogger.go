package ctxlogger

import (
	"context"
	"log/slog"
)

type ctxKey int

const slogAttrsKey ctxKey = iota

// ContextHandler wraps a slog.Handler and adds the attributes stored in the
// record's context via AppendCtx.
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogAttrsKey).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, r)
}

// AppendCtx returns a context carrying attr in addition to any attributes
// already stored by previous AppendCtx calls.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	var attrs []slog.Attr
	if existing, ok := parent.Value(slogAttrsKey).([]slog.Attr); ok {
		attrs = make([]slog.Attr, 0, len(existing)+1)
		attrs = append(attrs, existing...)
	}

	attrs = append(attrs, attr)

	return context.WithValue(parent, slogAttrsKey, attrs)
}
