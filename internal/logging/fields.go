package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

type contextKey struct{}

// WithFields returns logger annotated with fields when it implements
// interfaces.FieldsLogger. Other loggers, nil loggers and empty maps pass
// through unchanged. The map is copied so callers may keep mutating it.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return logger
	}
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fl.WithFields(maps.Clone(fields))
}

// Or substitutes NoOp for a nil logger.
func Or(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

// ContextWithFields layers fields over the ones already on ctx. The console
// logger merges them into entries logged through WithContext, and components
// can read them back with ContextFields (request_id during a compile).
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextKey{}, merged)
}

// ContextFields returns a copy of the fields stored on ctx, or nil.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	if fields, _ := ctx.Value(contextKey{}).(map[string]any); len(fields) > 0 {
		return maps.Clone(fields)
	}
	return nil
}
