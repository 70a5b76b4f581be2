package interfaces

import "context"

// Logger is the leveled logging contract used by the compiler, the cache and
// the command handlers. github.com/goliatone/go-logger satisfies it as is.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider returns the logger for a dotted module name such as
// "mdx.compiler" or "mdx.cache".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// LoggerProviderFunc adapts a function into a LoggerProvider.
type LoggerProviderFunc func(name string) Logger

// GetLogger satisfies LoggerProvider.
func (fn LoggerProviderFunc) GetLogger(name string) Logger {
	return fn(name)
}

// FieldsLogger is implemented by loggers that attach structured fields such as
// request_id or cache_key to every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
