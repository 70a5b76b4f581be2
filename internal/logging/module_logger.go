package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

const (
	rootModule     = "mdx"
	compilerModule = "mdx.compiler"
	cacheModule    = "mdx.cache"
	commandsModule = "mdx.commands"
)

const (
	fieldRequestID = "request_id"
	fieldCacheKey  = "cache_key"
	fieldComponent = "component"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered by module.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// CompilerLogger returns the logger namespace reserved for the compilation service.
func CompilerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, compilerModule)
}

// CacheLogger returns the logger namespace reserved for the fingerprint cache.
func CacheLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cacheModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithCompileContext enriches logger with the request id and cache key of a
// compilation. Empty values are ignored.
func WithCompileContext(logger interfaces.Logger, requestID, cacheKey string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(requestID); trimmed != "" {
		fields[fieldRequestID] = trimmed
	}
	if trimmed := strings.TrimSpace(cacheKey); trimmed != "" {
		fields[fieldCacheKey] = trimmed
	}
	return WithFields(logger, fields)
}

// WithComponent tags logger with a component name.
func WithComponent(logger interfaces.Logger, component string) interfaces.Logger {
	if strings.TrimSpace(component) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldComponent: component})
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

// NoOpProvider hands out NoOp loggers for every module name.
func NoOpProvider() interfaces.LoggerProvider {
	return interfaces.LoggerProviderFunc(func(string) interfaces.Logger {
		return NoOp()
	})
}
