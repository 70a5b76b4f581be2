package mdxcmd

import (
	"context"
	"errors"
	"fmt"
	"sort"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-mdxcraft/internal/commands"
	"github.com/goliatone/go-mdxcraft/internal/logging"
	"github.com/goliatone/go-mdxcraft/internal/mdx"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

const (
	precompileOperation = "mdx.precompile"
	clearCacheOperation = "mdx.cache.clear"
)

// ErrPrecompileFailed is returned when FailOnError is set and at least one
// document did not compile.
var ErrPrecompileFailed = errors.New("mdx command: precompile failed")

// Precompiler is the slice of mdx.Service used by the precompile handler.
type Precompiler interface {
	Precompile(ctx context.Context, items []mdx.PrecompileItem) mdx.PrecompileSummary
}

// CacheClearer is the slice of mdx.Service used by the clear-cache handler.
type CacheClearer interface {
	ClearCache()
	CacheStats() interfaces.CacheStats
}

// ComponentSource supplies the component map compiled documents bind to.
type ComponentSource func() map[string]interfaces.Component

var (
	_ command.Commander[PrecompileCommand] = (*PrecompileHandler)(nil)
	_ command.Commander[ClearCacheCommand] = (*ClearCacheHandler)(nil)
	_ Precompiler                          = (*mdx.Service)(nil)
	_ CacheClearer                         = (*mdx.Service)(nil)
)

// PrecompileHandler warms the compile cache via the shared command handler.
type PrecompileHandler struct {
	inner *commands.Handler[PrecompileCommand]
}

// NewPrecompileHandler creates a handler bound to service. components may be
// nil, in which case documents compile against an empty component map.
func NewPrecompileHandler(service Precompiler, components ComponentSource, logger interfaces.Logger, opts ...commands.HandlerOption[PrecompileCommand]) *PrecompileHandler {
	baseLogger := logging.Or(logger)

	exec := func(ctx context.Context, msg PrecompileCommand) error {
		var bound map[string]interfaces.Component
		if components != nil {
			bound = components()
		}

		items := make([]mdx.PrecompileItem, 0, len(msg.Documents))
		for _, doc := range msg.Documents {
			items = append(items, mdx.PrecompileItem{
				Key: doc.Key,
				Request: interfaces.CompileRequest{
					Source:          doc.Source,
					Components:      bound,
					DevelopmentMode: doc.Development,
				},
			})
		}

		summary := service.Precompile(ctx, items)
		for _, key := range failedKeys(summary) {
			logging.WithFields(baseLogger, map[string]any{
				"document": key,
			}).Warn("mdx.command.precompile.document_failed", "error", summary.Errors[key])
		}
		logging.WithFields(baseLogger, map[string]any{
			"total":     summary.Total,
			"succeeded": summary.Succeeded,
			"failed":    summary.Failed,
		}).Info("mdx.command.precompile.completed")

		if msg.FailOnError && summary.Failed > 0 {
			return fmt.Errorf("%w: %d of %d documents", ErrPrecompileFailed, summary.Failed, summary.Total)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[PrecompileCommand]{
		commands.WithLogger[PrecompileCommand](baseLogger),
		commands.WithOperation[PrecompileCommand](precompileOperation),
		commands.WithMessageFields(func(msg PrecompileCommand) map[string]any {
			return map[string]any{
				"documents":     len(msg.Documents),
				"fail_on_error": msg.FailOnError,
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PrecompileHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PrecompileCommand].
func (h *PrecompileHandler) Execute(ctx context.Context, msg PrecompileCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ClearCacheHandler empties the compile cache.
type ClearCacheHandler struct {
	inner *commands.Handler[ClearCacheCommand]
}

// NewClearCacheHandler creates a handler bound to service.
func NewClearCacheHandler(service CacheClearer, logger interfaces.Logger, opts ...commands.HandlerOption[ClearCacheCommand]) *ClearCacheHandler {
	baseLogger := logging.Or(logger)

	exec := func(ctx context.Context, msg ClearCacheCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		before := service.CacheStats()
		service.ClearCache()
		logging.WithFields(baseLogger, map[string]any{
			"entries_dropped": before.EntryCount,
			"bytes_released":  before.SizeBytes,
		}).Info("mdx.command.cache_clear.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ClearCacheCommand]{
		commands.WithLogger[ClearCacheCommand](baseLogger),
		commands.WithOperation[ClearCacheCommand](clearCacheOperation),
		commands.WithMessageFields(func(msg ClearCacheCommand) map[string]any {
			if msg.Reason == "" {
				return nil
			}
			return map[string]any{"reason": msg.Reason}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ClearCacheHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ClearCacheCommand].
func (h *ClearCacheHandler) Execute(ctx context.Context, msg ClearCacheCommand) error {
	return h.inner.Execute(ctx, msg)
}

func failedKeys(summary mdx.PrecompileSummary) []string {
	keys := make([]string, 0, len(summary.Errors))
	for key := range summary.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
