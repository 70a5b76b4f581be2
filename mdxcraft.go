// Package mdxcraft compiles MDX documents into HTML bound to a registry of
// server-side components, caching compiled artifacts by content fingerprint.
package mdxcraft

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strings"
	"sync"

	"github.com/goliatone/go-mdxcraft/internal/commands/mdxcmd"
	"github.com/goliatone/go-mdxcraft/internal/compiler"
	"github.com/goliatone/go-mdxcraft/internal/components"
	"github.com/goliatone/go-mdxcraft/internal/fpcache"
	"github.com/goliatone/go-mdxcraft/internal/logging"
	"github.com/goliatone/go-mdxcraft/internal/logging/console"
	"github.com/goliatone/go-mdxcraft/internal/logging/gologger"
	"github.com/goliatone/go-mdxcraft/internal/mdx"
	"github.com/goliatone/go-mdxcraft/internal/pipeline"
	"github.com/goliatone/go-mdxcraft/internal/runtimeconfig"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// Compiler exports the compilation contract.
type Compiler = interfaces.Compiler

// CompileRequest exports the compile request DTO.
type CompileRequest = interfaces.CompileRequest

// CompilationResult exports the compile result DTO.
type CompilationResult = interfaces.CompilationResult

// CompileMetadata exports the metadata attached to every result.
type CompileMetadata = interfaces.CompileMetadata

// CacheStats exports the cache statistics snapshot.
type CacheStats = interfaces.CacheStats

// Component exports the server-side component contract.
type Component = interfaces.Component

// ComponentFunc exports the function adapter for components.
type ComponentFunc = interfaces.ComponentFunc

// ComponentDefinition exports the registry definition DTO.
type ComponentDefinition = interfaces.ComponentDefinition

// Props exports the component props map.
type Props = interfaces.Props

// Heading exports the extracted heading DTO.
type Heading = interfaces.Heading

// PrecompileItem exports the precompile batch item.
type PrecompileItem = mdx.PrecompileItem

// PrecompileSummary exports the precompile batch outcome.
type PrecompileSummary = mdx.PrecompileSummary

// CommandHandlers exports the go-command handler set.
type CommandHandlers = mdxcmd.HandlerSet

// Option customises module construction.
type Option func(*moduleOptions)

type moduleOptions struct {
	loggerProvider interfaces.LoggerProvider
	metrics        interfaces.CompileMetrics
	evaluator      compiler.Evaluator
	highlighter    pipeline.Highlighter
	definitions    []interfaces.ComponentDefinition
	skipBuiltIns   bool
}

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *moduleOptions) {
		o.loggerProvider = provider
	}
}

// WithMetrics installs a metrics sink for compile and render outcomes.
func WithMetrics(metrics interfaces.CompileMetrics) Option {
	return func(o *moduleOptions) {
		o.metrics = metrics
	}
}

// WithEvaluator replaces the goldmark evaluator.
func WithEvaluator(evaluator compiler.Evaluator) Option {
	return func(o *moduleOptions) {
		o.evaluator = evaluator
	}
}

// WithHighlighter replaces the chroma highlighter used by the syntax
// highlighting transform.
func WithHighlighter(highlighter pipeline.Highlighter) Option {
	return func(o *moduleOptions) {
		o.highlighter = highlighter
	}
}

// WithComponents registers definitions ahead of the built-in components, so a
// definition named like a built-in replaces it.
func WithComponents(defs ...interfaces.ComponentDefinition) Option {
	return func(o *moduleOptions) {
		o.definitions = append(o.definitions, defs...)
	}
}

// WithoutBuiltInComponents skips Callout, Card, Figure and YouTube.
func WithoutBuiltInComponents() Option {
	return func(o *moduleOptions) {
		o.skipBuiltIns = true
	}
}

// Module is the top level compilation façade: a compile service bound to a
// component registry.
type Module struct {
	config   Config
	service  *mdx.Service
	registry *components.Registry
	provider interfaces.LoggerProvider
	logger   interfaces.Logger
}

var _ interfaces.Compiler = (*Module)(nil)

// New validates cfg and wires the pipeline preset, cache, registry and logging.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := moduleOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	provider := options.loggerProvider
	if provider == nil {
		built, err := newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		provider = built
	}

	preset := runtimeconfig.NormalizePreset(cfg.Pipeline.Preset)
	pipelineOpts, ok := pipeline.Preset(preset)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPipelinePresetUnknown, cfg.Pipeline.Preset)
	}
	applyPipelineOverrides(&pipelineOpts, cfg.Pipeline, options.highlighter)

	serviceOpts := []mdx.Option{
		mdx.WithPipeline(preset, pipelineOpts),
		mdx.WithDevelopment(cfg.Compiler.Development),
		mdx.WithStrictRenderErrors(cfg.Compiler.StrictRenderErrors),
		mdx.WithCompileTimeout(cfg.Compiler.CompileTimeout),
		mdx.WithPrecompileWorkers(cfg.Compiler.PrecompileWorkers),
		mdx.WithLogger(logging.CompilerLogger(provider)),
		mdx.WithMetrics(options.metrics),
		mdx.WithEvaluator(options.evaluator),
	}
	if cfg.Cache.Enabled {
		serviceOpts = append(serviceOpts, mdx.WithCache(fpcache.New[*compiler.Artifact](fpcache.Options{
			MaxSizeMB: cfg.Cache.MaxSizeMB,
			TTL:       cfg.Cache.TTL,
			Logger:    logging.CacheLogger(provider),
		})))
	} else {
		serviceOpts = append(serviceOpts, mdx.WithCache(nil))
	}

	registry := components.NewRegistry(components.NewValidator())
	for _, def := range options.definitions {
		if err := registry.Register(def); err != nil {
			return nil, err
		}
	}
	if !options.skipBuiltIns {
		if err := components.RegisterBuiltIns(registry); err != nil {
			return nil, err
		}
	}

	module := &Module{
		config:   cfg,
		service:  mdx.NewService(serviceOpts...),
		registry: registry,
		provider: provider,
		logger:   logging.ModuleLogger(provider, "mdx"),
	}
	logging.WithFields(module.logger, map[string]any{
		"preset":     preset,
		"cache":      cfg.Cache.Enabled,
		"components": len(registry.Names()),
	}).Debug("mdx.module.ready")
	return module, nil
}

func applyPipelineOverrides(opts *pipeline.Options, cfg PipelineConfig, highlighter pipeline.Highlighter) {
	if len(cfg.Extensions) > 0 {
		opts.Extensions = append([]string(nil), cfg.Extensions...)
	}
	if cfg.HighlightTheme != "" {
		opts.SyntaxHighlighting.Theme = cfg.HighlightTheme
	}
	if cfg.WikiBasePath != "" {
		opts.WikiLinks.BasePath = cfg.WikiBasePath
	}
	if highlighter != nil {
		opts.SyntaxHighlighting.Highlighter = highlighter
	}
}

func newLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		level, _ := console.ParseLevel(cfg.Level)
		return console.NewProvider(console.Options{
			Writer:   os.Stderr,
			MinLevel: &level,
		}), nil
	}
}

// Compile compiles req, binding the registry's components. Components set on
// the request take precedence over registered ones with the same name.
func (m *Module) Compile(ctx context.Context, req CompileRequest) (*CompilationResult, error) {
	return m.service.Compile(ctx, m.bind(req))
}

// CompileSync compiles req without async transforms.
func (m *Module) CompileSync(req CompileRequest) (*CompilationResult, error) {
	return m.service.CompileSync(m.bind(req))
}

// CompileAsync runs Compile in a goroutine. Exactly one of the returned
// channels receives a value.
func (m *Module) CompileAsync(ctx context.Context, req CompileRequest) (<-chan *CompilationResult, <-chan error) {
	return m.service.CompileAsync(ctx, m.bind(req))
}

// CompileString compiles source with the registered components only.
func (m *Module) CompileString(ctx context.Context, source string) (*CompilationResult, error) {
	return m.Compile(ctx, CompileRequest{Source: source})
}

// Precompile warms the cache for items using the registered components.
func (m *Module) Precompile(ctx context.Context, items []PrecompileItem) PrecompileSummary {
	bound := make([]PrecompileItem, len(items))
	for i, item := range items {
		bound[i] = PrecompileItem{Key: item.Key, Request: m.bind(item.Request)}
	}
	return m.service.Precompile(ctx, bound)
}

// CacheKey returns the fingerprint req would be cached under.
func (m *Module) CacheKey(req CompileRequest) string {
	return m.service.CacheKey(req)
}

// ClearCache drops every cached artifact.
func (m *Module) ClearCache() {
	m.service.ClearCache()
}

// CacheStats reports cache occupancy and hit rate.
func (m *Module) CacheStats() CacheStats {
	return m.service.CacheStats()
}

// RegisterComponent adds a definition to the registry.
func (m *Module) RegisterComponent(def ComponentDefinition) error {
	return m.registry.Register(def)
}

// Components exposes the component registry.
func (m *Module) Components() interfaces.ComponentRegistry {
	return m.registry
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.config
}

// LoggerProvider returns the provider used by every module logger.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.provider
}

// RegisterCommands builds the precompile and clear-cache go-command handlers
// and records them with reg when it is non-nil.
func (m *Module) RegisterCommands(reg mdxcmd.CommandRegistry, opts ...mdxcmd.Option) (*CommandHandlers, error) {
	opts = append([]mdxcmd.Option{mdxcmd.WithComponents(m.registry.Components)}, opts...)
	return mdxcmd.RegisterMDXCommands(reg, m.service, m.provider, opts...)
}

func (m *Module) bind(req CompileRequest) CompileRequest {
	registered := m.registry.Components()
	if len(req.Components) == 0 {
		req.Components = registered
		return req
	}
	merged := make(map[string]interfaces.Component, len(registered)+len(req.Components))
	maps.Copy(merged, registered)
	maps.Copy(merged, req.Components)
	req.Components = merged
	return req
}

var (
	defaultOnce   sync.Once
	defaultModule *Module
	defaultErr    error
)

// Default returns a process-wide module built from DefaultConfig. It is meant
// for composition roots; libraries should accept a Compiler instead.
func Default() *Module {
	defaultOnce.Do(func() {
		defaultModule, defaultErr = New(DefaultConfig())
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("mdxcraft: default module: %v", defaultErr))
	}
	return defaultModule
}
