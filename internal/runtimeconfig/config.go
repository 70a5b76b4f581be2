package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrCacheSizeInvalid = errors.New("mdx config: cache max size must be positive when the cache is enabled")
var ErrCacheTTLInvalid = errors.New("mdx config: cache ttl must be zero or positive")
var ErrPipelinePresetUnknown = errors.New("mdx config: pipeline preset is invalid")
var ErrCompileTimeoutInvalid = errors.New("mdx config: compile timeout must be zero or positive")
var ErrPrecompileWorkersInvalid = errors.New("mdx config: precompile workers must be zero or positive")
var ErrLoggingProviderRequired = errors.New("mdx config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("mdx config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("mdx config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("mdx config: logging format is invalid")

// Config aggregates the settings of the compilation module. Fields use plain
// types so the CLI can load them through viper.
type Config struct {
	Cache    CacheConfig    `mapstructure:"cache"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Compiler CompilerConfig `mapstructure:"compiler"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CacheConfig sizes the fingerprint cache. A zero TTL keeps the cache default.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	MaxSizeMB float64       `mapstructure:"max_size_mb"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// PipelineConfig selects the transform preset used for every compilation.
// Empty overrides keep the preset's own values.
type PipelineConfig struct {
	Preset         string   `mapstructure:"preset"`
	Extensions     []string `mapstructure:"extensions"`
	HighlightTheme string   `mapstructure:"highlight_theme"`
	WikiBasePath   string   `mapstructure:"wiki_base_path"`
}

// CompilerConfig captures compile-time behaviour.
type CompilerConfig struct {
	Development        bool          `mapstructure:"development"`
	StrictRenderErrors bool          `mapstructure:"strict_render_errors"`
	CompileTimeout     time.Duration `mapstructure:"compile_timeout"`
	PrecompileWorkers  int           `mapstructure:"precompile_workers"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns the settings used by mdxcraft.Default().
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Enabled:   true,
			MaxSizeMB: 10,
			TTL:       5 * time.Minute,
		},
		Pipeline: PipelineConfig{
			Preset: "default",
		},
		Compiler: CompilerConfig{
			PrecompileWorkers: 4,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	if cfg.Cache.Enabled && cfg.Cache.MaxSizeMB <= 0 {
		return ErrCacheSizeInvalid
	}
	if cfg.Cache.TTL < 0 {
		return ErrCacheTTLInvalid
	}
	if preset := NormalizePreset(cfg.Pipeline.Preset); !isSupportedPreset(preset) {
		return fmt.Errorf("%w: %s", ErrPipelinePresetUnknown, cfg.Pipeline.Preset)
	}
	if cfg.Compiler.CompileTimeout < 0 {
		return ErrCompileTimeoutInvalid
	}
	if cfg.Compiler.PrecompileWorkers < 0 {
		return ErrPrecompileWorkersInvalid
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// NormalizePreset lowercases a preset name and maps the empty string and the
// long aliases onto the canonical preset identifiers.
func NormalizePreset(preset string) string {
	switch p := strings.ToLower(strings.TrimSpace(preset)); p {
	case "":
		return "default"
	case "blog-optimized", "blog_optimized", "blogoptimized":
		return "blog"
	case "docs-optimized", "docs_optimized", "docsoptimized":
		return "docs"
	default:
		return p
	}
}

func isSupportedPreset(preset string) bool {
	switch preset {
	case "minimal", "default", "blog", "docs":
		return true
	default:
		return false
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
