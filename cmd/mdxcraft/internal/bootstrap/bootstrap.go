package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	mdxcraft "github.com/goliatone/go-mdxcraft"
	"github.com/goliatone/go-mdxcraft/internal/logging"
	"github.com/goliatone/go-mdxcraft/internal/logging/console"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// EnvPrefix namespaces environment overrides, e.g. MDXCRAFT_CACHE_MAX_SIZE_MB.
const EnvPrefix = "MDXCRAFT"

// Options captures CLI level overrides applied on top of the loaded config.
type Options struct {
	ConfigFile  string
	Preset      string
	Development *bool
	LogLevel    string
	// LogWriter receives console log output. Defaults to stderr.
	LogWriter      io.Writer
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the mdxcraft module and the CLI logger.
type Module struct {
	Module *mdxcraft.Module
	Config mdxcraft.Config
	Logger interfaces.Logger
}

// LoadConfig reads configuration from defaults, an optional file and
// MDXCRAFT_* environment variables, in increasing order of precedence.
func LoadConfig(v *viper.Viper, configFile string) (mdxcraft.Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v, mdxcraft.DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if trimmed := strings.TrimSpace(configFile); trimmed != "" {
		v.SetConfigFile(trimmed)
		if err := v.ReadInConfig(); err != nil {
			return mdxcraft.Config{}, fmt.Errorf("read config %s: %w", trimmed, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(".mdxcraft")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return mdxcraft.Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg mdxcraft.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return mdxcraft.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg mdxcraft.Config) {
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.max_size_mb", cfg.Cache.MaxSizeMB)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("pipeline.preset", cfg.Pipeline.Preset)
	v.SetDefault("pipeline.extensions", cfg.Pipeline.Extensions)
	v.SetDefault("pipeline.highlight_theme", cfg.Pipeline.HighlightTheme)
	v.SetDefault("pipeline.wiki_base_path", cfg.Pipeline.WikiBasePath)
	v.SetDefault("compiler.development", cfg.Compiler.Development)
	v.SetDefault("compiler.strict_render_errors", cfg.Compiler.StrictRenderErrors)
	v.SetDefault("compiler.compile_timeout", cfg.Compiler.CompileTimeout)
	v.SetDefault("compiler.precompile_workers", cfg.Compiler.PrecompileWorkers)
	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}

// BuildModule loads configuration, applies opts and constructs the module.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := LoadConfig(viper.New(), opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if preset := strings.TrimSpace(opts.Preset); preset != "" {
		cfg.Pipeline.Preset = preset
	}
	if opts.Development != nil {
		cfg.Compiler.Development = *opts.Development
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}

	moduleOpts := []mdxcraft.Option{}
	provider := opts.LoggerProvider
	if provider == nil && opts.LogWriter != nil && !strings.EqualFold(cfg.Logging.Provider, "gologger") {
		level, _ := console.ParseLevel(cfg.Logging.Level)
		provider = console.NewProvider(console.Options{Writer: opts.LogWriter, MinLevel: &level})
	}
	if provider != nil {
		moduleOpts = append(moduleOpts, mdxcraft.WithLoggerProvider(provider))
	}

	module, err := mdxcraft.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise mdxcraft module: %w", err)
	}

	return &Module{
		Module: module,
		Config: cfg,
		Logger: logging.ModuleLogger(module.LoggerProvider(), "mdx.cli"),
	}, nil
}
