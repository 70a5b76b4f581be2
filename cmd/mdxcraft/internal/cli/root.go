// Package cli wires the mdxcraft cobra commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-mdxcraft/cmd/mdxcraft/internal/bootstrap"
)

// ModuleBuilder constructs the module used by every subcommand. Tests swap it
// for a builder with an in-memory logger.
type ModuleBuilder func(bootstrap.Options) (*bootstrap.Module, error)

type rootFlags struct {
	configFile  string
	preset      string
	development bool
	logLevel    string
}

type app struct {
	flags   rootFlags
	builder ModuleBuilder
}

// NewRootCommand returns the mdxcraft command tree.
func NewRootCommand(builder ModuleBuilder) *cobra.Command {
	if builder == nil {
		builder = bootstrap.BuildModule
	}
	a := &app{builder: builder}

	root := &cobra.Command{
		Use:   "mdxcraft",
		Short: "Compile MDX documents into HTML with server-side components",
		Long: `mdxcraft compiles MDX (Markdown with JSX components) into HTML.

Configuration is read from .mdxcraft.{yaml,json,toml} in the working
directory or from --config, and every key can be overridden with an
environment variable such as MDXCRAFT_PIPELINE_PRESET=docs.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.configFile, "config", "", "config file (default is ./.mdxcraft.yaml)")
	flags.StringVar(&a.flags.preset, "preset", "", "pipeline preset (minimal, default, blog, docs)")
	flags.BoolVar(&a.flags.development, "dev", false, "enable development diagnostics")
	flags.StringVarP(&a.flags.logLevel, "log-level", "l", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newCompileCommand(a),
		newWatchCommand(a),
		newStatsCommand(a),
	)
	return root
}

// Execute runs the command tree with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand(nil).ExecuteContext(ctx)
}

func (a *app) module(cmd *cobra.Command) (*bootstrap.Module, error) {
	opts := bootstrap.Options{
		ConfigFile: a.flags.configFile,
		Preset:     a.flags.preset,
		LogLevel:   a.flags.logLevel,
		LogWriter:  cmd.ErrOrStderr(),
	}
	if cmd.Flags().Changed("dev") {
		dev := a.flags.development
		opts.Development = &dev
	}
	module, err := a.builder(opts)
	if err != nil {
		return nil, err
	}
	if module == nil || module.Module == nil {
		return nil, fmt.Errorf("mdxcraft module not configured")
	}
	return module, nil
}

func readSource(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
