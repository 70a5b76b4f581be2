package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-mdxcraft/cmd/mdxcraft/internal/bootstrap"
	"github.com/goliatone/go-mdxcraft/internal/logging"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

const watchDebounce = 50 * time.Millisecond

func newWatchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Recompile an MDX file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := a.module(cmd)
			if err != nil {
				return err
			}
			path := args[0]
			out := cmd.OutOrStdout()

			recompile := func() {
				if err := compileOnce(cmd.Context(), module, path, out); err != nil {
					fmt.Fprintf(out, "error: %v\n", err)
				}
			}
			recompile()
			return watchFile(cmd.Context(), path, module.Logger, recompile)
		},
	}
	return cmd
}

func compileOnce(ctx context.Context, module *bootstrap.Module, path string, out io.Writer) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}
	result, err := module.Module.Compile(ctx, interfaces.CompileRequest{Source: source})
	if err != nil {
		return err
	}
	if result.Error != nil {
		return result.Error
	}
	state := "miss"
	if result.Metadata.CacheHit {
		state = "hit"
	}
	_, err = fmt.Fprintf(out, "compiled %s (cache %s, %d components, %dms)\n",
		path, state, result.Metadata.ComponentCount, result.Metadata.DurationMillis())
	return err
}

// watchFile calls onChange after writes to path until ctx is done. The parent
// directory is watched so editors that replace the file on save still
// trigger a rebuild.
func watchFile(ctx context.Context, path string, logger interfaces.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logger = logging.WithFields(logging.Or(logger), map[string]any{"file": abs})
	logger.Info("mdx.cli.watch.started")

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("mdx.cli.watch.stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("mdx.cli.watch.error", "error", err)
		}
	}
}
