package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-mdxcraft/internal/commands/mdxcmd"
)

func newStatsCommand(a *app) *cobra.Command {
	var (
		asJSON      bool
		failOnError bool
	)
	cmd := &cobra.Command{
		Use:   "stats <file|glob>...",
		Short: "Precompile files and report cache statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := a.module(cmd)
			if err != nil {
				return err
			}
			paths, err := expand(args)
			if err != nil {
				return err
			}

			docs := make([]mdxcmd.PrecompileDocument, 0, len(paths))
			for _, path := range paths {
				source, err := readSource(path)
				if err != nil {
					return err
				}
				docs = append(docs, mdxcmd.PrecompileDocument{Key: path, Source: source})
			}

			handlers, err := module.Module.RegisterCommands(nil)
			if err != nil {
				return err
			}
			runErr := handlers.Precompile.Execute(cmd.Context(), mdxcmd.PrecompileCommand{
				Documents:   docs,
				FailOnError: failOnError,
			})

			stats := module.Module.CacheStats()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(map[string]any{"documents": len(docs), "cache": stats}); err != nil {
					return err
				}
				return runErr
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "documents\t%d\n", len(docs))
			fmt.Fprintf(tw, "entries\t%d\n", stats.EntryCount)
			fmt.Fprintf(tw, "size\t%d / %d bytes\n", stats.SizeBytes, stats.MaxSizeBytes)
			fmt.Fprintf(tw, "hit rate\t%.2f\n", stats.HitRate)
			fmt.Fprintf(tw, "evictions\t%d\n", stats.Evictions)
			if err := tw.Flush(); err != nil {
				return err
			}
			return runErr
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "exit non-zero when a document fails to compile")
	return cmd
}

// expand resolves glob patterns, keeping literal paths that match nothing so
// the read error names them.
func expand(args []string) ([]string, error) {
	seen := map[string]struct{}{}
	var paths []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			paths = append(paths, match)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
