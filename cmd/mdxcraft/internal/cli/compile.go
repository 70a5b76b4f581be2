package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

type compileFlags struct {
	toc    bool
	asJSON bool
	sync   bool
}

type compileOutput struct {
	HTML     string                     `json:"html"`
	Metadata interfaces.CompileMetadata `json:"metadata"`
	Duration int64                      `json:"duration_ms"`
}

func newCompileCommand(a *app) *cobra.Command {
	var flags compileFlags
	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile an MDX file and print the HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := a.module(cmd)
			if err != nil {
				return err
			}
			source, err := readSource(args[0])
			if err != nil {
				return err
			}

			req := interfaces.CompileRequest{Source: source}
			var result *interfaces.CompilationResult
			if flags.sync {
				result, err = module.Module.CompileSync(req)
			} else {
				result, err = module.Module.Compile(cmd.Context(), req)
			}
			if err != nil {
				return err
			}
			if result.Error != nil {
				return fmt.Errorf("%s: %w", args[0], result.Error)
			}
			return writeResult(cmd.OutOrStdout(), result, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.toc, "toc", false, "print the table of contents before the HTML")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print HTML and metadata as JSON")
	cmd.Flags().BoolVar(&flags.sync, "sync", false, "skip async transforms such as syntax highlighting")
	return cmd
}

func writeResult(w io.Writer, result *interfaces.CompilationResult, flags compileFlags) error {
	if flags.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(compileOutput{
			HTML:     result.Output.String(),
			Metadata: result.Metadata,
			Duration: result.Metadata.DurationMillis(),
		})
	}
	if flags.toc {
		if _, err := io.WriteString(w, tableOfContents(result.Metadata.Headings)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, result.Output.String())
	return err
}

func tableOfContents(headings []interfaces.Heading) string {
	if len(headings) == 0 {
		return ""
	}
	minLevel := headings[0].Level
	for _, h := range headings {
		minLevel = min(minLevel, h.Level)
	}
	var b strings.Builder
	for _, h := range headings {
		b.WriteString(strings.Repeat("  ", h.Level-minLevel))
		fmt.Fprintf(&b, "- %s (#%s)\n", h.Text, h.ID)
	}
	b.WriteString("\n")
	return b.String()
}
