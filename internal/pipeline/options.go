// Package pipeline assembles the ordered transform lists handed to the MDX
// compiler. Every preset is a plain Options value run through the same
// builder.
package pipeline

import (
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// Options enumerates the optional features of a pipeline.
type Options struct {
	// StructuralExtensions enables GFM tables, strikethrough and autolinks.
	StructuralExtensions bool
	// Extensions names additional goldmark extensions (table, footnote,
	// definition, tasklist, ...). Unknown names are ignored.
	Extensions                    []string
	MathNotation                  bool
	LineBreaksOnDoubleNewlineOnly bool
	Frontmatter                   FrontmatterOptions
	WikiLinks                     WikiLinkOptions
	CustomDirectives              bool
	InlineMarkers                 bool
	EmojiShortcodes               bool
	ReadingTime                   bool
	HeadingIDSlugs                bool
	AutolinkHeadings              AutolinkOptions
	SyntaxHighlighting            HighlightOptions
	HTMLSanitization              bool
	HeadingExtraction             HeadingExtractionOptions
}

// FrontmatterOptions toggles frontmatter parsing. An empty Formats list
// accepts YAML and TOML.
type FrontmatterOptions struct {
	Enabled bool
	Formats []string
}

// WikiLinkOptions configures [[Target|Label]] links.
type WikiLinkOptions struct {
	Enabled  bool
	BasePath string
	// Resolver maps a link target to an href. Defaults to BasePath plus the
	// slugged target.
	Resolver func(target string) string
}

// AutolinkOptions decorates headings carrying an id with a self link.
type AutolinkOptions struct {
	Enabled bool
	// Behavior is "prepend" (default) or "append".
	Behavior string
}

// HighlightOptions configures syntax highlighting of fenced code.
type HighlightOptions struct {
	Enabled     bool
	Theme       string
	Highlighter Highlighter
}

// HeadingExtractionOptions enables the heading collector. A non-nil Collector
// enables extraction on its own.
type HeadingExtractionOptions struct {
	Enabled   bool
	Collector interfaces.HeadingCollector
}

func (o HeadingExtractionOptions) active() bool {
	return o.Enabled || o.Collector != nil
}
