package pipeline

import (
	"fmt"
	"slices"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// Pipeline is the ordered pair of transform lists for one compilation.
type Pipeline struct {
	PreParse  []interfaces.PreParseTransform
	PostParse []interfaces.PostParseTransform
}

// Build assembles the full pipeline for opts. Ordering is fixed:
// frontmatter runs before structural extensions, heading ids before autolink
// decoration, highlighting after both and sanitization last.
func Build(opts Options) Pipeline {
	var pre []interfaces.PreParseTransform

	if opts.Frontmatter.Enabled {
		pre = append(pre, NewFrontmatter(opts.Frontmatter.Formats...))
	}
	if opts.StructuralExtensions || len(opts.Extensions) > 0 {
		pre = append(pre, NewStructural(opts.StructuralExtensions, opts.Extensions...))
	}
	if !opts.LineBreaksOnDoubleNewlineOnly {
		pre = append(pre, NewHardBreaks())
	}
	if opts.CustomDirectives {
		pre = append(pre, NewDirectives())
	}
	if opts.MathNotation {
		pre = append(pre, NewMath())
	}
	if opts.InlineMarkers {
		pre = append(pre, NewInlineMarkers())
	}
	if opts.WikiLinks.Enabled {
		pre = append(pre, NewWikiLinks(opts.WikiLinks))
	}
	if opts.EmojiShortcodes {
		pre = append(pre, NewEmoji())
	}
	if opts.ReadingTime {
		pre = append(pre, NewReadingTime())
	}
	if opts.HeadingExtraction.active() {
		pre = append(pre, NewHeadingExtraction(opts.HeadingExtraction.Collector))
	}

	var post []interfaces.PostParseTransform

	if opts.HeadingIDSlugs {
		post = append(post, NewHeadingIDs())
	}
	if opts.AutolinkHeadings.Enabled {
		post = append(post, NewAutolinkHeadings(opts.AutolinkHeadings.Behavior))
	}
	if opts.SyntaxHighlighting.Enabled {
		post = append(post, NewHighlight(opts.SyntaxHighlighting.Highlighter, opts.SyntaxHighlighting.Theme))
	}
	if opts.HTMLSanitization {
		post = append(post, NewSanitize())
	}

	return Pipeline{PreParse: pre, PostParse: post}
}

// BuildSync is Build without the post-parse transforms that declare
// asynchronous execution.
func BuildSync(opts Options) Pipeline {
	p := Build(opts)
	p.PostParse = SyncOnly(p.PostParse)
	return p
}

// SyncOnly filters out transforms for which interfaces.IsAsync is true.
func SyncOnly(transforms []interfaces.PostParseTransform) []interfaces.PostParseTransform {
	out := make([]interfaces.PostParseTransform, 0, len(transforms))
	for _, t := range transforms {
		if !interfaces.IsAsync(t) {
			out = append(out, t)
		}
	}
	return out
}

// Merge appends request-level transforms to p. Extra post-parse transforms
// are placed before sanitization so it stays last.
func Merge(p Pipeline, pre []interfaces.PreParseTransform, post []interfaces.PostParseTransform) Pipeline {
	merged := Pipeline{
		PreParse:  slices.Concat(p.PreParse, pre),
		PostParse: slices.Clone(p.PostParse),
	}
	if len(post) == 0 {
		return merged
	}

	at := len(merged.PostParse)
	if at > 0 && merged.PostParse[at-1].Name() == NameSanitize {
		at--
	}
	merged.PostParse = slices.Insert(merged.PostParse, at, post...)
	return merged
}

// Names lists transform names in execution order, pre-parse first.
func (p Pipeline) Names() []string {
	names := make([]string, 0, len(p.PreParse)+len(p.PostParse))
	for _, t := range p.PreParse {
		names = append(names, t.Name())
	}
	for _, t := range p.PostParse {
		names = append(names, t.Name())
	}
	return names
}

// Fingerprint identifies the pipeline shape for cache keys: the preset name
// and the number of request-level transforms. Different transforms of equal
// count share a fingerprint.
func Fingerprint(preset string, extraPre, extraPost int) string {
	return fmt.Sprintf("%s:%d:%d", preset, extraPre, extraPost)
}
