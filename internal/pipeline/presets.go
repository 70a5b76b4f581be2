package pipeline

import "strings"

// Preset names.
const (
	PresetMinimal = "minimal"
	PresetDefault = "default"
	PresetBlog    = "blog"
	PresetDocs    = "docs"
)

// Minimal keeps plain CommonMark plus sanitization.
func Minimal() Options {
	return Options{
		LineBreaksOnDoubleNewlineOnly: true,
		HTMLSanitization:              true,
	}
}

// Default is the general purpose preset.
func Default() Options {
	return Options{
		StructuralExtensions:          true,
		LineBreaksOnDoubleNewlineOnly: true,
		Frontmatter:                   FrontmatterOptions{Enabled: true},
		HeadingIDSlugs:                true,
		SyntaxHighlighting:            HighlightOptions{Enabled: true, Theme: "github"},
		HTMLSanitization:              true,
		HeadingExtraction:             HeadingExtractionOptions{Enabled: true},
	}
}

// BlogOptimized favours prose: soft breaks, emoji, inline markers and reading
// time.
func BlogOptimized() Options {
	return Options{
		StructuralExtensions: true,
		Extensions:           []string{"footnote"},
		Frontmatter:          FrontmatterOptions{Enabled: true},
		InlineMarkers:        true,
		EmojiShortcodes:      true,
		ReadingTime:          true,
		HeadingIDSlugs:       true,
		AutolinkHeadings:     AutolinkOptions{Enabled: true},
		SyntaxHighlighting:   HighlightOptions{Enabled: true, Theme: "monokai"},
		HTMLSanitization:     true,
		HeadingExtraction:    HeadingExtractionOptions{Enabled: true},
	}
}

// DocsOptimized favours reference material: math, wiki links, directives and
// linked headings.
func DocsOptimized() Options {
	return Options{
		StructuralExtensions:          true,
		Extensions:                    []string{"definition", "footnote", "tasklist"},
		MathNotation:                  true,
		LineBreaksOnDoubleNewlineOnly: true,
		Frontmatter:                   FrontmatterOptions{Enabled: true},
		WikiLinks:                     WikiLinkOptions{Enabled: true, BasePath: "/docs/"},
		CustomDirectives:              true,
		InlineMarkers:                 true,
		HeadingIDSlugs:                true,
		AutolinkHeadings:              AutolinkOptions{Enabled: true},
		SyntaxHighlighting:            HighlightOptions{Enabled: true, Theme: "github"},
		HTMLSanitization:              true,
		HeadingExtraction:             HeadingExtractionOptions{Enabled: true},
	}
}

// Preset returns the options registered under name.
func Preset(name string) (Options, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PresetMinimal:
		return Minimal(), true
	case "", PresetDefault:
		return Default(), true
	case PresetBlog:
		return BlogOptimized(), true
	case PresetDocs:
		return DocsOptimized(), true
	default:
		return Options{}, false
	}
}
