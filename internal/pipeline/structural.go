package pipeline

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// Transform names.
const (
	NameFrontmatter       = "frontmatter"
	NameStructural        = "structural"
	NameHardBreaks        = "hard-breaks"
	NameDirectives        = "directives"
	NameMath              = "math"
	NameInlineMarkers     = "inline-markers"
	NameWikiLinks         = "wiki-links"
	NameEmoji             = "emoji"
	NameReadingTime       = "reading-time"
	NameHeadingExtraction = "heading-extraction"
	NameHeadingIDs        = "heading-ids"
	NameAutolinkHeadings  = "autolink-headings"
	NameHighlight         = "highlight"
	NameSanitize          = "sanitize"
)

// extenderTransform names a set of goldmark extenders.
type extenderTransform struct {
	name      string
	extenders []goldmark.Extender
}

func (t *extenderTransform) Name() string { return t.name }

func (t *extenderTransform) Extend(m goldmark.Markdown) {
	for _, ext := range t.extenders {
		ext.Extend(m)
	}
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// NewStructural returns the GFM extension (tables, strikethrough, autolinks,
// task lists) when gfm is set, plus any named extensions.
func NewStructural(gfm bool, names ...string) interfaces.PreParseTransform {
	var extenders []goldmark.Extender
	if gfm {
		extenders = append(extenders, extension.GFM)
	}
	return &extenderTransform{
		name:      NameStructural,
		extenders: append(extenders, collectExtensions(names)...),
	}
}

func collectExtensions(names []string) []goldmark.Extender {
	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}

// NewHardBreaks renders single newlines inside paragraphs as <br>.
func NewHardBreaks() interfaces.PreParseTransform {
	return &extenderTransform{
		name:      NameHardBreaks,
		extenders: []goldmark.Extender{hardBreaks{}},
	}
}

type hardBreaks struct{}

func (hardBreaks) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(html.WithHardWraps())
}
