package pipeline

import (
	"context"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-mdxcraft/pkg/hast"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

const fallbackHeadingID = "section"

func slugify(value string) string {
	normalized, err := slug.Normalize(strings.TrimSpace(value))
	if err != nil || normalized == "" {
		return fallbackHeadingID
	}
	return normalized
}

// Slugger hands out unique slugs, suffixing repeats with -1, -2, ...
type Slugger struct {
	counts map[string]int
	used   map[string]bool
}

// NewSlugger returns an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{counts: map[string]int{}, used: map[string]bool{}}
}

// Slug returns the unique slug for text.
func (s *Slugger) Slug(text string) string {
	base := slugify(text)
	n := s.counts[base]
	candidate := base
	if n > 0 {
		candidate = base + "-" + strconv.Itoa(n)
	}
	for s.used[candidate] {
		n++
		candidate = base + "-" + strconv.Itoa(n)
	}
	s.counts[base] = n + 1
	s.used[candidate] = true
	return candidate
}

type headingExtraction struct {
	collector interfaces.HeadingCollector
}

// NewHeadingExtraction records every heading in document order on the
// DocumentData and forwards it to collector when one is supplied.
func NewHeadingExtraction(collector interfaces.HeadingCollector) interfaces.PreParseTransform {
	return &headingExtraction{collector: collector}
}

func (h *headingExtraction) Name() string { return NameHeadingExtraction }

func (h *headingExtraction) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(util.Prioritized(h, 900)))
}

func (h *headingExtraction) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	doc := interfaces.DocumentFromContext(pc)
	source := reader.Source()
	slugger := NewSlugger()

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		// The preprocessor entity-escapes braces and angle brackets, so the raw
		// segment text is decoded back to what the author wrote.
		label := strings.TrimSpace(html.UnescapeString(string(heading.Text(source))))
		entry := interfaces.Heading{
			ID:    slugger.Slug(label),
			Text:  label,
			Level: heading.Level,
		}
		if doc != nil {
			doc.Headings = append(doc.Headings, entry)
		}
		if h.collector != nil {
			h.collector.CollectHeading(entry)
		}
		return ast.WalkSkipChildren, nil
	})
}

type headingIDs struct{}

// NewHeadingIDs assigns an id to every h1-h6 lacking one. When headings were
// extracted, their ids are reused so the table of contents and the markup
// agree.
func NewHeadingIDs() interfaces.PostParseTransform {
	return headingIDs{}
}

func (headingIDs) Name() string { return NameHeadingIDs }

func (headingIDs) TransformTree(_ context.Context, root *hast.Node, doc *interfaces.DocumentData) error {
	headings := collectHeadings(root)

	var extracted []interfaces.Heading
	if doc != nil && len(doc.Headings) == len(headings) {
		extracted = doc.Headings
	}

	slugger := NewSlugger()
	for i, h := range headings {
		if id, ok := h.Attr("id"); ok && id != "" {
			continue
		}
		if extracted != nil {
			h.SetAttr("id", extracted[i].ID)
			continue
		}
		h.SetAttr("id", slugger.Slug(h.TextContent()))
	}
	return nil
}

type autolinkHeadings struct {
	appendLink bool
}

// NewAutolinkHeadings adds <a class="anchor" href="#id"> to headings that
// carry an id. behavior "append" places the anchor after the heading text.
func NewAutolinkHeadings(behavior string) interfaces.PostParseTransform {
	return autolinkHeadings{appendLink: strings.EqualFold(strings.TrimSpace(behavior), "append")}
}

func (autolinkHeadings) Name() string { return NameAutolinkHeadings }

func (a autolinkHeadings) TransformTree(_ context.Context, root *hast.Node, _ *interfaces.DocumentData) error {
	for _, h := range collectHeadings(root) {
		id, ok := h.Attr("id")
		if !ok || id == "" {
			continue
		}
		anchor := hast.NewElement("a", []hast.Attribute{
			{Key: "class", Val: "anchor"},
			{Key: "href", Val: "#" + id},
			{Key: "aria-hidden", Val: "true"},
		}, hast.NewText("#"))
		if a.appendLink {
			h.AppendChild(anchor)
		} else {
			h.PrependChild(anchor)
		}
	}
	return nil
}

func collectHeadings(root *hast.Node) []*hast.Node {
	var headings []*hast.Node
	hast.Walk(root, func(n *hast.Node) hast.WalkStatus {
		if n.HeadingLevel() > 0 {
			headings = append(headings, n)
			return hast.WalkSkipChildren
		}
		return hast.WalkContinue
	})
	return headings
}
