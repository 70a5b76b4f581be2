package pipeline

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// NewWikiLinks turns [[Target]] and [[Target|Label]] into links with the
// wiki-link class. Targets resolve through opts.Resolver, or to BasePath plus
// the slugged target; a #fragment is kept.
func NewWikiLinks(opts WikiLinkOptions) interfaces.PreParseTransform {
	resolve := opts.Resolver
	if resolve == nil {
		resolve = SlugResolver(opts.BasePath)
	}
	return &extenderTransform{
		name:      NameWikiLinks,
		extenders: []goldmark.Extender{wikiExtension{resolve: resolve}},
	}
}

// SlugResolver resolves wiki targets to basePath + slug(target).
func SlugResolver(basePath string) func(string) string {
	if basePath == "" {
		basePath = "/"
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return func(target string) string {
		page, fragment, _ := strings.Cut(target, "#")
		href := ""
		if page = strings.TrimSpace(page); page != "" {
			href = basePath + slugify(page)
		}
		if fragment = strings.TrimSpace(fragment); fragment != "" {
			href += "#" + slugify(fragment)
		}
		return href
	}
}

type wikiExtension struct {
	resolve func(string) string
}

func (e wikiExtension) Extend(m goldmark.Markdown) {
	// Ahead of the link parser (200), which would claim the '['.
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(wikiParser{resolve: e.resolve}, 199)))
}

type wikiParser struct {
	resolve func(string) string
}

func (wikiParser) Trigger() []byte { return []byte{'['} }

func (p wikiParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, []byte("[[")) {
		return nil
	}
	end := bytes.Index(line[2:], []byte("]]"))
	if end <= 0 {
		return nil
	}
	inner := html.UnescapeString(string(line[2 : 2+end]))
	target, label, hasLabel := strings.Cut(inner, "|")
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}
	if label = strings.TrimSpace(label); !hasLabel || label == "" {
		label = target
	}

	block.Advance(2 + end + 2)

	link := ast.NewLink()
	link.Destination = []byte(p.resolve(target))
	link.SetAttributeString("class", []byte("wiki-link"))
	link.AppendChild(link, ast.NewString([]byte(label)))
	return link
}
