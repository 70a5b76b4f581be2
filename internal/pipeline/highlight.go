package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-mdxcraft/pkg/hast"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// Highlighter turns source code into highlighted HTML. Implementations may
// call out to external services.
type Highlighter interface {
	Highlight(ctx context.Context, code, language, theme string) (string, error)
}

// HighlighterFunc adapts a function into a Highlighter.
type HighlighterFunc func(ctx context.Context, code, language, theme string) (string, error)

// Highlight satisfies Highlighter.
func (fn HighlighterFunc) Highlight(ctx context.Context, code, language, theme string) (string, error) {
	return fn(ctx, code, language, theme)
}

// ChromaHighlighter renders code with chroma using inline styles. Results are
// memoised per (theme, language, code).
type ChromaHighlighter struct {
	cache *sturdyc.Client[string]
}

// ChromaOptions sizes the memo cache.
type ChromaOptions struct {
	Capacity int
	TTL      time.Duration
}

// NewChromaHighlighter builds a chroma backed highlighter.
func NewChromaHighlighter(opts ChromaOptions) *ChromaHighlighter {
	if opts.Capacity <= 0 {
		opts.Capacity = 2048
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	return &ChromaHighlighter{
		cache: sturdyc.New[string](opts.Capacity, 8, opts.TTL, 10),
	}
}

var (
	defaultHighlighterOnce sync.Once
	defaultHighlighter     *ChromaHighlighter
)

// DefaultHighlighter returns the process wide chroma highlighter.
func DefaultHighlighter() *ChromaHighlighter {
	defaultHighlighterOnce.Do(func() {
		defaultHighlighter = NewChromaHighlighter(ChromaOptions{})
	})
	return defaultHighlighter
}

// Highlight satisfies Highlighter.
func (h *ChromaHighlighter) Highlight(ctx context.Context, code, language, theme string) (string, error) {
	sum := sha256.Sum256([]byte(code))
	key := theme + ":" + language + ":" + hex.EncodeToString(sum[:])
	return h.cache.GetOrFetch(ctx, key, func(context.Context) (string, error) {
		return chromaHighlight(code, language, theme)
	})
}

func chromaHighlight(code, language, theme string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("highlight %s: %w", language, err)
	}
	var buf bytes.Buffer
	if err := chromahtml.New().Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("highlight %s: %w", language, err)
	}
	return buf.String(), nil
}

type highlightTransform struct {
	highlighter Highlighter
	theme       string
}

// NewHighlight replaces <pre><code class="language-x"> blocks with the output
// of highlighter (chroma when nil). Blocks without a language are left alone.
func NewHighlight(highlighter Highlighter, theme string) interfaces.PostParseTransform {
	if highlighter == nil {
		highlighter = DefaultHighlighter()
	}
	if theme == "" {
		theme = "github"
	}
	return &highlightTransform{highlighter: highlighter, theme: theme}
}

func (t *highlightTransform) Name() string { return NameHighlight }

// Async reports true: highlighting may block on the highlighter.
func (t *highlightTransform) Async() bool { return true }

func (t *highlightTransform) TransformTree(ctx context.Context, root *hast.Node, _ *interfaces.DocumentData) error {
	var err error
	hast.Walk(root, func(n *hast.Node) hast.WalkStatus {
		if err != nil {
			return hast.WalkStop
		}
		for i, child := range n.Children {
			language, code, ok := codeBlock(child)
			if !ok {
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
				return hast.WalkStop
			}
			highlighted, hErr := t.highlighter.Highlight(ctx, code, language, t.theme)
			if hErr != nil {
				err = hErr
				return hast.WalkStop
			}
			n.Children[i] = &hast.Node{Type: hast.RawNode, Data: highlighted}
		}
		return hast.WalkContinue
	})
	return err
}

// codeBlock matches <pre><code class="language-x">...</code></pre>.
func codeBlock(n *hast.Node) (language, code string, ok bool) {
	if !n.IsElement("pre") || len(n.Children) != 1 || !n.Children[0].IsElement("code") {
		return "", "", false
	}
	class, _ := n.Children[0].Attr("class")
	for _, c := range strings.Fields(class) {
		if lang, found := strings.CutPrefix(c, "language-"); found && lang != "" {
			return lang, n.Children[0].TextContent(), true
		}
	}
	return "", "", false
}
