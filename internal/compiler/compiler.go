// Package compiler evaluates MDX source into a render tree using goldmark.
// It validates JSX syntax, lowers JSX attributes to HTML, runs the pre-parse
// transforms as goldmark extensions, parses the rendered HTML into a hast tree
// and applies the post-parse transforms.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-mdxcraft/internal/logging"
	"github.com/goliatone/go-mdxcraft/pkg/hast"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// Input is one evaluation request.
type Input struct {
	// Source is the preprocessed document.
	Source string
	// Raw is the document as authored, used for syntax validation. When
	// empty, Source is validated instead.
	Raw         string
	PreParse    []interfaces.PreParseTransform
	PostParse   []interfaces.PostParseTransform
	Development bool
}

// Artifact is the compiled, not yet rendered, document. It is shared through
// the cache and must not be mutated after Evaluate returns.
type Artifact struct {
	Tree        *hast.Node             `json:"tree"`
	Headings    []interfaces.Heading   `json:"headings"`
	Frontmatter map[string]any         `json:"frontmatter,omitempty"`
	ReadingTime interfaces.ReadingTime `json:"reading_time"`
	// Components lists the distinct component tags used, in document order.
	Components []string `json:"components,omitempty"`
}

// Evaluator is the compiler contract consumed by the compilation service.
type Evaluator interface {
	Evaluate(ctx context.Context, in Input) (*Artifact, error)
	EvaluateSync(in Input) (*Artifact, error)
}

// Option configures the Goldmark evaluator.
type Option func(*Goldmark)

// WithLogger sets the logger used for evaluation diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Goldmark) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Goldmark is the default Evaluator. It is stateless; a goldmark engine is
// assembled per evaluation because transforms differ between requests.
type Goldmark struct {
	logger interfaces.Logger
}

var _ Evaluator = (*Goldmark)(nil)

// New returns a goldmark backed evaluator.
func New(opts ...Option) *Goldmark {
	g := &Goldmark{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Evaluate compiles in. ctx is checked between steps and handed to post-parse
// transforms.
func (g *Goldmark) Evaluate(ctx context.Context, in Input) (artifact *Artifact, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if r := recover(); r != nil {
			artifact = nil
			err = fmt.Errorf("%w: panic during evaluation: %v", ErrEvaluation, r)
		}
	}()

	raw := in.Raw
	if raw == "" {
		raw = in.Source
	}
	if err := CheckSyntax(raw, in.Development); err != nil {
		return nil, err
	}

	doc := interfaces.NewDocumentData(in.Development)
	source := []byte(LowerJSX(in.Source))

	for _, t := range in.PreParse {
		st, ok := t.(interfaces.SourceTransform)
		if !ok {
			continue
		}
		if source, err = st.TransformSource(source, doc); err != nil {
			return nil, &TransformError{Transform: t.Name(), Err: err}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extenders := make([]goldmark.Extender, 0, len(in.PreParse))
	for _, t := range in.PreParse {
		extenders = append(extenders, t)
	}
	engine := goldmark.New(
		goldmark.WithExtensions(extenders...),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	pc := parser.NewContext()
	pc.Set(interfaces.DocumentDataKey, doc)

	var buf bytes.Buffer
	if err := engine.Convert(source, &buf, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}

	tree, err := hast.Parse(buf.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}

	for _, t := range in.PostParse {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := t.TransformTree(ctx, tree, doc); err != nil {
			return nil, &TransformError{Transform: t.Name(), Err: err}
		}
	}

	g.logger.Debug("mdx.compiler.evaluated",
		"pre_parse", len(in.PreParse),
		"post_parse", len(in.PostParse),
		"headings", len(doc.Headings),
	)

	return &Artifact{
		Tree:        tree,
		Headings:    doc.Headings,
		Frontmatter: doc.Frontmatter,
		ReadingTime: doc.ReadingTime,
		Components:  componentTags(tree),
	}, nil
}

// EvaluateSync compiles in without a context, skipping post-parse transforms
// that declare asynchronous execution.
func (g *Goldmark) EvaluateSync(in Input) (*Artifact, error) {
	in.PostParse = slices.DeleteFunc(slices.Clone(in.PostParse), func(t interfaces.PostParseTransform) bool {
		return interfaces.IsAsync(t)
	})
	return g.Evaluate(context.Background(), in)
}

func componentTags(tree *hast.Node) []string {
	var tags []string
	hast.Walk(tree, func(n *hast.Node) hast.WalkStatus {
		if n.IsComponent() && !slices.Contains(tags, n.Tag) {
			tags = append(tags, n.Tag)
		}
		return hast.WalkContinue
	})
	return tags
}
