package pipeline

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// WordsPerMinute is the reading speed used for estimates.
const WordsPerMinute = 200

type readingTime struct{}

// NewReadingTime counts the words of prose text (code excluded) and stores a
// rounded-up minutes estimate on the document.
func NewReadingTime() interfaces.PreParseTransform {
	return readingTime{}
}

func (readingTime) Name() string { return NameReadingTime }

func (r readingTime) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(util.Prioritized(r, 950)))
}

func (readingTime) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	doc := interfaces.DocumentFromContext(pc)
	if doc == nil {
		return
	}
	source := reader.Source()

	words := 0
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			words += len(bytes.Fields(t.Segment.Value(source)))
		}
		return ast.WalkContinue, nil
	})

	doc.ReadingTime = EstimateReadingTime(words)
}

// EstimateReadingTime converts a word count into minutes, rounding up.
func EstimateReadingTime(words int) interfaces.ReadingTime {
	minutes := 0
	if words > 0 {
		minutes = (words + WordsPerMinute - 1) / WordsPerMinute
	}
	return interfaces.ReadingTime{Words: words, Minutes: minutes}
}
