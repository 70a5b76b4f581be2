package pipeline

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// KindMath is the node kind of inline and display math.
var KindMath = ast.NewNodeKind("Math")

// MathNode holds TeX source between $ (inline) or $$ (display) delimiters.
type MathNode struct {
	ast.BaseInline
	Display bool
	Value   []byte
}

func (n *MathNode) Kind() ast.NodeKind { return KindMath }

func (n *MathNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// NewMath recognises $...$ and $$...$$ spans and renders them as
// <span class="math math-inline|math-display"> holding the escaped TeX for a
// client side typesetter.
func NewMath() interfaces.PreParseTransform {
	return &extenderTransform{name: NameMath, extenders: []goldmark.Extender{mathExtension{}}}
}

type mathExtension struct{}

func (mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(mathParser{}, 150)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(mathRenderer{}, 150)))
}

type mathParser struct{}

func (mathParser) Trigger() []byte { return []byte{'$'} }

func (mathParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	delim := 1
	if len(line) > 1 && line[1] == '$' {
		delim = 2
	}
	body := line[delim:]
	if len(body) == 0 || body[0] == ' ' || body[0] == '\t' {
		return nil
	}

	closing := bytes.Index(body, line[:delim])
	if closing <= 0 {
		return nil
	}
	value := body[:closing]
	if last := value[len(value)-1]; last == ' ' || last == '\t' {
		return nil
	}
	// $5 and $10: a closing $ followed by a digit is a price, not math.
	if after := closing + delim; delim == 1 && after < len(body) && body[after] >= '0' && body[after] <= '9' {
		return nil
	}

	block.Advance(delim + closing + delim)
	return &MathNode{Display: delim == 2, Value: append([]byte(nil), value...)}
}

type mathRenderer struct{}

func (mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMath, renderMath)
}

func renderMath(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*MathNode)
	class := "math math-inline"
	if n.Display {
		class = "math math-display"
	}
	_, _ = w.WriteString(`<span class="` + class + `">`)
	// Braces in prose arrive entity-escaped from the preprocessor.
	_, _ = w.WriteString(html.EscapeString(html.UnescapeString(string(n.Value))))
	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}
