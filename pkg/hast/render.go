package hast

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/net/html"
)

var rawTextElements = map[string]struct{}{
	"script": {},
	"style":  {},
}

// ElementHook may take over rendering of an element. Returning handled false
// falls back to the default serialisation of n and its subtree.
type ElementHook func(w io.Writer, n *Node) (handled bool, err error)

// Render serialises n as HTML.
func Render(w io.Writer, n *Node) error {
	return RenderWithHook(w, n, nil)
}

// RenderWithHook serialises n as HTML, offering every element to hook first.
func RenderWithHook(w io.Writer, n *Node, hook ElementHook) error {
	bw := bufio.NewWriter(w)
	r := renderer{hook: hook}
	if err := r.render(bw, n, false); err != nil {
		return err
	}
	return bw.Flush()
}

type renderer struct {
	hook ElementHook
}

// String serialises n as HTML, ignoring write errors on the in-memory buffer.
func String(n *Node) string {
	var builder strings.Builder
	_ = Render(&builder, n)
	return builder.String()
}

func (r renderer) render(w *bufio.Writer, n *Node, rawText bool) error {
	if n == nil {
		return nil
	}
	switch n.Type {
	case RootNode:
		return r.renderChildren(w, n, false)
	case TextNode:
		if rawText {
			_, err := w.WriteString(n.Data)
			return err
		}
		_, err := w.WriteString(html.EscapeString(n.Data))
		return err
	case CommentNode:
		_, err := w.WriteString("<!--" + n.Data + "-->")
		return err
	case RawNode:
		_, err := w.WriteString(n.Data)
		return err
	}

	if r.hook != nil {
		handled, err := r.hook(w, n)
		if err != nil || handled {
			return err
		}
	}

	if err := WriteStartTag(w, n); err != nil {
		return err
	}
	if IsVoid(n.Tag) || (n.SelfClosing && len(n.Children) == 0) {
		return nil
	}
	_, raw := rawTextElements[strings.ToLower(n.Tag)]
	if err := r.renderChildren(w, n, raw); err != nil {
		return err
	}
	_, err := w.WriteString("</" + n.Tag + ">")
	return err
}

func (r renderer) renderChildren(w *bufio.Writer, n *Node, rawText bool) error {
	for _, child := range n.Children {
		if err := r.render(w, child, rawText); err != nil {
			return err
		}
	}
	return nil
}

// WriteStartTag writes the opening tag of an element including its attributes.
// Self-closing components without children are written as <Tag />.
func WriteStartTag(w io.StringWriter, n *Node) error {
	var builder strings.Builder
	builder.WriteByte('<')
	builder.WriteString(n.Tag)
	for _, attr := range n.Attrs {
		builder.WriteByte(' ')
		builder.WriteString(attr.Key)
		if attr.Val == "" {
			continue
		}
		builder.WriteString(`="`)
		builder.WriteString(html.EscapeString(attr.Val))
		builder.WriteByte('"')
	}
	if n.SelfClosing && len(n.Children) == 0 && !IsVoid(n.Tag) {
		builder.WriteString(" />")
	} else {
		builder.WriteByte('>')
	}
	_, err := w.WriteString(builder.String())
	return err
}
