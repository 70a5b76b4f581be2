// Package hast models the render tree produced after the markdown parse step.
// Post-parse transforms and the component renderer operate on this tree. Tag and
// attribute names keep the case they were authored with so JSX-style component
// tags (Card, Tabs) can be told apart from plain HTML elements.
package hast

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NodeType identifies the kind of a Node.
type NodeType uint8

const (
	RootNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	RawNode
)

// Attribute is a single element attribute. Values are stored unescaped.
type Attribute struct {
	Key string
	Val string
}

// Node is an element, text, comment or raw markup fragment in the render tree.
type Node struct {
	Type        NodeType
	Tag         string
	Attrs       []Attribute
	Children    []*Node
	Data        string
	SelfClosing bool
}

// NewRoot returns an empty root node.
func NewRoot() *Node {
	return &Node{Type: RootNode}
}

// NewElement builds an element node with the supplied attributes and children.
func NewElement(tag string, attrs []Attribute, children ...*Node) *Node {
	return &Node{Type: ElementNode, Tag: tag, Attrs: attrs, Children: children}
}

// NewText builds a text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Data: text}
}

// AppendChild adds child at the end of n's children.
func (n *Node) AppendChild(child *Node) {
	if n == nil || child == nil {
		return
	}
	n.Children = append(n.Children, child)
}

// PrependChild inserts child before n's first child.
func (n *Node) PrependChild(child *Node) {
	if n == nil || child == nil {
		return
	}
	n.Children = append([]*Node{child}, n.Children...)
}

// Attr returns the value of the attribute with the given key. Keys are matched
// case-insensitively.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attrs {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

// SetAttr replaces or appends the attribute.
func (n *Node) SetAttr(key, val string) {
	for i, attr := range n.Attrs {
		if strings.EqualFold(attr.Key, key) {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attribute{Key: key, Val: val})
}

// RemoveAttr drops every attribute matching key and reports whether one existed.
func (n *Node) RemoveAttr(key string) bool {
	kept := n.Attrs[:0]
	removed := false
	for _, attr := range n.Attrs {
		if strings.EqualFold(attr.Key, key) {
			removed = true
			continue
		}
		kept = append(kept, attr)
	}
	n.Attrs = kept
	return removed
}

// HasClass reports whether the class attribute contains name.
func (n *Node) HasClass(name string) bool {
	classes, ok := n.Attr("class")
	if !ok {
		return false
	}
	for _, class := range strings.Fields(classes) {
		if class == name {
			return true
		}
	}
	return false
}

// IsElement reports whether n is an element with the given tag (case-insensitive).
func (n *Node) IsElement(tag string) bool {
	return n != nil && n.Type == ElementNode && strings.EqualFold(n.Tag, tag)
}

// IsComponent reports whether n is an element whose tag starts with an
// uppercase letter, the convention for custom components.
func (n *Node) IsComponent() bool {
	if n == nil || n.Type != ElementNode || n.Tag == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(n.Tag)
	return unicode.IsUpper(r)
}

// HeadingLevel returns 1-6 for h1-h6 elements and 0 otherwise.
func (n *Node) HeadingLevel() int {
	if n == nil || n.Type != ElementNode || len(n.Tag) != 2 {
		return 0
	}
	if n.Tag[0] != 'h' && n.Tag[0] != 'H' {
		return 0
	}
	level := int(n.Tag[1] - '0')
	if level < 1 || level > 6 {
		return 0
	}
	return level
}

// TextContent concatenates the text of every descendant text node.
func (n *Node) TextContent() string {
	var builder strings.Builder
	Walk(n, func(node *Node) WalkStatus {
		if node.Type == TextNode {
			builder.WriteString(node.Data)
		}
		return WalkContinue
	})
	return builder.String()
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Type:        n.Type,
		Tag:         n.Tag,
		Data:        n.Data,
		SelfClosing: n.SelfClosing,
	}
	if len(n.Attrs) > 0 {
		out.Attrs = append([]Attribute(nil), n.Attrs...)
	}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// WalkStatus controls traversal in Walk.
type WalkStatus uint8

const (
	WalkContinue WalkStatus = iota
	WalkSkipChildren
	WalkStop
)

// Walk visits n and its descendants depth-first in document order.
func Walk(n *Node, visit func(*Node) WalkStatus) {
	walk(n, visit)
}

func walk(n *Node, visit func(*Node) WalkStatus) bool {
	if n == nil {
		return true
	}
	switch visit(n) {
	case WalkStop:
		return false
	case WalkSkipChildren:
		return true
	}
	for _, child := range n.Children {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}

// Filter removes every descendant for which drop returns true. Dropped nodes
// take their subtrees with them.
func Filter(n *Node, drop func(*Node) bool) {
	if n == nil || len(n.Children) == 0 {
		return
	}
	kept := n.Children[:0]
	for _, child := range n.Children {
		if drop(child) {
			continue
		}
		Filter(child, drop)
		kept = append(kept, child)
	}
	for i := len(kept); i < len(n.Children); i++ {
		n.Children[i] = nil
	}
	n.Children = kept
}

var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "param": {}, "source": {}, "track": {}, "wbr": {},
}

// IsVoid reports whether tag is an HTML void element.
func IsVoid(tag string) bool {
	_, ok := voidElements[strings.ToLower(tag)]
	return ok
}
