package hast

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var attrPattern = regexp.MustCompile(`([^\s"'>/=]+)(?:\s*=\s*("[^"]*"|'[^']*'|\{[^}]*\}|[^\s"'=<>` + "`" + `]+))?`)

// Parse tokenizes an HTML fragment into a tree rooted at a RootNode. Unlike
// html.Parse it does not apply the HTML5 tree construction algorithm: unknown
// elements keep their authored case, self-closing component tags close
// immediately and stray end tags are dropped.
func Parse(fragment string) (*Node, error) {
	root := NewRoot()
	stack := []*Node{root}
	current := func() *Node { return stack[len(stack)-1] }

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("hast parse: %w", err)
			}
			return root, nil

		case html.TextToken:
			appendText(current(), string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, attrs := parseTag(string(z.Raw()))
			if name == "" {
				continue
			}
			el := NewElement(name, attrs)
			current().AppendChild(el)
			if tt == html.SelfClosingTagToken {
				el.SelfClosing = true
				continue
			}
			if IsVoid(name) {
				continue
			}
			stack = append(stack, el)

		case html.EndTagToken:
			name, _ := parseTag(string(z.Raw()))
			for i := len(stack) - 1; i > 0; i-- {
				if strings.EqualFold(stack[i].Tag, name) {
					stack = stack[:i]
					break
				}
			}

		case html.CommentToken:
			current().AppendChild(&Node{Type: CommentNode, Data: string(z.Text())})

		case html.DoctypeToken:
			current().AppendChild(&Node{Type: RawNode, Data: string(z.Raw())})
		}
	}
}

// MustParse is Parse for trusted fragments; it panics on tokenizer errors.
func MustParse(fragment string) *Node {
	node, err := Parse(fragment)
	if err != nil {
		panic(err)
	}
	return node
}

func appendText(parent *Node, text string) {
	if text == "" {
		return
	}
	if n := len(parent.Children); n > 0 && parent.Children[n-1].Type == TextNode {
		parent.Children[n-1].Data += text
		return
	}
	parent.AppendChild(NewText(text))
}

// parseTag recovers the authored tag name and attributes from a raw start or
// end tag. The tokenizer lowercases both, which would erase the difference
// between <Card> and <card>.
func parseTag(raw string) (string, []Attribute) {
	body := strings.TrimPrefix(raw, "<")
	body = strings.TrimPrefix(body, "/")
	body = strings.TrimSuffix(body, ">")
	body = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(body), "/"))

	end := strings.IndexFunc(body, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '/'
	})
	if end < 0 {
		return body, nil
	}
	name := body[:end]
	rest := body[end:]

	matches := attrPattern.FindAllStringSubmatch(rest, -1)
	if len(matches) == 0 {
		return name, nil
	}
	attrs := make([]Attribute, 0, len(matches))
	for _, match := range matches {
		attrs = append(attrs, Attribute{Key: match[1], Val: unquote(match[2])})
	}
	return name, attrs
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	return html.UnescapeString(value)
}
