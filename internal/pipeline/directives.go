package pipeline

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

var (
	directiveOpen  = regexp.MustCompile(`^\s*:::\s*([A-Za-z][\w-]*)\s*(.*?)\s*$`)
	directiveClose = regexp.MustCompile(`^\s*:::\s*$`)
	fenceLine      = regexp.MustCompile("^\\s*(`{3,}|~{3,})")
)

type directivesTransform struct{}

// NewDirectives rewrites container directives
//
//	:::note Optional title
//	body
//	:::
//
// into <aside> blocks whose body is still parsed as markdown. Directives may
// nest; an unclosed directive is closed at the end of the document.
func NewDirectives() interfaces.PreParseTransform {
	return directivesTransform{}
}

func (directivesTransform) Name() string { return NameDirectives }

func (directivesTransform) Extend(goldmark.Markdown) {}

func (directivesTransform) TransformSource(source []byte, _ *interfaces.DocumentData) ([]byte, error) {
	if !bytes.Contains(source, []byte(":::")) {
		return source, nil
	}

	lines := strings.Split(string(source), "\n")
	out := make([]string, 0, len(lines)+8)
	depth := 0
	fence := ""

	for _, line := range lines {
		if fence != "" {
			out = append(out, line)
			if strings.HasPrefix(strings.TrimSpace(line), fence) {
				fence = ""
			}
			continue
		}
		if m := fenceLine.FindStringSubmatch(line); m != nil {
			fence = m[1]
			out = append(out, line)
			continue
		}
		if depth > 0 && directiveClose.MatchString(line) {
			out = append(out, "", "</aside>", "")
			depth--
			continue
		}
		if m := directiveOpen.FindStringSubmatch(line); m != nil {
			out = append(out, "", openAside(m[1], m[2]), "")
			depth++
			continue
		}
		out = append(out, line)
	}
	for ; depth > 0; depth-- {
		out = append(out, "", "</aside>")
	}

	return []byte(strings.Join(out, "\n")), nil
}

func openAside(name, title string) string {
	name = strings.ToLower(name)
	tag := fmt.Sprintf(`<aside class="directive directive-%s" data-directive="%s"`, name, name)
	if title = strings.TrimSpace(title); title != "" {
		tag += fmt.Sprintf(` data-title="%s"`, html.EscapeString(html.UnescapeString(title)))
	}
	return tag + ">"
}
