package compiler

import (
	"html"
	"strings"
)

// LowerJSX rewrites JSX specifics the markdown engine cannot read into plain
// HTML: expression attributes (count={3}) become quoted attributes holding
// the expression, and component tags standing alone on a line are separated
// by blank lines so their children are parsed as markdown. Code is left
// untouched.
func LowerJSX(source string) string {
	if !strings.Contains(source, "<") {
		return source
	}
	source = lowerAttributes(source)
	return isolateBlockTags(source)
}

func lowerAttributes(source string) string {
	mask := maskCode(source)

	var b strings.Builder
	b.Grow(len(source) + 32)
	last := 0
	for i := 0; i < len(mask); i++ {
		if mask[i] != '<' || i+1 >= len(mask) || !isLetter(mask[i+1]) {
			continue
		}
		span := unescapeBraces(source[i:])
		end, _, ok := tagEnd(span.text, 1)
		if !ok {
			continue
		}
		tag := span.text[:end+1]
		if !strings.Contains(tag, "={") {
			continue
		}
		b.WriteString(source[last:i])
		b.WriteString(quoteExpressions(tag))
		consumed := span.originalLength(end + 1)
		last = i + consumed
		i = last - 1
	}
	if last == 0 {
		return source
	}
	b.WriteString(source[last:])
	return b.String()
}

// quoteExpressions turns name={expr} into name="{expr}".
func quoteExpressions(tag string) string {
	var b strings.Builder
	b.Grow(len(tag) + 8)
	for i := 0; i < len(tag); i++ {
		if tag[i] != '=' || i+1 >= len(tag) || tag[i+1] != '{' {
			b.WriteByte(tag[i])
			continue
		}
		depth := 0
		j := i + 1
		for ; j < len(tag); j++ {
			if tag[j] == '{' {
				depth++
			} else if tag[j] == '}' {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		if j >= len(tag) {
			b.WriteString(tag[i:])
			break
		}
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(tag[i+1 : j+1]))
		b.WriteByte('"')
		i = j
	}
	return b.String()
}

const (
	lbraceEntity = "&#123;"
	rbraceEntity = "&#125;"
)

// bracedSpan is a source suffix with brace entities decoded, remembering
// where each decoded entity was so lengths map back to the original.
type bracedSpan struct {
	text     string
	entities []int
}

func unescapeBraces(s string) bracedSpan {
	if !strings.Contains(s, lbraceEntity) && !strings.Contains(s, rbraceEntity) {
		return bracedSpan{text: s}
	}
	var b strings.Builder
	var entities []int
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], lbraceEntity):
			entities = append(entities, b.Len())
			b.WriteByte('{')
			i += len(lbraceEntity)
		case strings.HasPrefix(s[i:], rbraceEntity):
			entities = append(entities, b.Len())
			b.WriteByte('}')
			i += len(rbraceEntity)
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return bracedSpan{text: b.String(), entities: entities}
}

// originalLength maps n decoded bytes back to a length in the source.
func (s bracedSpan) originalLength(n int) int {
	extra := 0
	for _, at := range s.entities {
		if at >= n {
			break
		}
		extra += len(lbraceEntity) - 1
	}
	return n + extra
}

// isolateBlockTags surrounds lines holding only a component open or close tag
// with blank lines.
func isolateBlockTags(source string) string {
	lines := strings.Split(source, "\n")
	mask := strings.Split(maskCode(source), "\n")

	out := make([]string, 0, len(lines)+8)
	for i, line := range lines {
		if !standaloneComponentTag(mask[i]) {
			out = append(out, line)
			continue
		}
		if n := len(out); n > 0 && strings.TrimSpace(out[n-1]) != "" {
			out = append(out, "")
		}
		out = append(out, strings.TrimSpace(line))
		if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}

func standaloneComponentTag(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 3 || trimmed[0] != '<' || trimmed[len(trimmed)-1] != '>' {
		return false
	}
	name := trimmed[1:]
	if name[0] == '/' {
		name = name[1:]
	}
	if name == "" || !isUpper(name[0]) {
		return false
	}
	end, selfClosing, ok := tagEnd(trimmed, 1)
	return ok && end == len(trimmed)-1 && !selfClosing
}
