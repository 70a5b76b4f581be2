package compiler

import (
	"strings"
	"unicode/utf8"
)

// CheckSyntax validates the parts of authored MDX that the markdown engine
// would otherwise accept silently: every { expression must be closed and
// every capitalised component tag must be balanced. Code fences, inline code
// and a leading frontmatter block are ignored. development adds a code frame
// to the returned *SyntaxError.
func CheckSyntax(source string, development bool) error {
	err := scan(maskCode(source))
	if err == nil {
		return nil
	}
	if development {
		err.Frame = codeFrame(source, err.Line, err.Column)
	}
	return err
}

type openTag struct {
	name string
	pos  int
}

func scan(src string) *SyntaxError {
	var braces []int
	var tags []openTag

	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '\\':
			i++
		case '{':
			braces = append(braces, i)
		case '}':
			if len(braces) > 0 {
				braces = braces[:len(braces)-1]
			}
		case '<':
			if i+1 < len(src) && isUpper(src[i+1]) {
				name := readName(src, i+1)
				end, selfClosing, ok := tagEnd(src, i+1+len(name))
				if !ok {
					return syntaxErrorAt(src, i, "unexpected end of file in tag <"+name+">")
				}
				if !selfClosing {
					tags = append(tags, openTag{name: name, pos: i})
				}
				i = end
				continue
			}
			if i+2 < len(src) && src[i+1] == '/' && isUpper(src[i+2]) {
				name := readName(src, i+2)
				if len(tags) == 0 {
					return syntaxErrorAt(src, i, "unexpected closing tag </"+name+">")
				}
				top := tags[len(tags)-1]
				if top.name != name {
					return syntaxErrorAt(src, i, "expected a closing tag for <"+top.name+"> before </"+name+">")
				}
				tags = tags[:len(tags)-1]
				i += 1 + len(name)
			}
		}
	}

	if len(tags) > 0 {
		top := tags[len(tags)-1]
		return syntaxErrorAt(src, top.pos, "expected a closing tag for <"+top.name+">")
	}
	if len(braces) > 0 {
		return syntaxErrorAt(src, braces[0], "unexpected end of file in expression, expected a corresponding closing brace for `{`")
	}
	return nil
}

func readName(src string, start int) string {
	end := start
	for end < len(src) && (isLetter(src[end]) || isDigit(src[end]) || src[end] == '.' || src[end] == '_' || src[end] == '-') {
		end++
	}
	return src[start:end]
}

// tagEnd finds the > closing a start tag, skipping quoted values and
// expression attributes.
func tagEnd(src string, from int) (end int, selfClosing bool, ok bool) {
	depth := 0
	var quote byte
	last := byte(0)
	for i := from; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case depth > 0:
			switch c {
			case '{':
				depth++
			case '}':
				depth--
			case '"', '\'', '`':
				quote = c
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '{':
			depth++
		case c == '>':
			return i, last == '/', true
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			last = c
		}
	}
	return 0, false, false
}

func syntaxErrorAt(src string, offset int, message string) *SyntaxError {
	line := 1 + strings.Count(src[:offset], "\n")
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	return &SyntaxError{
		Line:    line,
		Column:  utf8.RuneCountInString(src[lineStart:offset]) + 1,
		Message: message,
	}
}

// maskCode blanks fenced code, inline code spans and a leading frontmatter
// block while keeping byte offsets and line breaks intact.
func maskCode(source string) string {
	lines := strings.Split(source, "\n")
	masked := make([]string, len(lines))

	start := frontmatterLines(lines)
	for i := 0; i < start; i++ {
		masked[i] = blank(lines[i])
	}

	fenceChar, fenceSize := byte(0), 0
	for i := start; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimLeft(line, " \t")
		if fenceSize > 0 {
			masked[i] = blank(line)
			if trimmed != "" && trimmed[0] == fenceChar && runLength(trimmed, fenceChar) >= fenceSize {
				fenceSize = 0
			}
			continue
		}
		if trimmed != "" && (trimmed[0] == '`' || trimmed[0] == '~') && runLength(trimmed, trimmed[0]) >= 3 {
			fenceChar, fenceSize = trimmed[0], runLength(trimmed, trimmed[0])
			masked[i] = blank(line)
			continue
		}
		masked[i] = maskInlineCode(line)
	}
	return strings.Join(masked, "\n")
}

func maskInlineCode(line string) string {
	if !strings.Contains(line, "`") {
		return line
	}
	b := []byte(line)
	for i := 0; i < len(b); i++ {
		if b[i] != '`' {
			continue
		}
		end := strings.IndexByte(line[i+1:], '`')
		if end < 0 {
			break
		}
		end += i + 1
		for j := i; j <= end; j++ {
			b[j] = ' '
		}
		i = end
	}
	return string(b)
}

func frontmatterLines(lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	delim := strings.TrimRight(lines[0], " \t\r")
	if delim != "---" && delim != "+++" {
		return 0
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t\r") == delim {
			return i + 1
		}
	}
	return 0
}

func blank(line string) string {
	return strings.Repeat(" ", len(line))
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func isUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func isLetter(c byte) bool { return isUpper(c) || (c >= 'a' && c <= 'z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
