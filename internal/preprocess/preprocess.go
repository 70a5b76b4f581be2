// Package preprocess escapes characters in MDX prose that would otherwise be
// read as JSX expressions or markup, leaving code untouched.
package preprocess

import (
	"strings"
)

const (
	entityLT     = "&lt;"
	entityGT     = "&gt;"
	entityLBrace = "&#123;"
	entityRBrace = "&#125;"
)

// Preprocess escapes literal <, >, { and } in plain-text regions of source.
// Fenced code blocks, inline code spans, a leading frontmatter block and
// chunks that look like markup pass through verbatim. It never fails.
func Preprocess(source string) string {
	if !strings.ContainsAny(source, "<>{}") {
		return source
	}

	lines := strings.Split(source, "\n")
	out := make([]string, len(lines))

	start := frontmatterEnd(lines)
	copy(out, lines[:start])

	var open *fence
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if open != nil {
			out[i] = line
			if open.closedBy(line) {
				open = nil
			}
			continue
		}
		if f, ok := openingFence(line); ok {
			open = &f
			out[i] = line
			continue
		}
		out[i] = escapeLine(line)
	}

	return strings.Join(out, "\n")
}

type fence struct {
	char byte
	size int
}

// openingFence matches a run of 3+ backticks or tildes at the start of a
// line, after optional indentation.
func openingFence(line string) (fence, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return fence{}, false
	}
	char := trimmed[0]
	size := runLength(trimmed, char)
	if size < 3 {
		return fence{}, false
	}
	return fence{char: char, size: size}, true
}

func (f fence) closedBy(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return trimmed != "" && trimmed[0] == f.char && runLength(trimmed, f.char) >= f.size
}

func runLength(s string, char byte) int {
	n := 0
	for n < len(s) && s[n] == char {
		n++
	}
	return n
}

// frontmatterEnd returns the number of leading lines forming a frontmatter
// block, or zero when the document does not open with one.
func frontmatterEnd(lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	delim := strings.TrimRight(lines[0], " \t\r")
	if delim != "---" && delim != "+++" {
		return 0
	}
	for i := 1; i < len(lines); i++ {
		closing := strings.TrimRight(lines[i], " \t\r")
		if closing == delim || (delim == "---" && closing == "...") {
			return i + 1
		}
	}
	return 0
}

// escapeLine splits a line into inline code spans and plain chunks. An
// unterminated backtick turns the remainder into plain text.
func escapeLine(line string) string {
	if !strings.ContainsAny(line, "<>{}") {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + 16)

	prefix, rest := blockquotePrefix(line)
	b.WriteString(prefix)

	for rest != "" {
		open := strings.IndexByte(rest, '`')
		if open < 0 {
			b.WriteString(escapeChunk(rest))
			break
		}
		closing := strings.IndexByte(rest[open+1:], '`')
		if closing < 0 {
			b.WriteString(escapeChunk(rest))
			break
		}
		closing += open + 1
		b.WriteString(escapeChunk(rest[:open]))
		b.WriteString(rest[open : closing+1])
		rest = rest[closing+1:]
	}

	return b.String()
}

// blockquotePrefix splits leading blockquote markers ("> ", "> > ") from the
// rest of the line so they keep their markdown meaning.
func blockquotePrefix(line string) (string, string) {
	i := 0
	for {
		j := i
		for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
			j++
		}
		if j >= len(line) || line[j] != '>' {
			return line[:i], line[i:]
		}
		i = j + 1
	}
}

func escapeChunk(chunk string) string {
	if chunk == "" || looksLikeMarkup(chunk) {
		return chunk
	}

	var b strings.Builder
	b.Grow(len(chunk) + 8)
	for i := 0; i < len(chunk); i++ {
		c := chunk[i]
		switch c {
		case '{':
			b.WriteString(entityLBrace)
		case '}':
			b.WriteString(entityRBrace)
		case '<':
			if i+1 < len(chunk) && (isLetter(chunk[i+1]) || chunk[i+1] == '/') {
				b.WriteByte(c)
			} else {
				b.WriteString(entityLT)
			}
		case '>':
			if i > 0 && closesTag(chunk[i-1]) {
				b.WriteByte(c)
			} else {
				b.WriteString(entityGT)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// looksLikeMarkup reports whether a chunk opens a tag, or is the tail of a tag
// spread over several lines (no "<" of its own, ending in ">" or "/>").
func looksLikeMarkup(chunk string) bool {
	trimmed := strings.TrimSpace(chunk)
	if len(trimmed) >= 2 && trimmed[0] == '<' && isLetter(trimmed[1]) {
		return true
	}
	return !strings.Contains(trimmed, "<") && strings.HasSuffix(trimmed, ">")
}

func closesTag(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '"' || c == '\'' || c == '/'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
