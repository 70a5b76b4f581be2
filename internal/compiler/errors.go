package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEvaluation marks every error returned by the compiler.
var ErrEvaluation = errors.New("mdx compile")

// SyntaxError reports malformed MDX at a 1-based line and column.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
	// Frame is a code excerpt pointing at the error, set in development mode.
	Frame string
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	if e.Frame != "" {
		msg += "\n" + e.Frame
	}
	return msg
}

func (e *SyntaxError) Unwrap() error { return ErrEvaluation }

// TransformError wraps a failure raised by a named transform.
type TransformError struct {
	Transform string
	Err       error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %q: %v", e.Transform, e.Err)
}

func (e *TransformError) Unwrap() []error { return []error{ErrEvaluation, e.Err} }

// codeFrame renders up to two lines of context around line with a caret
// under column.
func codeFrame(source string, line, column int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	first := max(1, line-2)
	last := min(len(lines), line+2)
	width := len(fmt.Sprint(last))

	var b strings.Builder
	for i := first; i <= last; i++ {
		marker := "  "
		if i == line {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%*d | %s\n", marker, width, i, lines[i-1])
		if i == line {
			fmt.Fprintf(&b, "  %s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", max(0, column-1)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
