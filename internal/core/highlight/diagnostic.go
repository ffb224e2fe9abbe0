package highlight

import "fmt"

// Code classifies a [Diagnostic].
type Code string

const (
	CodePositionOutOfRange Code = "position-out-of-range"
	CodeTermNotFound       Code = "term-not-found"
	CodeEmptySelector      Code = "empty-selector"
	CodeAmbiguousSelector  Code = "ambiguous-selector"
	CodeInvalidPosition    Code = "invalid-position"
	CodeInvalidTransition  Code = "invalid-transition"
	CodeUnknownHighlight   Code = "unknown-highlight"
	CodeMarkdownFallback   Code = "markdown-fallback"
)

// Diagnostic is a non-fatal problem found while processing a document.
// Nothing that produces a Diagnostic stops processing.
type Diagnostic struct {
	Index   int    `json:"index"` // definition index, or -1 when not tied to one
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Index < 0 {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("highlights[%d]: %s: %s", d.Index, d.Code, d.Message)
}

// Diagf builds a Diagnostic with a formatted message.
func Diagf(index int, code Code, format string, args ...any) Diagnostic {
	return Diagnostic{Index: index, Code: code, Message: fmt.Sprintf(format, args...)}
}
