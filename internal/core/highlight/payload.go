package highlight

import (
	"fmt"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/mdlabel/internal/core/validate"
)

// Payload is the document value exchanged with the host.
// It mirrors the host's loose shape where a highlight may carry a term,
// a position, both, or neither.
type Payload struct {
	MarkdownContent string             `json:"markdown_content" yaml:"markdown_content"`
	Highlights      []HighlightPayload `json:"highlights" yaml:"highlights"`
}

// HighlightPayload is a single highlight as supplied by the host.
type HighlightPayload struct {
	Term     string `json:"term" yaml:"term,omitempty"`
	Position []int  `json:"position" yaml:"position,omitempty,flow"` // [start, end]
	Title    string `json:"title" yaml:"title"`
	Content  string `json:"content" yaml:"content"`
	Category string `json:"category" yaml:"category"`
	Color    string `json:"color" yaml:"color"`
}

// FromPayload converts a host payload into a [Document].
//
// Selectors are decided here, once: a position wins over a term when both are
// present, and a definition with neither keeps its slot with a nil selector so
// indices stay aligned with the host's list. Every such decision is reported.
func FromPayload(p Payload) (Document, []Diagnostic) {
	doc := Document{
		Content:    p.MarkdownContent,
		Highlights: make([]Definition, 0, len(p.Highlights)),
	}

	var diags []Diagnostic
	for i, h := range p.Highlights {
		def := Definition{
			Title:    h.Title,
			Content:  h.Content,
			Category: h.Category,
			Color:    h.Color,
		}

		hasPosition := len(h.Position) > 0
		switch {
		case hasPosition && len(h.Position) != 2:
			diags = append(diags, Diagf(i, CodeInvalidPosition,
				"position must be [start, end], got %d values", len(h.Position)))
			if h.Term != "" {
				def.Selector = Term{Text: h.Term}
			} else {
				diags = append(diags, Diagf(i, CodeEmptySelector, "no usable term or position"))
			}
		case hasPosition && h.Term != "":
			diags = append(diags, Diagf(i, CodeAmbiguousSelector,
				"both term %q and position given; using position", h.Term))
			def.Selector = Position{Start: h.Position[0], End: h.Position[1]}
			def.ShadowedTerm = h.Term
		case hasPosition:
			def.Selector = Position{Start: h.Position[0], End: h.Position[1]}
		case h.Term != "":
			def.Selector = Term{Text: h.Term}
		default:
			diags = append(diags, Diagf(i, CodeEmptySelector, "neither term nor position given"))
		}

		doc.Highlights = append(doc.Highlights, def)
	}

	return doc, diags
}

// ToPayload converts a [Document] into the normalized host value.
// Every field is present: absent strings are empty and absent lists are
// empty, never nil. A term shadowed by a position is written back next to
// it, so a document read and written again keeps what the host supplied.
func ToPayload(doc Document) Payload {
	p := Payload{
		MarkdownContent: doc.Content,
		Highlights:      make([]HighlightPayload, 0, len(doc.Highlights)),
	}

	for _, def := range doc.Highlights {
		h := HighlightPayload{
			Position: []int{},
			Title:    def.Title,
			Content:  def.Content,
			Category: def.Category,
			Color:    def.Color,
		}
		switch sel := def.Selector.(type) {
		case Term:
			h.Term = sel.Text
		case Position:
			h.Position = []int{sel.Start, sel.End}
			h.Term = def.ShadowedTerm
		}
		p.Highlights = append(p.Highlights, h)
	}

	return p
}

// Validate reports structural problems with the payload as
// [criterio.FieldErrors]. It is stricter than [FromPayload], which accepts
// anything and reports diagnostics instead.
func (p Payload) Validate() error {
	var (
		errs   criterio.FieldErrorsBuilder
		length = NewOffsets(p.MarkdownContent).Len()
	)

	for i, h := range p.Highlights {
		field := fmt.Sprintf("highlights[%d]", i)

		if err := validate.Color(h.Color); err != nil {
			errs = errs.Append(field+".color", err)
		}

		switch {
		case h.Term == "" && len(h.Position) == 0:
			errs = errs.Append(field, fmt.Errorf("one of term or position is required"))
			continue
		case h.Term != "" && len(h.Position) > 0:
			errs = errs.Append(field, fmt.Errorf("term and position are mutually exclusive"))
			continue
		}

		if len(h.Position) == 0 {
			continue
		}

		if len(h.Position) != 2 {
			errs = errs.Append(field+".position", fmt.Errorf("must have exactly 2 elements, got %d", len(h.Position)))
			continue
		}

		start, end := h.Position[0], h.Position[1]
		switch {
		case start < 0 || start >= end:
			errs = errs.Append(field+".position", fmt.Errorf("invalid range [%d, %d)", start, end))
		case end > length:
			errs = errs.Append(field+".position", fmt.Errorf("end %d exceeds content length %d", end, length))
		}
	}

	return errs.ToError()
}
