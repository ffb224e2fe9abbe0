package styles

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type jsonToken int

const (
	jsonKey jsonToken = iota
	jsonString
	jsonNumber
	jsonBool
	jsonNull
	jsonPunct
)

func jsonStyle(t jsonToken) lipgloss.Style {
	switch t {
	case jsonKey:
		return lipgloss.NewStyle().Foreground(ColorPrimary)
	case jsonString:
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	case jsonNumber:
		return lipgloss.NewStyle().Foreground(ColorWarning)
	case jsonBool:
		return lipgloss.NewStyle().Foreground(ColorSecondary)
	case jsonNull:
		return lipgloss.NewStyle().Foreground(ColorError)
	default:
		return lipgloss.NewStyle().Foreground(ColorMuted)
	}
}

// ColorizeJSON indents data and colors keys, strings, numbers and literals
// with the active palette. Invalid JSON is returned unchanged.
func ColorizeJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}

	raw := buf.String()
	var out strings.Builder
	out.Grow(len(raw) * 2)

	for i := 0; i < len(raw); {
		ch := raw[i]
		switch {
		case ch == '"':
			end := stringEnd(raw, i)
			tok := jsonString
			if rest := strings.TrimLeft(raw[end:], " \t"); strings.HasPrefix(rest, ":") {
				tok = jsonKey
			}
			out.WriteString(jsonStyle(tok).Render(raw[i:end]))
			i = end

		case ch == '-' || (ch >= '0' && ch <= '9'):
			end := i + 1
			for end < len(raw) && strings.IndexByte("0123456789.eE+-", raw[end]) >= 0 {
				end++
			}
			out.WriteString(jsonStyle(jsonNumber).Render(raw[i:end]))
			i = end

		case strings.HasPrefix(raw[i:], "true"), strings.HasPrefix(raw[i:], "false"):
			word := "true"
			if ch == 'f' {
				word = "false"
			}
			out.WriteString(jsonStyle(jsonBool).Render(word))
			i += len(word)

		case strings.HasPrefix(raw[i:], "null"):
			out.WriteString(jsonStyle(jsonNull).Render("null"))
			i += 4

		case strings.IndexByte("{}[]:,", ch) >= 0:
			out.WriteString(jsonStyle(jsonPunct).Render(string(ch)))
			i++

		default:
			out.WriteByte(ch)
			i++
		}
	}

	return out.String()
}

// stringEnd returns the index just past the closing quote of the JSON string
// starting at pos.
func stringEnd(s string, pos int) int {
	for i := pos + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(s)
}
