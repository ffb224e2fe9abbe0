package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlay draws fg over bg with the top-left corner of fg at column x and
// row y. Rows missing from bg are added; short rows are padded with spaces.
func overlay(bg, fg string, x, y int) string {
	x, y = max(x, 0), max(y, 0)
	rows := strings.Split(bg, "\n")

	for i, line := range strings.Split(fg, "\n") {
		row := y + i
		for row >= len(rows) {
			rows = append(rows, "")
		}

		base := rows[row]
		if w := ansi.StringWidth(base); w < x {
			base += strings.Repeat(" ", x-w)
		}

		left := ansi.Truncate(base, x, "")
		right := ansi.TruncateLeft(base, x+ansi.StringWidth(line), "")
		rows[row] = left + line + right
	}

	return strings.Join(rows, "\n")
}
