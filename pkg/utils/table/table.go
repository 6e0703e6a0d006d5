package table

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const columnGap = "  "

// Render lays out headers and rows as aligned text lines, measuring cells by
// terminal display width so wide characters line up. The first two lines are
// the header and a dashed separator. Rows shorter than headers are padded.
func Render(headers []string, rows [][]string) []string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	separator := make([]string, len(headers))
	for i, w := range widths {
		separator[i] = strings.Repeat("-", w)
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, renderRow(headers, widths), renderRow(separator, widths))
	for _, row := range rows {
		lines = append(lines, renderRow(row, widths))
	}
	return lines
}

func renderRow(cells []string, widths []int) string {
	var b strings.Builder
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i > 0 {
			b.WriteString(columnGap)
		}
		if i == len(widths)-1 {
			b.WriteString(cell)
			continue
		}
		b.WriteString(runewidth.FillRight(cell, w))
	}
	return b.String()
}
