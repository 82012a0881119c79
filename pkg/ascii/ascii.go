// Package ascii renders boxes and aligned tables for terminal output
package ascii

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Box builds a box containing the provided lines and returns it as a string.
// Lines are left-aligned with single-space padding on each side. Multi-width
// runes (emoji, CJK, etc.) are accounted for so the borders stay aligned.
func Box(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	trimmed := make([]string, len(lines))
	maxWidth := 0
	for i, line := range lines {
		trimmed[i] = strings.TrimRight(line, " ")
		if w := StringWidth(trimmed[i]); w > maxWidth {
			maxWidth = w
		}
	}

	innerWidth := maxWidth + 2
	border := strings.Repeat("─", innerWidth)

	var sb strings.Builder
	sb.WriteString("┌" + border + "┐\n")
	for _, line := range trimmed {
		sb.WriteString("│ " + pad(line, maxWidth) + " │\n")
	}
	sb.WriteString("└" + border + "┘\n")
	return sb.String()
}

// Table lays out rows under header with columns separated by two spaces and
// a dashed rule below the header. Cells wider than maxCell display columns are
// truncated; maxCell <= 0 disables truncation. Missing cells render empty.
func Table(header []string, rows [][]string, maxCell int) string {
	if len(header) == 0 {
		return ""
	}

	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, header)
	for _, row := range rows {
		line := make([]string, len(header))
		for i := range line {
			if i < len(row) {
				line[i] = row[i]
			}
			if maxCell > 0 {
				line[i] = TruncateForBox(line[i], maxCell)
			}
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(header))
	for _, line := range cells {
		for i, c := range line {
			if w := StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	rule := make([]string, len(header))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}

	var sb strings.Builder
	writeRow := func(line []string) {
		for i, c := range line {
			if i > 0 {
				sb.WriteString("  ")
			}
			if i == len(line)-1 {
				sb.WriteString(c)
			} else {
				sb.WriteString(pad(c, widths[i]))
			}
		}
		sb.WriteString("\n")
	}
	writeRow(cells[0])
	writeRow(rule)
	for _, line := range cells[1:] {
		writeRow(line)
	}
	return sb.String()
}

func pad(s string, width int) string {
	fill := width - StringWidth(s)
	if fill <= 0 {
		return s
	}
	return s + strings.Repeat(" ", fill)
}

// TruncateForBox truncates a string so that its display width fits within the
// provided width. An ellipsis ("...") is appended when truncation occurs and
// there is space for it.
func TruncateForBox(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return substringWithWidth(value, width)
	}
	return substringWithWidth(value, width-3) + "..."
}

func substringWithWidth(s string, target int) string {
	if target <= 0 {
		return ""
	}
	width := 0
	var sb strings.Builder
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if width+w > target {
			break
		}
		width += w
		sb.WriteRune(r)
	}
	return sb.String()
}

// StringWidth returns the display width of a string, accounting for multi-width
// Unicode characters (emoji, CJK, etc.).
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}
