package sheet

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Alignment controls column text alignment in [Table.Markdown].
type Alignment int

const (
	AlignAuto Alignment = iota // right for numeric columns, left otherwise
	AlignLeft
	AlignCenter
	AlignRight
)

// WithAlignment sets the Markdown alignment of column.
// Default: [AlignAuto].
func WithAlignment(column string, a Alignment) RenderOption {
	return func(c *renderConfig) {
		if c.aligns == nil {
			c.aligns = make(map[string]Alignment)
		}
		c.aligns[column] = a
	}
}

// Markdown renders the table as a GitHub-flavored Markdown table, sorted and
// formatted exactly as [Table.Render] would. Columns are padded to a common
// display width (minimum 3, for the alignment markers). Pipes inside cells
// are escaped. The output ends with a newline.
//
// A table without committed rows renders as the [WithDefault] text.
func (t *Table) Markdown(opts ...RenderOption) (string, error) {
	cfg := newRenderConfig(opts)
	g, err := t.grid(&cfg)
	if err != nil {
		return "", err
	}
	if g == nil {
		return cfg.def, nil
	}

	header := escapePipes(g.header)
	rows := make([][]string, len(g.rows))
	for i, row := range g.rows {
		rows[i] = escapePipes(row)
	}

	widths := make([]int, len(header))
	for i, col := range header {
		widths[i] = max(3, runewidth.StringWidth(col))
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	aligns := make([]Alignment, len(header))
	for i, col := range g.header {
		a := cfg.aligns[col]
		if a == AlignAuto {
			a = AlignLeft
			if g.kinds[i].Numeric() {
				a = AlignRight
			}
		}
		aligns[i] = a
	}

	var sb strings.Builder
	writeMarkdownRow(&sb, header, widths, aligns)
	sep := make([]string, len(widths))
	for i, width := range widths {
		switch aligns[i] {
		case AlignRight:
			sep[i] = strings.Repeat("-", width-1) + ":"
		case AlignCenter:
			sep[i] = ":" + strings.Repeat("-", width-2) + ":"
		default:
			sep[i] = strings.Repeat("-", width)
		}
	}
	sb.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range rows {
		writeMarkdownRow(&sb, row, widths, aligns)
	}
	return sb.String(), nil
}

func writeMarkdownRow(sb *strings.Builder, cells []string, widths []int, aligns []Alignment) {
	padded := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = alignCell(cell, width, aligns[i])
	}
	sb.WriteString("| " + strings.Join(padded, " | ") + " |\n")
}

func alignCell(s string, width int, align Alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", pad) + s
	case AlignCenter:
		left := pad / 2
		right := pad - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default:
		return s + strings.Repeat(" ", pad)
	}
}

func escapePipes(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}
