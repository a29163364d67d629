package model

import "strings"

// Table represents a grid table. Rows[0] is the header row; every row has
// the same number of cells.
type Table struct {
	Style string
	Rows  []Row
}

// Row is one table row.
type Row struct {
	Cells []Cell
}

// Cell holds the runs of a single-paragraph table cell.
type Cell struct {
	Runs []Run
}

// GetText returns the cell text.
func (c Cell) GetText() string { return runsText(c.Runs) }

func (t *Table) Kind() BlockKind { return KindTable }
func (t *Table) block()          {}

func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row.Cells {
			sb.WriteString(cell.GetText())
			if j < len(row.Cells)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RowCount returns the number of rows, header included
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns in the header row
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0].Cells)
}

// GetCell returns the cell at the given row and column (0-indexed)
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row].Cells) {
		return nil
	}
	return &t.Rows[row].Cells[col]
}

// Header returns the header cell texts.
func (t *Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	out := make([]string, len(t.Rows[0].Cells))
	for i, c := range t.Rows[0].Cells {
		out[i] = c.GetText()
	}
	return out
}

// ToMarkdown converts the table to markdown format
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(cells []Cell) {
		for _, cell := range cells {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell.GetText(), "\n", " "))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(t.Rows[0].Cells)
	for range t.Rows[0].Cells {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for i := 1; i < len(t.Rows); i++ {
		writeRow(t.Rows[i].Cells)
	}

	return sb.String()
}
