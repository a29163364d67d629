package docx

import (
	"strings"

	"github.com/tsawler/sysdoc/model"
)

// Page geometry in twips: A4 with one-inch margins.
const (
	pageWidth   = 11906
	pageHeight  = 16838
	pageMargin  = 1440
	textWidth   = pageWidth - 2*pageMargin
	minColWidth = 360
)

// columnWidths splits the text width evenly across n columns. Any
// remainder goes to the last column so the grid always spans the page.
func columnWidths(n int) []int {
	if n <= 0 {
		return nil
	}
	w := textWidth / n
	if w < minColWidth {
		w = minColWidth
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = w
	}
	if rem := textWidth - w*n; rem > 0 {
		widths[n-1] += rem
	}
	return widths
}

// encodeTable converts a table block to w:tbl. Row 0 is marked as a repeating
// header row; cell formatting comes only from the runs.
func (e *bodyEncoder) encodeTable(t *model.Table) *wTable {
	widths := columnWidths(t.ColCount())

	tbl := &wTable{
		Props: wTableProps{
			Width: wWidth{W: 0, Type: "auto"},
			Look: &wTableLook{
				Val: "04A0", FirstRow: "1", LastRow: "0",
				FirstColumn: "1", LastColumn: "0", NoHBand: "0", NoVBand: "1",
			},
		},
	}
	if t.Style != "" {
		tbl.Props.Style = &wVal{Val: e.styles.ID(t.Style)}
	}
	for _, w := range widths {
		tbl.Grid.Cols = append(tbl.Grid.Cols, wGridCol{W: w})
	}

	for i, row := range t.Rows {
		tr := wTableRow{}
		if i == 0 {
			tr.Props = &wRowProps{Header: &wOnOff{}}
		}
		for j, cell := range row.Cells {
			tr.Cells = append(tr.Cells, wTableCell{
				Props:      wCellProps{Width: wWidth{W: widths[j], Type: "dxa"}},
				Paragraphs: []wParagraph{{Runs: encodeRuns(cell.Runs)}},
			})
		}
		tbl.Rows = append(tbl.Rows, tr)
	}
	return tbl
}

// ParsedTable is a table read back from a package.
type ParsedTable struct {
	StyleID    string
	ColWidths  []float64 // points
	HeaderRows int
	Rows       [][]ParsedCell
}

// ParsedCell is a table cell read back from a package.
type ParsedCell struct {
	Text string
	Runs []RunInfo
}

// Texts returns the cell texts row by row.
func (pt *ParsedTable) Texts() [][]string {
	out := make([][]string, len(pt.Rows))
	for i, row := range pt.Rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = cell.Text
		}
	}
	return out
}

// ToMarkdown converts the table to markdown format
func (pt *ParsedTable) ToMarkdown() string {
	if len(pt.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(cells []ParsedCell) {
		for _, cell := range cells {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(pt.Rows[0])
	for range pt.Rows[0] {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for _, row := range pt.Rows[1:] {
		writeRow(row)
	}
	return sb.String()
}

// parseTable converts a w:tbl element.
func parseTable(tbl tableXML) ParsedTable {
	parsed := ParsedTable{StyleID: tbl.Properties.Style.Val}

	for _, col := range tbl.Grid.Cols {
		parsed.ColWidths = append(parsed.ColWidths, parseTwips(col.W))
	}

	for _, row := range tbl.Rows {
		if isOn(row.Properties.Header) {
			parsed.HeaderRows++
		}
		cells := make([]ParsedCell, 0, len(row.Cells))
		for _, cell := range row.Cells {
			var pc ParsedCell
			var texts []string
			for _, p := range cell.Paragraphs {
				runs := parseRuns(p.Runs)
				pc.Runs = append(pc.Runs, runs...)
				texts = append(texts, runsText(runs))
			}
			pc.Text = strings.Join(texts, "\n")
			cells = append(cells, pc)
		}
		parsed.Rows = append(parsed.Rows, cells)
	}
	return parsed
}
