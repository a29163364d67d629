package model

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of a Document
type State int

const (
	StateOpen State = iota
	StateWritten
)

func (s State) String() string {
	if s == StateWritten {
		return "Written"
	}
	return "Open"
}

// MaxHeadingLevel is the deepest heading level accepted by AddHeading.
const MaxHeadingLevel = 9

// Document is an ordered sequence of blocks plus the style registry they
// resolve against.
type Document struct {
	Metadata Metadata

	blocks   []Block
	styles   *Registry
	state    State
	hasTitle bool
}

// Metadata contains document-level information written to the package
// properties.
type Metadata struct {
	Title    string
	Subject  string
	Creator  string
	Keywords []string
	Language string
}

// NewDocument creates an empty document whose registry holds defaultStyle
// under the name "Normal".
func NewDocument(defaultStyle StyleDef) (*Document, error) {
	if err := defaultStyle.validateDefault(); err != nil {
		return nil, err
	}
	defaultStyle.Type = StyleParagraph
	defaultStyle.BasedOn = ""

	reg := NewRegistry()
	reg.Set(DefaultStyle, defaultStyle)

	return &Document{
		Metadata: Metadata{Language: "vi-VN"},
		blocks:   make([]Block, 0),
		styles:   reg,
	}, nil
}

// State returns the lifecycle state.
func (d *Document) State() State { return d.state }

// MarkWritten moves the document to the Written state. It is called by the
// package writer after a successful write.
func (d *Document) MarkWritten() { d.state = StateWritten }

// HasTitle reports whether a level 0 heading was added.
func (d *Document) HasTitle() bool { return d.hasTitle }

// Blocks returns the blocks in document order. The slice is a copy; the
// blocks themselves must not be modified.
func (d *Document) Blocks() []Block {
	out := make([]Block, len(d.blocks))
	copy(out, d.blocks)
	return out
}

// Len returns the number of blocks.
func (d *Document) Len() int { return len(d.blocks) }

// Styles returns the style registry.
func (d *Document) Styles() *Registry { return d.styles }

func (d *Document) checkOpen(op string) error {
	if d.state == StateWritten {
		return fmt.Errorf("%w: %s on a document that was already written", ErrInvariant, op)
	}
	return nil
}

// AddHeading appends a heading with a single plain run.
func (d *Document) AddHeading(text string, level int) error {
	return d.AddHeadingRuns([]Run{Text(text)}, level)
}

// AddHeadingRuns appends a heading made of runs. Level 0 is the document
// title and may be added once.
func (d *Document) AddHeadingRuns(runs []Run, level int) error {
	if err := d.checkOpen("AddHeading"); err != nil {
		return err
	}
	if level < 0 || level > MaxHeadingLevel {
		return fmt.Errorf("%w: heading level %d not in [0, %d]", ErrRange, level, MaxHeadingLevel)
	}
	if level == 0 && d.hasTitle {
		return fmt.Errorf("%w: document already has a title heading", ErrInvariant)
	}

	d.blocks = append(d.blocks, &Heading{Level: level, Runs: normalizeRuns(runs)})
	if level == 0 {
		d.hasTitle = true
	}
	return nil
}

// AddParagraph appends a paragraph. An empty runs slice yields a blank line.
// The style is resolved when the document is written, so it may be
// registered later; "" selects the default style.
func (d *Document) AddParagraph(runs []Run, style string) error {
	if err := d.checkOpen("AddParagraph"); err != nil {
		return err
	}
	d.blocks = append(d.blocks, &Paragraph{Style: style, Runs: normalizeRuns(runs)})
	return nil
}

// AddNumberedListItem appends a numbered list item with a single plain run.
func (d *Document) AddNumberedListItem(text string, listStyle string) error {
	return d.AddListItemRuns([]Run{Text(text)}, listStyle)
}

// AddListItemRuns appends a numbered list item made of runs.
func (d *Document) AddListItemRuns(runs []Run, listStyle string) error {
	if err := d.checkOpen("AddNumberedListItem"); err != nil {
		return err
	}
	if strings.TrimSpace(listStyle) == "" {
		return fmt.Errorf("%w: list item needs a list style", ErrConfiguration)
	}
	d.blocks = append(d.blocks, &ListItem{ListStyle: listStyle, Runs: normalizeRuns(runs)})
	return nil
}

// AddTable appends a table whose first row holds headers. Every data row
// must have len(headers) cells.
func (d *Document) AddTable(headers []string, rows [][]string, style string) error {
	all := make([][][]Run, 0, len(rows)+1)
	all = append(all, textCells(headers))
	for _, row := range rows {
		all = append(all, textCells(row))
	}
	return d.AddTableRuns(all, style)
}

// AddTableRuns appends a table from formatted cells. rows[0] is the header
// row. The table is rejected as a whole if any row is ragged.
func (d *Document) AddTableRuns(rows [][][]Run, style string) error {
	if err := d.checkOpen("AddTable"); err != nil {
		return err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return &ShapeError{Row: -1}
	}

	width := len(rows[0])
	for i, row := range rows[1:] {
		if len(row) != width {
			return &ShapeError{Row: i, Want: width, Got: len(row)}
		}
	}

	table := &Table{Style: style, Rows: make([]Row, len(rows))}
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, runs := range row {
			cells[j] = Cell{Runs: normalizeRuns(runs)}
		}
		table.Rows[i] = Row{Cells: cells}
	}
	d.blocks = append(d.blocks, table)
	return nil
}

func textCells(texts []string) [][]Run {
	cells := make([][]Run, len(texts))
	for i, s := range texts {
		cells[i] = []Run{Text(s)}
	}
	return cells
}

// RegisterStyle adds or replaces a style definition. Blocks reference styles
// by name, so a replacement applies to blocks added before it.
func (d *Document) RegisterStyle(name string, def StyleDef) error {
	if err := d.checkOpen("RegisterStyle"); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: style name is empty", ErrConfiguration)
	}
	if def.Size < 0 {
		return fmt.Errorf("%w: style %q has negative size", ErrConfiguration, name)
	}
	if name == DefaultStyle {
		if err := def.validateDefault(); err != nil {
			return err
		}
		def.Type = StyleParagraph
		def.BasedOn = ""
	}
	d.styles.Set(name, def)
	return nil
}

// ResolveStyles checks every style reference against the registry and
// returns a *StyleResolutionError for the first block, in document order,
// whose style is not registered or is a table style applied to text.
// Base style chains must end at a registered style without looping.
// Headings always resolve.
func (d *Document) ResolveStyles() error {
	check := func(i int, name string, text bool) error {
		if name == "" {
			return nil
		}
		def, ok := d.styles.Lookup(name)
		if !ok {
			return &StyleResolutionError{Style: name, Block: i}
		}
		if text && def.Type == StyleTable {
			return &StyleResolutionError{Style: name, Block: i, Reason: "is a table style"}
		}
		return nil
	}

	for i, b := range d.blocks {
		var err error
		switch v := b.(type) {
		case *Paragraph:
			err = check(i, v.Style, true)
		case *ListItem:
			err = check(i, v.ListStyle, true)
		case *Table:
			err = check(i, v.Style, false)
		}
		if err != nil {
			return err
		}
	}

	for _, name := range d.styles.Names() {
		seen := map[string]bool{name: true}
		for cur := name; ; {
			def, _ := d.styles.Lookup(cur)
			if def.BasedOn == "" {
				break
			}
			if !d.styles.Has(def.BasedOn) {
				return &StyleResolutionError{Style: def.BasedOn, Block: -1}
			}
			if seen[def.BasedOn] {
				return &StyleResolutionError{Style: def.BasedOn, Block: -1, Reason: "is part of a base style cycle"}
			}
			seen[def.BasedOn] = true
			cur = def.BasedOn
		}
	}
	return nil
}

// ExtractText returns the text of all blocks separated by newlines.
func (d *Document) ExtractText() string {
	var sb strings.Builder
	for i, b := range d.blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.TrimRight(b.GetText(), "\n"))
	}
	return sb.String()
}
