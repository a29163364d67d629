package report

import (
	"errors"
	"fmt"

	"github.com/tsawler/sysdoc/htmldoc"
	"github.com/tsawler/sysdoc/model"
)

// Build creates the document. Content is added first and styles are
// registered afterwards; every style reference is then checked so that a
// missing style is reported against the block that uses it.
func (d *Definition) Build() (*model.Document, error) {
	doc, err := model.NewDocument(d.Default)
	if err != nil {
		return nil, fmt.Errorf("%s: default_style: %w", d.filename, err)
	}
	doc.Metadata = d.Metadata
	if doc.Metadata.Language == "" {
		doc.Metadata.Language = "vi-VN"
	}

	for _, b := range d.Blocks {
		if err := addBlock(doc, b); err != nil {
			return nil, fmt.Errorf("%s: %w", b.Range, err)
		}
	}

	for _, s := range d.Styles {
		if err := doc.RegisterStyle(s.Name, s); err != nil {
			return nil, fmt.Errorf("%s: style %q: %w", d.filename, s.Name, err)
		}
	}

	if err := doc.ResolveStyles(); err != nil {
		var sre *model.StyleResolutionError
		if errors.As(err, &sre) && sre.Block >= 0 && sre.Block < len(d.Blocks) {
			return nil, fmt.Errorf("%s: %w", d.Blocks[sre.Block].Range, err)
		}
		return nil, fmt.Errorf("%s: %w", d.filename, err)
	}
	return doc, nil
}

func addBlock(doc *model.Document, b BlockDef) error {
	switch b.Kind {
	case model.KindHeading:
		runs, err := b.runs()
		if err != nil {
			return err
		}
		return doc.AddHeadingRuns(runs, b.Level)
	case model.KindParagraph:
		runs, err := b.runs()
		if err != nil {
			return err
		}
		return doc.AddParagraph(runs, b.Style)
	case model.KindListItem:
		runs, err := b.runs()
		if err != nil {
			return err
		}
		return doc.AddListItemRuns(runs, b.Style)
	case model.KindTable:
		return doc.AddTableRuns(b.cells(), b.Style)
	}
	return fmt.Errorf("%w: unsupported block kind %s", model.ErrConfiguration, b.Kind)
}

func (b BlockDef) runs() ([]model.Run, error) {
	if b.Markup != "" {
		return htmldoc.ParseRuns(b.Markup)
	}
	if b.Text == "" {
		return nil, nil
	}
	return []model.Run{model.Text(b.Text)}, nil
}

// cells returns the header row followed by the data rows.
func (b BlockDef) cells() [][][]model.Run {
	rows := make([][][]model.Run, 0, len(b.Rows)+1)
	header := make([][]model.Run, len(b.Headers))
	for i, h := range b.Headers {
		if b.BoldHeaders {
			header[i] = []model.Run{model.Bold(h)}
		} else {
			header[i] = []model.Run{model.Text(h)}
		}
	}
	rows = append(rows, header)
	for _, row := range b.Rows {
		cells := make([][]model.Run, len(row))
		for i, s := range row {
			cells[i] = []model.Run{model.Text(s)}
		}
		rows = append(rows, cells)
	}
	return rows
}
