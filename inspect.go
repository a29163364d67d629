package sysdoc

import (
	"fmt"
	"os"

	"github.com/tsawler/sysdoc/docx"
	"github.com/tsawler/sysdoc/format"
	"github.com/tsawler/sysdoc/model"
)

// Summary describes a DOCX package read back from disk.
type Summary struct {
	Path       string
	Title      string
	Identifier string
	Headings   int
	Paragraphs int
	ListItems  int
	Tables     int
	Styles     int
	Lists      int // numbering sequences
}

// Blocks returns the total number of body elements.
func (s Summary) Blocks() int {
	return s.Headings + s.Paragraphs + s.ListItems + s.Tables
}

// Inspect opens the package at path and counts its content.
func Inspect(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &docx.PathError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &docx.PathError{Op: "stat", Path: path, Err: err}
	}
	ft, err := format.DetectFromReader(f, info.Size())
	if err != nil {
		return nil, &docx.PathError{Op: "read", Path: path, Err: err}
	}
	if ft != format.DOCX {
		return nil, fmt.Errorf("%w: %s is not a DOCX package", model.ErrConfiguration, path)
	}

	r, err := docx.OpenReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", path, err)
	}
	defer r.Close()

	s := &Summary{
		Path:       path,
		Title:      r.Metadata().Title,
		Identifier: r.Identifier(),
		Styles:     len(r.Styles()),
	}
	for _, n := range r.Nodes() {
		switch n.Kind {
		case model.KindHeading:
			s.Headings++
		case model.KindParagraph:
			s.Paragraphs++
		case model.KindListItem:
			s.ListItems++
			if n.Number == 1 {
				s.Lists++
			}
		case model.KindTable:
			s.Tables++
		}
	}
	return s, nil
}
