package model

import (
	"errors"
	"strings"
	"testing"
)

func newTestDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := NewDocument(StyleDef{Font: "Times New Roman", Size: 12})
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	return doc
}

// ============================================================================
// NewDocument Tests
// ============================================================================

func TestNewDocument(t *testing.T) {
	doc := newTestDocument(t)

	if doc.Len() != 0 {
		t.Errorf("Len() = %d, want 0", doc.Len())
	}
	if doc.State() != StateOpen {
		t.Errorf("State() = %v, want Open", doc.State())
	}
	def, ok := doc.Styles().Lookup(DefaultStyle)
	if !ok {
		t.Fatal("default style not registered")
	}
	if def.Font != "Times New Roman" || def.Size != 12 || def.Name != DefaultStyle {
		t.Errorf("default style = %+v", def)
	}
	if doc.Metadata.Language != "vi-VN" {
		t.Errorf("Language = %q, want vi-VN", doc.Metadata.Language)
	}
}

func TestNewDocumentConfigurationError(t *testing.T) {
	tests := []struct {
		name string
		def  StyleDef
	}{
		{"missing font", StyleDef{Size: 12}},
		{"blank font", StyleDef{Font: "  ", Size: 12}},
		{"zero size", StyleDef{Font: "Arial"}},
		{"negative size", StyleDef{Font: "Arial", Size: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewDocument(tt.def)
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("NewDocument() error = %v, want ErrConfiguration", err)
			}
			if doc != nil {
				t.Error("NewDocument() returned a document on error")
			}
		})
	}
}

// ============================================================================
// Heading Tests
// ============================================================================

func TestAddHeadingLevels(t *testing.T) {
	tests := []struct {
		level   int
		wantErr error
	}{
		{-1, ErrRange},
		{0, nil},
		{1, nil},
		{9, nil},
		{10, ErrRange},
	}

	for _, tt := range tests {
		doc := newTestDocument(t)
		err := doc.AddHeading("x", tt.level)
		if tt.wantErr == nil && err != nil {
			t.Errorf("AddHeading(level %d) error = %v", tt.level, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("AddHeading(level %d) error = %v, want %v", tt.level, err, tt.wantErr)
		}
	}
}

func TestAddHeadingSecondTitle(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.AddHeading("Title", 0); err != nil {
		t.Fatal(err)
	}
	if err := doc.AddHeading("Section", 1); err != nil {
		t.Fatal(err)
	}

	err := doc.AddHeading("Another title", 0)
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("second title error = %v, want ErrInvariant", err)
	}
	if doc.Len() != 2 {
		t.Errorf("Len() = %d after failed call, want 2", doc.Len())
	}
	if !doc.HasTitle() {
		t.Error("HasTitle() = false")
	}
}

func TestHeadingStyleName(t *testing.T) {
	if got := HeadingStyleName(0); got != "Title" {
		t.Errorf("HeadingStyleName(0) = %q", got)
	}
	if got := HeadingStyleName(3); got != "Heading 3" {
		t.Errorf("HeadingStyleName(3) = %q", got)
	}
}

// ============================================================================
// Paragraph and List Tests
// ============================================================================

func TestAddParagraph(t *testing.T) {
	doc := newTestDocument(t)

	runs := []Run{Bold("Khách hàng:"), Text(" mô tả")}
	if err := doc.AddParagraph(runs, ""); err != nil {
		t.Fatal(err)
	}
	if err := doc.AddParagraph(nil, ""); err != nil {
		t.Fatalf("empty paragraph error = %v", err)
	}

	// The caller's slice is copied.
	runs[0].Text = "changed"

	blocks := doc.Blocks()
	p, ok := blocks[0].(*Paragraph)
	if !ok {
		t.Fatalf("block 0 is %T, want *Paragraph", blocks[0])
	}
	if p.Runs[0].Text != "Khách hàng:" || !p.Runs[0].Bold {
		t.Errorf("run 0 = %+v", p.Runs[0])
	}
	if got := p.GetText(); got != "Khách hàng: mô tả" {
		t.Errorf("GetText() = %q", got)
	}
	if blocks[1].GetText() != "" {
		t.Errorf("blank paragraph text = %q", blocks[1].GetText())
	}
}

func TestAddParagraphUnknownStyleIsLazy(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.AddParagraph([]Run{Text("x")}, "Quote"); err != nil {
		t.Fatalf("AddParagraph() error = %v, want nil", err)
	}

	var sre *StyleResolutionError
	if err := doc.ResolveStyles(); !errors.As(err, &sre) {
		t.Fatalf("ResolveStyles() error = %v, want *StyleResolutionError", err)
	}
	if sre.Style != "Quote" || sre.Block != 0 {
		t.Errorf("error = %+v", sre)
	}
	if !errors.Is(sre, ErrStyleResolution) {
		t.Error("StyleResolutionError does not unwrap to ErrStyleResolution")
	}

	if err := doc.RegisterStyle("Quote", StyleDef{Italic: true}); err != nil {
		t.Fatal(err)
	}
	if err := doc.ResolveStyles(); err != nil {
		t.Errorf("ResolveStyles() after registration error = %v", err)
	}
}

func TestResolveStylesBaseCycle(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.RegisterStyle("A", StyleDef{BasedOn: "B"}); err != nil {
		t.Fatal(err)
	}
	if err := doc.RegisterStyle("B", StyleDef{BasedOn: "A"}); err != nil {
		t.Fatal(err)
	}

	var sre *StyleResolutionError
	if err := doc.ResolveStyles(); !errors.As(err, &sre) {
		t.Fatalf("ResolveStyles() error = %v, want *StyleResolutionError", err)
	}
	if sre.Style != "A" || sre.Block != -1 || sre.Reason == "" {
		t.Errorf("error = %+v", sre)
	}

	if err := doc.RegisterStyle("B", StyleDef{BasedOn: "B"}); err != nil {
		t.Fatal(err)
	}
	if err := doc.ResolveStyles(); !errors.Is(err, ErrStyleResolution) {
		t.Errorf("self-based style error = %v, want ErrStyleResolution", err)
	}

	if err := doc.RegisterStyle("B", StyleDef{BasedOn: DefaultStyle}); err != nil {
		t.Fatal(err)
	}
	if err := doc.ResolveStyles(); err != nil {
		t.Errorf("ResolveStyles() after breaking the cycle error = %v", err)
	}
}

func TestResolveStylesTableStyleOnText(t *testing.T) {
	tests := []struct {
		name string
		add  func(*Document) error
	}{
		{"paragraph", func(d *Document) error { return d.AddParagraph([]Run{Text("x")}, "Grid") }},
		{"list item", func(d *Document) error { return d.AddNumberedListItem("x", "Grid") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newTestDocument(t)
			if err := doc.RegisterStyle("Grid", StyleDef{Type: StyleTable, Grid: true}); err != nil {
				t.Fatal(err)
			}
			if err := tt.add(doc); err != nil {
				t.Fatal(err)
			}

			var sre *StyleResolutionError
			if err := doc.ResolveStyles(); !errors.As(err, &sre) {
				t.Fatalf("ResolveStyles() error = %v, want *StyleResolutionError", err)
			}
			if sre.Style != "Grid" || sre.Block != 0 {
				t.Errorf("error = %+v", sre)
			}
		})
	}

	doc := newTestDocument(t)
	if err := doc.RegisterStyle("Grid", StyleDef{Type: StyleTable}); err != nil {
		t.Fatal(err)
	}
	if err := doc.AddTable([]string{"A"}, nil, "Grid"); err != nil {
		t.Fatal(err)
	}
	if err := doc.ResolveStyles(); err != nil {
		t.Errorf("table with table style error = %v", err)
	}
}

func TestAddNumberedListItem(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.AddNumberedListItem("Bước 1", "List Number"); err != nil {
		t.Fatal(err)
	}
	if err := doc.AddNumberedListItem("x", ""); !errors.Is(err, ErrConfiguration) {
		t.Errorf("empty list style error = %v", err)
	}

	item, ok := doc.Blocks()[0].(*ListItem)
	if !ok || item.ListStyle != "List Number" || item.GetText() != "Bước 1" {
		t.Errorf("block 0 = %+v", doc.Blocks()[0])
	}
}

// ============================================================================
// Table Tests
// ============================================================================

func TestAddTable(t *testing.T) {
	doc := newTestDocument(t)
	headers := []string{"Bảng", "Ý nghĩa", "Các trường chính"}
	rows := [][]string{
		{"User", "Thông tin người dùng", "userName, passWord"},
		{"Role", "Vai trò hệ thống", "roleName"},
	}
	if err := doc.AddTable(headers, rows, "Table Grid"); err != nil {
		t.Fatal(err)
	}

	table := doc.Blocks()[0].(*Table)
	if table.RowCount() != 3 || table.ColCount() != 3 {
		t.Errorf("size = %dx%d, want 3x3", table.RowCount(), table.ColCount())
	}
	if got := table.GetCell(2, 0).GetText(); got != "Role" {
		t.Errorf("cell(2,0) = %q", got)
	}
	if table.GetCell(3, 0) != nil || table.GetCell(0, -1) != nil {
		t.Error("GetCell out of bounds should be nil")
	}
	if h := table.Header(); strings.Join(h, "|") != "Bảng|Ý nghĩa|Các trường chính" {
		t.Errorf("Header() = %v", h)
	}
}

func TestAddTableShapeError(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.AddHeading("T", 0); err != nil {
		t.Fatal(err)
	}

	rows := [][]string{{"1", "2"}, {"3", "4"}, {"5"}}
	err := doc.AddTable([]string{"A", "B"}, rows, "")

	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("AddTable() error = %v, want *ShapeError", err)
	}
	if se.Row != 2 || se.Want != 2 || se.Got != 1 {
		t.Errorf("ShapeError = %+v", se)
	}
	if !errors.Is(err, ErrShape) {
		t.Error("ShapeError does not unwrap to ErrShape")
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("message %q does not name the row", err.Error())
	}
	if doc.Len() != 1 {
		t.Errorf("Len() = %d, table must not be appended", doc.Len())
	}
}

func TestAddTableEmptyHeaders(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.AddTable(nil, nil, ""); !errors.Is(err, ErrShape) {
		t.Errorf("AddTable(nil) error = %v, want ErrShape", err)
	}
}

func TestTableToMarkdown(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.AddTable([]string{"A", "B"}, [][]string{{"1", "2"}}, ""); err != nil {
		t.Fatal(err)
	}
	want := "| A | B |\n|---|---|\n| 1 | 2 |\n"
	if got := doc.Blocks()[0].(*Table).ToMarkdown(); got != want {
		t.Errorf("ToMarkdown() = %q, want %q", got, want)
	}
}

// ============================================================================
// Style Registry Tests
// ============================================================================

func TestRegisterStyleLastWriteWins(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.RegisterStyle("Table Grid", StyleDef{Type: StyleTable}); err != nil {
		t.Fatal(err)
	}
	if err := doc.RegisterStyle("Table Grid", StyleDef{Type: StyleTable, Grid: true, Font: "Arial"}); err != nil {
		t.Fatal(err)
	}

	def, ok := doc.Styles().Lookup("Table Grid")
	if !ok || !def.Grid || def.Font != "Arial" || def.Name != "Table Grid" {
		t.Errorf("Lookup() = %+v, %v", def, ok)
	}
	if got := doc.Styles().Names(); strings.Join(got, ",") != "Normal,Table Grid" {
		t.Errorf("Names() = %v", got)
	}
}

func TestRegisterStyleErrors(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.RegisterStyle("", StyleDef{}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("blank name error = %v", err)
	}
	if err := doc.RegisterStyle("Normal", StyleDef{Size: 10}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("bad default error = %v", err)
	}
	if err := doc.RegisterStyle("X", StyleDef{Size: -2}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("negative size error = %v", err)
	}
}

func TestRegistryHeadingFallback(t *testing.T) {
	doc := newTestDocument(t)
	if got := doc.Styles().Heading(2); got.Name != "Heading 2" || !got.Bold {
		t.Errorf("built-in Heading 2 = %+v", got)
	}

	if err := doc.RegisterStyle("Title", StyleDef{Size: 30, Alignment: AlignCenter}); err != nil {
		t.Fatal(err)
	}
	if got := doc.Styles().Heading(0); got.Size != 30 || got.Alignment != AlignCenter {
		t.Errorf("registered Title = %+v", got)
	}
}

func TestResolveStylesBasedOn(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.RegisterStyle("Caption", StyleDef{BasedOn: "Missing"}); err != nil {
		t.Fatal(err)
	}
	var sre *StyleResolutionError
	if err := doc.ResolveStyles(); !errors.As(err, &sre) || sre.Style != "Missing" {
		t.Errorf("ResolveStyles() error = %v", err)
	}
}

// ============================================================================
// Lifecycle Tests
// ============================================================================

func TestWrittenDocumentRejectsMutation(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.AddHeading("T", 0); err != nil {
		t.Fatal(err)
	}
	doc.MarkWritten()

	calls := map[string]func() error{
		"AddHeading":          func() error { return doc.AddHeading("x", 1) },
		"AddParagraph":        func() error { return doc.AddParagraph(nil, "") },
		"AddNumberedListItem": func() error { return doc.AddNumberedListItem("x", "L") },
		"AddTable":            func() error { return doc.AddTable([]string{"a"}, nil, "") },
		"RegisterStyle":       func() error { return doc.RegisterStyle("S", StyleDef{}) },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, ErrInvariant) {
			t.Errorf("%s after write error = %v, want ErrInvariant", name, err)
		}
	}
	if doc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", doc.Len())
	}
}

// ============================================================================
// Run, Color and Text Tests
// ============================================================================

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "auto", false},
		{"auto", "auto", false},
		{"Default", "auto", false},
		{"#1F4E79", "1F4E79", false},
		{"ff0000", "FF0000", false},
		{"#abc", "AABBCC", false},
		{"navy", "000080", false},
		{"Red", "FF0000", false},
		{"#12345", "", true},
		{"notacolor", "", true},
		{"#GG0000", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrConfiguration) {
					t.Errorf("ParseColor(%q) error = %v, want ErrConfiguration", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q) error = %v", tt.in, err)
			}
			if c.Hex() != tt.want {
				t.Errorf("ParseColor(%q).Hex() = %q, want %q", tt.in, c.Hex(), tt.want)
			}
		})
	}
}

func TestNoColorIsZeroValue(t *testing.T) {
	var r Run
	if r.Color.IsSet() || r.Color != NoColor {
		t.Error("zero Run must carry NoColor")
	}
	if !Bold("x").WithColor(NoColor).SameFormat(Bold("y")) {
		t.Error("explicit NoColor should equal the default")
	}
	if Bold("x").WithColor(RGB(1, 2, 3)).SameFormat(Bold("x")) {
		t.Error("color override should change the format")
	}
}

func TestNormalizeText(t *testing.T) {
	// Combining marks instead of precomposed letters.
	decomposed := "Ta\u0300i li\u00ea\u0323u"
	if got := NormalizeText(decomposed); got != "T\u00e0i li\u1ec7u" {
		t.Errorf("NormalizeText() = %q, want %q", got, "T\u00e0i li\u1ec7u")
	}
	if got := NormalizeText("a\x00b\x1Fc\td"); got != "abc\td" {
		t.Errorf("NormalizeText() = %q", got)
	}
}

func TestRunsAreNormalizedOnAdd(t *testing.T) {
	doc := newTestDocument(t)
	if err := doc.AddHeading("Ta\u0300i", 1); err != nil {
		t.Fatal(err)
	}
	if got := doc.Blocks()[0].GetText(); got != "T\u00e0i" {
		t.Errorf("heading text = %q", got)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&ShapeError{Row: 1}, "ShapeError"},
		{&StyleResolutionError{Style: "x"}, "StyleResolutionError"},
		{ErrIO, "IOError"},
		{ErrRange, "RangeError"},
		{ErrInvariant, "InvariantError"},
		{ErrConfiguration, "ConfigurationError"},
		{errors.New("other"), "Error"},
	}
	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestBlockKindString(t *testing.T) {
	kinds := map[BlockKind]string{
		KindHeading:   "Heading",
		KindParagraph: "Paragraph",
		KindListItem:  "ListItem",
		KindTable:     "Table",
		BlockKind(99): "Unknown",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}
