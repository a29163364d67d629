package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tsawler/sysdoc/model"
)

func xmlName(local string) xml.Name {
	return xml.Name{Space: nsW, Local: local}
}

// createTestPackage writes a zip with the given parts in the given order.
func createTestPackage(t *testing.T, parts [][2]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	docxPath := filepath.Join(tmpDir, "test.docx")

	f, err := os.Create(docxPath)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	zw := zip.NewWriter(f)
	for _, p := range parts {
		w, err := zw.Create(p[0])
		if err != nil {
			t.Fatalf("failed to add %s: %v", p[0], err)
		}
		w.Write([]byte(p[1]))
	}

	zw.Close()
	f.Close()

	return docxPath
}

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

func testDocumentXML(content string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>` + content + `</w:body>
</w:document>`
}

// createTestDOCX creates a minimal DOCX file for testing.
func createTestDOCX(t *testing.T, content string) string {
	t.Helper()
	return createTestPackage(t, [][2]string{
		{partContentTypes, testContentTypes},
		{partDocument, testDocumentXML(content)},
	})
}

// createTestDOCXWithStyles creates a DOCX with styles.xml for heading detection.
func createTestDOCXWithStyles(t *testing.T, content, styles string) string {
	t.Helper()
	return createTestPackage(t, [][2]string{
		{partContentTypes, testContentTypes},
		{partDocument, testDocumentXML(content)},
		{partStyles, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + styles + `</w:styles>`},
	})
}

func TestOpen(t *testing.T) {
	r, err := Open(createTestDOCX(t, `<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>`))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if len(r.Nodes()) != 1 {
		t.Errorf("got %d nodes, want 1", len(r.Nodes()))
	}
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open("/nonexistent/file.docx")
	if !errors.Is(err, model.ErrIO) {
		t.Errorf("Open() error = %v, want ErrIO", err)
	}
}

func TestOpen_InvalidZip(t *testing.T) {
	// Create a file that's not a valid ZIP
	tmpDir := t.TempDir()
	invalidPath := filepath.Join(tmpDir, "invalid.docx")
	os.WriteFile(invalidPath, []byte("not a zip file"), 0644)

	_, err := Open(invalidPath)
	if err == nil {
		t.Error("Open() should return error for invalid ZIP")
	}
}

func TestOpen_MissingDocumentXML(t *testing.T) {
	path := createTestPackage(t, [][2]string{{partContentTypes, testContentTypes}})

	_, err := Open(path)
	if !errors.Is(err, ErrMissingPart) {
		t.Errorf("Open() error = %v, want ErrMissingPart", err)
	}
}

func TestReader_Text(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "simple paragraph",
			content:  `<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>`,
			expected: "Hello World",
		},
		{
			name: "multiple paragraphs",
			content: `<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>`,
			expected: "First paragraph\nSecond paragraph",
		},
		{
			name: "multiple runs",
			content: `<w:p>
  <w:r><w:t xml:space="preserve">Hello </w:t></w:r>
  <w:r><w:t>World</w:t></w:r>
</w:p>`,
			expected: "Hello World",
		},
		{
			name:     "tabs and breaks",
			content:  `<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>`,
			expected: "a\tb\nc",
		},
		{
			name:     "empty document",
			content:  ``,
			expected: "",
		},
		{
			name:     "paragraph with no text",
			content:  `<w:p><w:r></w:r></w:p>`,
			expected: "",
		},
		{
			name:     "vietnamese text",
			content:  `<w:p><w:r><w:t>Cơ sở Dữ liệu &amp; Ý nghĩa</w:t></w:r></w:p>`,
			expected: "Cơ sở Dữ liệu & Ý nghĩa",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Open(createTestDOCX(t, tt.content))
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer r.Close()

			if text := r.Text(); text != tt.expected {
				t.Errorf("Text() = %q, want %q", text, tt.expected)
			}
		})
	}
}

func TestReader_HeadingDetection(t *testing.T) {
	content := `<w:p>
  <w:pPr><w:pStyle w:val="Title"/></w:pPr>
  <w:r><w:t>Main Title</w:t></w:r>
</w:p>
<w:p><w:r><w:t>Regular paragraph</w:t></w:r></w:p>
<w:p>
  <w:pPr><w:pStyle w:val="Heading2"/></w:pPr>
  <w:r><w:t>Subsection</w:t></w:r>
</w:p>
<w:p>
  <w:pPr><w:pStyle w:val="Custom"/></w:pPr>
  <w:r><w:t>Outline heading</w:t></w:r>
</w:p>
<w:p>
  <w:pPr><w:pStyle w:val="Body"/></w:pPr>
  <w:r><w:t>Body text</w:t></w:r>
</w:p>`
	styles := `
<w:style w:type="paragraph" w:styleId="Custom">
  <w:name w:val="Custom"/>
  <w:pPr><w:outlineLvl w:val="2"/></w:pPr>
</w:style>
<w:style w:type="paragraph" w:styleId="Body">
  <w:name w:val="Body Text"/>
</w:style>`

	r, err := Open(createTestDOCXWithStyles(t, content, styles))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	want := []struct {
		kind  model.BlockKind
		level int
		style string
	}{
		{model.KindHeading, 0, "Title"},
		{model.KindParagraph, 0, ""},
		{model.KindHeading, 2, "Heading2"},
		{model.KindHeading, 3, "Custom"},
		{model.KindParagraph, 0, "Body Text"},
	}

	nodes := r.Nodes()
	if len(nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d", len(nodes), len(want))
	}
	for i, w := range want {
		n := nodes[i]
		if n.Kind != w.kind || n.Level != w.level || n.Style != w.style {
			t.Errorf("node %d = {%v %d %q}, want {%v %d %q}", i, n.Kind, n.Level, n.Style, w.kind, w.level, w.style)
		}
	}
}

func TestReader_NamedStyleIgnoresHeadingID(t *testing.T) {
	content := `<w:p>
  <w:pPr><w:pStyle w:val="Title"/></w:pPr>
  <w:r><w:t>Not a title</w:t></w:r>
</w:p>
<w:p>
  <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
  <w:r><w:t>Real heading</w:t></w:r>
</w:p>`
	styles := `
<w:style w:type="paragraph" w:styleId="Title">
  <w:name w:val="Ti-tle"/>
</w:style>
<w:style w:type="paragraph" w:styleId="Heading1">
  <w:name w:val="heading 1"/>
</w:style>`

	r, err := Open(createTestDOCXWithStyles(t, content, styles))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	nodes := r.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if nodes[0].Kind != model.KindParagraph || nodes[0].Style != "Ti-tle" {
		t.Errorf("node 0 = {%v %q}, want a Ti-tle paragraph", nodes[0].Kind, nodes[0].Style)
	}
	if nodes[1].Kind != model.KindHeading || nodes[1].Level != 1 {
		t.Errorf("node 1 = {%v %d}, want a level 1 heading", nodes[1].Kind, nodes[1].Level)
	}
}

func TestReader_ListItems(t *testing.T) {
	content := `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>one</w:t></w:r></w:p>
<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>two</w:t></w:r></w:p>
<w:p><w:r><w:t>break</w:t></w:r></w:p>
<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="2"/></w:numPr></w:pPr><w:r><w:t>again</w:t></w:r></w:p>`
	numbering := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="0">
    <w:name w:val="Steps"/>
    <w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/></w:lvl>
  </w:abstractNum>
  <w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
  <w:num w:numId="2"><w:abstractNumId w:val="0"/><w:lvlOverride w:ilvl="0"><w:startOverride w:val="1"/></w:lvlOverride></w:num>
</w:numbering>`

	path := createTestPackage(t, [][2]string{
		{partContentTypes, testContentTypes},
		{partDocument, testDocumentXML(content)},
		{partNumbering, numbering},
	})
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	var numbers []int
	for _, n := range r.Nodes() {
		numbers = append(numbers, n.Number)
		if n.Kind == model.KindListItem && n.ListStyle != "Steps" {
			t.Errorf("ListStyle = %q, want Steps", n.ListStyle)
		}
	}
	if want := []int{1, 2, 0, 1}; !reflect.DeepEqual(numbers, want) {
		t.Errorf("numbers = %v, want %v", numbers, want)
	}
}

func TestReader_Close(t *testing.T) {
	r, err := Open(createTestDOCX(t, `<w:p><w:r><w:t>Test</w:t></w:r></w:p>`))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	// Second close is a no-op
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestReader_MetadataMissing(t *testing.T) {
	r, err := Open(createTestDOCX(t, ``))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if meta := r.Metadata(); !reflect.DeepEqual(meta, model.Metadata{}) {
		t.Errorf("Metadata() = %+v, want zero value", meta)
	}
	if r.Identifier() != "" || r.Application() != "" {
		t.Error("missing docProps should give empty identifier and application")
	}
	if len(r.Styles()) != 0 {
		t.Errorf("Styles() = %v, want none", r.Styles())
	}
}

func TestParseOutlineLevel(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"0", 0},
		{"1", 1},
		{"8", 8},
		{"9", -1},
		{"", -1},
		{"x", -1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseOutlineLevel(tt.input); got != tt.want {
				t.Errorf("parseOutlineLevel(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func BenchmarkOpen(b *testing.B) {
	doc, err := model.NewDocument(model.StyleDef{Font: "Times New Roman", Size: 12})
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		doc.AddParagraph([]model.Run{model.Text("Paragraph text for benchmarking.")}, "")
	}
	data, err := Bytes(doc)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := OpenReader(bytes.NewReader(data), int64(len(data))); err != nil {
			b.Fatal(err)
		}
	}
}
