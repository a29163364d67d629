package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tsawler/sysdoc/model"
)

// ErrMissingPart is returned when a package lacks a required part.
var ErrMissingPart = errors.New("docx: missing required part")

// Reader provides access to the content of a DOCX package.
type Reader struct {
	zr        *zip.Reader
	closer    io.Closer
	styles    *StyleResolver
	numbering *NumberingResolver
	coreProps *corePropertiesXML
	appProps  *appPropertiesXML
	rels      *relationshipsXML
	nodes     []Node
}

// Node is one body element read back from a package, in document order.
type Node struct {
	Kind      model.BlockKind
	Level     int    // headings: 0 for Title, 1-9 otherwise
	StyleID   string // w:pStyle or w:tblStyle
	Style     string // display name of StyleID
	Text      string
	Runs      []RunInfo
	ListStyle string // list items: name of the list style
	Number    int    // list items: the rendered number
	Rows      [][]string
	Table     *ParsedTable
}

// RunInfo is a run read back from a package.
type RunInfo struct {
	Text   string
	Bold   bool
	Italic bool
	Color  string // RRGGBB, empty when inherited
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, &PathError{Op: "open", Path: filename, Err: err}
	}

	r, err := newReader(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	r.closer = zr
	return r, nil
}

// OpenReader reads a package from an in-memory or random-access source.
func OpenReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("docx: opening ZIP archive: %w", err)
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	r := &Reader{zr: zr}

	// Validate required files exist
	if err := r.validate(); err != nil {
		return nil, err
	}

	if err := r.parseRelationships(); err != nil {
		return nil, fmt.Errorf("docx: parsing relationships: %w", err)
	}
	if err := r.parseStyles(); err != nil {
		return nil, fmt.Errorf("docx: parsing styles: %w", err)
	}
	if err := r.parseNumbering(); err != nil {
		return nil, fmt.Errorf("docx: parsing numbering: %w", err)
	}

	// Metadata is optional
	r.parseCoreProperties()
	r.parseAppProperties()

	if err := r.parseDocument(); err != nil {
		return nil, fmt.Errorf("docx: parsing document: %w", err)
	}
	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	required := []string{
		partContentTypes,
		partDocument,
	}

	for _, name := range required {
		if r.getFile(name) == nil {
			return fmt.Errorf("%w: %s", ErrMissingPart, name)
		}
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f := r.getFile(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// getFile returns a zip.File by name.
func (r *Reader) getFile(name string) *zip.File {
	for _, f := range r.zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Parts returns the part names in archive order.
func (r *Reader) Parts() []string {
	names := make([]string, 0, len(r.zr.File))
	for _, f := range r.zr.File {
		names = append(names, f.Name)
	}
	return names
}

// Nodes returns the body elements in document order.
func (r *Reader) Nodes() []Node {
	out := make([]Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// Styles returns every style defined in styles.xml with inherited values
// resolved.
func (r *Reader) Styles() []StyleInfo {
	return r.styles.All()
}

// Style returns the resolved style with the given ID, or nil.
func (r *Reader) Style(id string) *StyleInfo {
	return r.styles.Resolve(id)
}

// Text returns the text of every body element separated by newlines. Table
// cells are separated by tabs.
func (r *Reader) Text() string {
	var sb strings.Builder
	for i, n := range r.nodes {
		if i > 0 {
			sb.WriteString("\n")
		}
		if n.Kind == model.KindTable {
			for j, row := range n.Rows {
				if j > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(strings.Join(row, "\t"))
			}
			continue
		}
		sb.WriteString(n.Text)
	}
	return sb.String()
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	meta := model.Metadata{}
	if r.coreProps != nil {
		meta.Title = r.coreProps.Title
		meta.Creator = r.coreProps.Creator
		meta.Subject = r.coreProps.Subject
		meta.Language = r.coreProps.Language
		if r.coreProps.Keywords != "" {
			meta.Keywords = strings.Split(r.coreProps.Keywords, ",")
			for i, kw := range meta.Keywords {
				meta.Keywords[i] = strings.TrimSpace(kw)
			}
		}
	}
	return meta
}

// Identifier returns dc:identifier from the core properties.
func (r *Reader) Identifier() string {
	if r.coreProps == nil {
		return ""
	}
	return r.coreProps.Identifier
}

// Application returns the producing application from docProps/app.xml.
func (r *Reader) Application() string {
	if r.appProps == nil {
		return ""
	}
	return r.appProps.Application
}

// HasRelationship reports whether the document relationships contain one
// of the given type.
func (r *Reader) HasRelationship(relType string) bool {
	if r.rels == nil {
		return false
	}
	for _, rel := range r.rels.Relationships {
		if rel.Type == relType {
			return true
		}
	}
	return false
}

// parseRelationships parses the document relationships file.
func (r *Reader) parseRelationships() error {
	data, err := r.getFileContent(partDocumentRels)
	if err != nil {
		// Relationships file is optional
		return nil
	}

	r.rels = &relationshipsXML{}
	return xml.Unmarshal(data, r.rels)
}

// parseStyles parses the styles definition file.
func (r *Reader) parseStyles() error {
	data, err := r.getFileContent(partStyles)
	if err != nil {
		r.styles = NewStyleResolver(nil)
		return nil
	}

	styles := &stylesXML{}
	if err := xml.Unmarshal(data, styles); err != nil {
		return err
	}
	r.styles = NewStyleResolver(styles)
	return nil
}

// parseNumbering parses the numbering definitions file.
func (r *Reader) parseNumbering() error {
	data, err := r.getFileContent(partNumbering)
	if err != nil {
		r.numbering = NewNumberingResolver(nil)
		return nil
	}

	numbering := &numberingXML{}
	if err := xml.Unmarshal(data, numbering); err != nil {
		return err
	}
	r.numbering = NewNumberingResolver(numbering)
	return nil
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent(partCore)
	if err != nil {
		return
	}

	props := &corePropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.coreProps = props
	}
}

// parseAppProperties parses application metadata.
func (r *Reader) parseAppProperties() {
	data, err := r.getFileContent(partApp)
	if err != nil {
		return
	}

	props := &appPropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.appProps = props
	}
}

// parseDocument walks the body in order. Paragraphs and tables are decoded
// one element at a time so their relative order is kept.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent(partDocument)
	if err != nil {
		return err
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	inBody := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("decoding %s: %w", partDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !inBody {
				inBody = t.Name.Local == "body"
				continue
			}
			switch t.Name.Local {
			case "p":
				var p paragraphXML
				if err := dec.DecodeElement(&p, &t); err != nil {
					return fmt.Errorf("decoding paragraph: %w", err)
				}
				r.nodes = append(r.nodes, r.paragraphNode(p))
			case "tbl":
				var tbl tableXML
				if err := dec.DecodeElement(&tbl, &t); err != nil {
					return fmt.Errorf("decoding table: %w", err)
				}
				r.nodes = append(r.nodes, r.tableNode(tbl))
			default:
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if inBody && t.Name.Local == "body" {
				return nil
			}
		}
	}
	return nil
}

// paragraphNode classifies a paragraph as heading, list item or paragraph.
func (r *Reader) paragraphNode(p paragraphXML) Node {
	runs := parseRuns(p.Runs)
	id := p.Properties.Style.Val
	n := Node{
		Kind:    model.KindParagraph,
		StyleID: id,
		Runs:    runs,
		Text:    runsText(runs),
	}
	if id != "" {
		n.Style = r.styles.NameOf(id)
	}

	if level, ok := r.headingLevel(id); ok {
		n.Kind = model.KindHeading
		n.Level = level
		return n
	}

	if numID := p.Properties.NumPr.NumID.Val; numID != "" && numID != "0" {
		n.Kind = model.KindListItem
		n.Number = r.numbering.Next(numID)
		n.ListStyle = n.Style
		if n.ListStyle == "" {
			n.ListStyle = r.numbering.ListName(numID)
		}
	}
	return n
}

func (r *Reader) tableNode(tbl tableXML) Node {
	parsed := parseTable(tbl)
	n := Node{
		Kind:    model.KindTable,
		StyleID: parsed.StyleID,
		Rows:    parsed.Texts(),
		Table:   &parsed,
	}
	if parsed.StyleID != "" {
		n.Style = r.styles.NameOf(parsed.StyleID)
	}
	n.Text = parsed.ToMarkdown()
	return n
}

// headingLevel determines whether a style ID is a heading style. The style
// name decides first, then the ID, then the style's outline level.
func (r *Reader) headingLevel(styleID string) (int, bool) {
	if styleID == "" {
		return 0, false
	}
	name := r.styles.NameOf(styleID)
	if level := namedHeadingLevel(name); level >= 0 {
		return level, true
	}

	// The ID only counts when the style carries no name of its own.
	if name == styleID {
		id := strings.ToLower(styleID)
		if id == "title" {
			return 0, true
		}
		if rest, ok := strings.CutPrefix(id, "heading"); ok {
			if level, err := strconv.Atoi(rest); err == nil && level >= 1 && level <= model.MaxHeadingLevel {
				return level, true
			}
		}
	}

	if def, ok := r.styles.styles[styleID]; ok && def.PPr.OutlineLvl.Val != "" {
		// OutlineLvl is 0-based in OOXML
		if level := parseOutlineLevel(def.PPr.OutlineLvl.Val); level >= 0 {
			return level + 1, true
		}
	}
	return 0, false
}

// namedHeadingLevel matches a style name against the heading names without
// regard to case; Word names its built-in headings "heading 1".
func namedHeadingLevel(name string) int {
	for level := 0; level <= model.MaxHeadingLevel; level++ {
		if strings.EqualFold(name, model.HeadingStyleName(level)) {
			return level
		}
	}
	return -1
}

// parseOutlineLevel parses an outline level string to an integer.
func parseOutlineLevel(s string) int {
	level, err := strconv.Atoi(s)
	if err != nil || level < 0 || level > 8 {
		return -1
	}
	return level
}

// parseRuns converts w:r elements, dropping runs without text.
func parseRuns(runs []runXML) []RunInfo {
	out := make([]RunInfo, 0, len(runs))
	for _, run := range runs {
		text := extractRunText(run)
		if text == "" {
			continue
		}
		info := RunInfo{
			Text:   text,
			Bold:   isOn(run.Properties.Bold),
			Italic: isOn(run.Properties.Italic),
		}
		if c := run.Properties.Color.Val; c != "" && c != "auto" {
			info.Color = strings.ToUpper(c)
		}
		out = append(out, info)
	}
	return out
}

// extractRunText extracts text from a run element.
func extractRunText(run runXML) string {
	var sb strings.Builder
	for _, item := range run.Content {
		switch item.XMLName.Local {
		case "t":
			sb.WriteString(item.Value)
		case "tab":
			sb.WriteString("\t")
		case "br", "cr":
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func runsText(runs []RunInfo) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// parseTwips converts a twips value to points.
func parseTwips(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / 20
}
