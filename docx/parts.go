package docx

import "encoding/xml"

// Part names and content types of a WordprocessingML package.
const (
	partContentTypes = "[Content_Types].xml"
	partRootRels     = "_rels/.rels"
	partCore         = "docProps/core.xml"
	partApp          = "docProps/app.xml"
	partDocument     = "word/document.xml"
	partStyles       = "word/styles.xml"
	partNumbering    = "word/numbering.xml"
	partDocumentRels = "word/_rels/document.xml.rels"

	ctRels      = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML       = "application/xml"
	ctDocument  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctNumbering = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	ctCore      = "application/vnd.openxmlformats-package.core-properties+xml"
	ctApp       = "application/vnd.openxmlformats-officedocument.extended-properties+xml"

	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPackageRels  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsExtended     = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsDCTerms      = "http://purl.org/dc/terms/"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
)

// The w* types below are the marshal side of WordprocessingML. Element and
// attribute names carry their prefix literally; the namespaces are declared
// on the part's root element.

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wOnOff struct{}

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	NSW     string   `xml:"xmlns:w,attr"`
	NSR     string   `xml:"xmlns:r,attr"`
	Body    wBody    `xml:"w:body"`
}

// wBody holds *wParagraph and *wTable values in document order.
type wBody struct {
	Content []any         `xml:",any"`
	SectPr  wSectionProps `xml:"w:sectPr"`
}

type wSectionProps struct {
	PgSz  wPageSize    `xml:"w:pgSz"`
	PgMar wPageMargins `xml:"w:pgMar"`
}

type wPageSize struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type wPageMargins struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

type wParagraph struct {
	XMLName xml.Name         `xml:"w:p"`
	Props   *wParagraphProps `xml:"w:pPr"`
	Runs    []wRun           `xml:"w:r"`
}

type wParagraphProps struct {
	Style      *wVal     `xml:"w:pStyle"`
	KeepNext   *wOnOff   `xml:"w:keepNext"`
	NumPr      *wNumPr   `xml:"w:numPr"`
	Spacing    *wSpacing `xml:"w:spacing"`
	Ind        *wIndent  `xml:"w:ind"`
	Jc         *wVal     `xml:"w:jc"`
	OutlineLvl *wVal     `xml:"w:outlineLvl"`
}

type wNumPr struct {
	ILvl  wVal `xml:"w:ilvl"`
	NumID wVal `xml:"w:numId"`
}

type wSpacing struct {
	Before string `xml:"w:before,attr,omitempty"`
	After  string `xml:"w:after,attr,omitempty"`
}

type wIndent struct {
	Left    string `xml:"w:left,attr,omitempty"`
	Hanging string `xml:"w:hanging,attr,omitempty"`
}

type wRun struct {
	Props   *wRunProps `xml:"w:rPr"`
	Content []any      `xml:",any"` // *wText and *wBreak
}

type wRunProps struct {
	Fonts  *wFonts `xml:"w:rFonts"`
	Bold   *wOnOff `xml:"w:b"`
	BoldCS *wOnOff `xml:"w:bCs"`
	Italic *wOnOff `xml:"w:i"`
	Color  *wVal   `xml:"w:color"`
	Size   *wVal   `xml:"w:sz"`
	SizeCS *wVal   `xml:"w:szCs"`
	Lang   *wVal   `xml:"w:lang"`
}

type wFonts struct {
	ASCII    string `xml:"w:ascii,attr"`
	HAnsi    string `xml:"w:hAnsi,attr"`
	EastAsia string `xml:"w:eastAsia,attr"`
	CS       string `xml:"w:cs,attr"`
}

type wText struct {
	XMLName xml.Name `xml:"w:t"`
	Space   string   `xml:"xml:space,attr,omitempty"`
	Value   string   `xml:",chardata"`
}

type wBreak struct {
	XMLName xml.Name `xml:"w:br"`
}

type wTable struct {
	XMLName xml.Name    `xml:"w:tbl"`
	Props   wTableProps `xml:"w:tblPr"`
	Grid    wTableGrid  `xml:"w:tblGrid"`
	Rows    []wTableRow `xml:"w:tr"`
}

type wTableProps struct {
	Style   *wVal          `xml:"w:tblStyle"`
	Width   wWidth         `xml:"w:tblW"`
	Borders *wTableBorders `xml:"w:tblBorders"`
	Look    *wTableLook    `xml:"w:tblLook"`
}

type wWidth struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type wTableLook struct {
	Val         string `xml:"w:val,attr"`
	FirstRow    string `xml:"w:firstRow,attr"`
	LastRow     string `xml:"w:lastRow,attr"`
	FirstColumn string `xml:"w:firstColumn,attr"`
	LastColumn  string `xml:"w:lastColumn,attr"`
	NoHBand     string `xml:"w:noHBand,attr"`
	NoVBand     string `xml:"w:noVBand,attr"`
}

type wTableBorders struct {
	Top     wBorder `xml:"w:top"`
	Left    wBorder `xml:"w:left"`
	Bottom  wBorder `xml:"w:bottom"`
	Right   wBorder `xml:"w:right"`
	InsideH wBorder `xml:"w:insideH"`
	InsideV wBorder `xml:"w:insideV"`
}

type wBorder struct {
	Val   string `xml:"w:val,attr"`
	Sz    int    `xml:"w:sz,attr"`
	Space int    `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

type wTableGrid struct {
	Cols []wGridCol `xml:"w:gridCol"`
}

type wGridCol struct {
	W int `xml:"w:w,attr"`
}

type wTableRow struct {
	Props *wRowProps   `xml:"w:trPr"`
	Cells []wTableCell `xml:"w:tc"`
}

type wRowProps struct {
	Header *wOnOff `xml:"w:tblHeader"`
}

type wTableCell struct {
	Props      wCellProps   `xml:"w:tcPr"`
	Paragraphs []wParagraph `xml:"w:p"`
}

type wCellProps struct {
	Width wWidth `xml:"w:tcW"`
}

// styles.xml

type wStyles struct {
	XMLName  xml.Name     `xml:"w:styles"`
	NSW      string       `xml:"xmlns:w,attr"`
	Defaults wDocDefaults `xml:"w:docDefaults"`
	Styles   []wStyleDef  `xml:"w:style"`
}

type wDocDefaults struct {
	RPr wRunProps       `xml:"w:rPrDefault>w:rPr"`
	PPr wParagraphProps `xml:"w:pPrDefault>w:pPr"`
}

type wStyleDef struct {
	Type    string           `xml:"w:type,attr"`
	Default string           `xml:"w:default,attr,omitempty"`
	StyleID string           `xml:"w:styleId,attr"`
	Name    wVal             `xml:"w:name"`
	BasedOn *wVal            `xml:"w:basedOn"`
	Next    *wVal            `xml:"w:next"`
	QFormat *wOnOff          `xml:"w:qFormat"`
	PPr     *wParagraphProps `xml:"w:pPr"`
	RPr     *wRunProps       `xml:"w:rPr"`
	TblPr   *wTableProps     `xml:"w:tblPr"`
}

// numbering.xml

type wNumbering struct {
	XMLName  xml.Name       `xml:"w:numbering"`
	NSW      string         `xml:"xmlns:w,attr"`
	Abstract []wAbstractNum `xml:"w:abstractNum"`
	Nums     []wNum         `xml:"w:num"`
}

type wAbstractNum struct {
	ID             int    `xml:"w:abstractNumId,attr"`
	MultiLevelType wVal   `xml:"w:multiLevelType"`
	Name           wVal   `xml:"w:name"`
	Levels         []wLvl `xml:"w:lvl"`
}

type wLvl struct {
	ILvl    int             `xml:"w:ilvl,attr"`
	Start   wVal            `xml:"w:start"`
	NumFmt  wVal            `xml:"w:numFmt"`
	LvlText wVal            `xml:"w:lvlText"`
	LvlJc   wVal            `xml:"w:lvlJc"`
	PPr     wParagraphProps `xml:"w:pPr"`
}

type wNum struct {
	ID          int           `xml:"w:numId,attr"`
	AbstractNum wVal          `xml:"w:abstractNumId"`
	Override    *wLvlOverride `xml:"w:lvlOverride"`
}

type wLvlOverride struct {
	ILvl          int  `xml:"w:ilvl,attr"`
	StartOverride wVal `xml:"w:startOverride"`
}

// Package-level parts. These use default namespaces like the files Word
// itself writes.

type ctTypes struct {
	XMLName   xml.Name     `xml:"Types"`
	Namespace string       `xml:"xmlns,attr"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type pkgRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Namespace     string            `xml:"xmlns,attr"`
	Relationships []pkgRelationship `xml:"Relationship"`
}

type pkgRelationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type cpCoreProperties struct {
	XMLName    xml.Name `xml:"cp:coreProperties"`
	NSCP       string   `xml:"xmlns:cp,attr"`
	NSDC       string   `xml:"xmlns:dc,attr"`
	NSDCTerms  string   `xml:"xmlns:dcterms,attr"`
	Title      string   `xml:"dc:title,omitempty"`
	Subject    string   `xml:"dc:subject,omitempty"`
	Creator    string   `xml:"dc:creator,omitempty"`
	Keywords   string   `xml:"cp:keywords,omitempty"`
	Identifier string   `xml:"dc:identifier,omitempty"`
	Language   string   `xml:"dc:language,omitempty"`
}

type appProperties struct {
	XMLName     xml.Name `xml:"Properties"`
	Namespace   string   `xml:"xmlns,attr"`
	Application string   `xml:"Application"`
}
