package docx

import "encoding/xml"

// XML namespaces used in DOCX files
const (
	nsW  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDC = "http://purl.org/dc/elements/1.1/"
	nsCP = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
)

// The *XML types below are the unmarshal side. They match on local names,
// so they read packages written by this package and by word processors.

// paragraphXML represents a paragraph element (<w:p>).
type paragraphXML struct {
	XMLName    xml.Name          `xml:"p"`
	Properties paragraphPropsXML `xml:"pPr"`
	Runs       []runXML          `xml:"r"`
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style         styleRefXML       `xml:"pStyle"`
	NumPr         numberingPropsXML `xml:"numPr"`
	Justification styleRefXML       `xml:"jc"`
	OutlineLvl    styleRefXML       `xml:"outlineLvl"`
}

// styleRefXML represents any element carrying a single w:val attribute.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// numberingPropsXML represents numbering properties for lists.
type numberingPropsXML struct {
	ILvl  styleRefXML `xml:"ilvl"`
	NumID styleRefXML `xml:"numId"`
}

// runXML represents a text run (<w:r>).
type runXML struct {
	XMLName    xml.Name     `xml:"r"`
	Properties runPropsXML  `xml:"rPr"`
	Content    []runItemXML `xml:",any"`
}

// runItemXML is one child of a run; only w:t, w:tab and w:br carry text.
type runItemXML struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Value   string `xml:",chardata"`
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Bold     boolXML     `xml:"b"`
	Italic   boolXML     `xml:"i"`
	FontSize styleRefXML `xml:"sz"`
	Font     fontXML     `xml:"rFonts"`
	Color    styleRefXML `xml:"color"`
}

// boolXML represents an on/off element.
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

// fontXML represents font settings.
type fontXML struct {
	ASCII string `xml:"ascii,attr"`
	HAnsi string `xml:"hAnsi,attr"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	XMLName    xml.Name      `xml:"tbl"`
	Properties tablePropsXML `xml:"tblPr"`
	Grid       tableGridXML  `xml:"tblGrid"`
	Rows       []tableRowXML `xml:"tr"`
}

// tablePropsXML represents table properties.
type tablePropsXML struct {
	Style   styleRefXML     `xml:"tblStyle"`
	Borders tableBordersXML `xml:"tblBorders"`
}

// tableBordersXML represents table borders.
type tableBordersXML struct {
	Top     styleRefXML `xml:"top"`
	Bottom  styleRefXML `xml:"bottom"`
	Left    styleRefXML `xml:"left"`
	Right   styleRefXML `xml:"right"`
	InsideH styleRefXML `xml:"insideH"`
	InsideV styleRefXML `xml:"insideV"`
}

// tableGridXML represents table grid definition.
type tableGridXML struct {
	Cols []struct {
		W string `xml:"w,attr"` // Width in twips
	} `xml:"gridCol"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Properties struct {
		Header boolXML `xml:"tblHeader"`
	} `xml:"trPr"`
	Cells []tableCellXML `xml:"tc"`
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}
