package model

import (
	"fmt"
	"strings"

	"golang.org/x/image/colornames"
)

// BlockKind represents the type of a top-level block
type BlockKind int

const (
	KindHeading BlockKind = iota
	KindParagraph
	KindListItem
	KindTable
)

func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "Heading"
	case KindParagraph:
		return "Paragraph"
	case KindListItem:
		return "ListItem"
	case KindTable:
		return "Table"
	default:
		return "Unknown"
	}
}

// Block is a top-level content unit. The set of implementations is closed:
// *Heading, *Paragraph, *ListItem and *Table.
type Block interface {
	Kind() BlockKind
	GetText() string
	block()
}

// Heading represents a heading. Level 0 is the document title.
type Heading struct {
	Level int // 0-9
	Runs  []Run
}

func (h *Heading) Kind() BlockKind { return KindHeading }
func (h *Heading) GetText() string { return runsText(h.Runs) }
func (h *Heading) block()          {}

// StyleName returns the style a heading at this level resolves to.
func (h *Heading) StyleName() string {
	return HeadingStyleName(h.Level)
}

// HeadingStyleName returns "Title" for level 0 and "Heading N" otherwise.
func HeadingStyleName(level int) string {
	if level == 0 {
		return TitleStyle
	}
	return fmt.Sprintf("Heading %d", level)
}

// Paragraph represents a paragraph of formatted runs. An empty Style means
// the default style.
type Paragraph struct {
	Style string
	Runs  []Run
}

func (p *Paragraph) Kind() BlockKind { return KindParagraph }
func (p *Paragraph) GetText() string { return runsText(p.Runs) }
func (p *Paragraph) block()          {}

// ListItem represents one entry of a numbered list. Items are numbered by
// sequence, see the docx package.
type ListItem struct {
	ListStyle string
	Runs      []Run
}

func (l *ListItem) Kind() BlockKind { return KindListItem }
func (l *ListItem) GetText() string { return runsText(l.Runs) }
func (l *ListItem) block()          {}

// Run is a contiguous span of text with explicit formatting. Runs are values;
// a block holds its own copies.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Color  Color
}

// Text returns a plain run.
func Text(s string) Run { return Run{Text: s} }

// Bold returns a bold run.
func Bold(s string) Run { return Run{Text: s, Bold: true} }

// Italic returns an italic run.
func Italic(s string) Run { return Run{Text: s, Italic: true} }

// WithColor returns a copy of r with the color override set to c.
func (r Run) WithColor(c Color) Run {
	r.Color = c
	return r
}

// SameFormat reports whether two runs carry identical formatting.
func (r Run) SameFormat(o Run) bool {
	return r.Bold == o.Bold && r.Italic == o.Italic && r.Color == o.Color
}

func runsText(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Color is an RGB color override. The zero value is NoColor, which means the
// run inherits its color from the style.
type Color struct {
	R, G, B uint8
	set     bool
}

// NoColor is the explicit "no override" state.
var NoColor = Color{}

// RGB returns a color override.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, set: true}
}

// IsSet reports whether c overrides the inherited color.
func (c Color) IsSet() bool { return c.set }

// Hex returns the color as RRGGBB, or "auto" for NoColor.
func (c Color) Hex() string {
	if !c.set {
		return "auto"
	}
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string {
	if !c.set {
		return "none"
	}
	return "#" + c.Hex()
}

// ParseColor parses "#RRGGBB", "RRGGBB", "#RGB", a CSS color name, or one of
// "", "auto", "default", "none", "inherit" which all yield NoColor.
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "auto", "default", "none", "inherit":
		return NoColor, nil
	}
	if named, ok := colornames.Map[v]; ok {
		return RGB(named.R, named.G, named.B), nil
	}

	hex := strings.TrimPrefix(v, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return NoColor, fmt.Errorf("%w: color %q", ErrConfiguration, s)
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(hex[2*i])
		lo, ok2 := hexDigit(hex[2*i+1])
		if !ok1 || !ok2 {
			return NoColor, fmt.Errorf("%w: color %q", ErrConfiguration, s)
		}
		rgb[i] = hi<<4 | lo
	}
	return RGB(rgb[0], rgb[1], rgb[2]), nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
