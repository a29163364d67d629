package docx

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/tsawler/sysdoc/model"
)

// styleSet is the resolved view of a document's styles used while writing:
// every style that appears in styles.xml together with its style ID.
type styleSet struct {
	defs []model.StyleDef // Normal first, then by style ID
	ids  map[string]string
}

// newStyleSet collects the registered styles plus the implicit heading
// styles the document uses, and assigns each a unique style ID.
func newStyleSet(doc *model.Document) *styleSet {
	reg := doc.Styles()

	byName := make(map[string]model.StyleDef)
	for _, name := range reg.Names() {
		def, _ := reg.Lookup(name)
		byName[name] = def
	}
	for _, b := range doc.Blocks() {
		if h, ok := b.(*model.Heading); ok {
			name := h.StyleName()
			if _, ok := byName[name]; !ok {
				byName[name] = model.BuiltinHeading(h.Level)
			}
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	ss := &styleSet{ids: make(map[string]string, len(names))}
	used := map[string]bool{model.DefaultStyle: true}
	ss.ids[model.DefaultStyle] = model.DefaultStyle
	// Title and HeadingN belong to the heading styles; readers fall back
	// to them when a style has no name.
	for level := 0; level <= model.MaxHeadingLevel; level++ {
		used[styleID(model.HeadingStyleName(level))] = true
	}
	for _, name := range names {
		if name == model.DefaultStyle {
			continue
		}
		if headingLevel(name) >= 0 {
			ss.ids[name] = styleID(name)
			continue
		}
		base := styleID(name)
		id := base
		for n := 2; used[id]; n++ {
			id = base + strconv.Itoa(n)
		}
		used[id] = true
		ss.ids[name] = id
	}

	ss.defs = append(ss.defs, byName[model.DefaultStyle])
	rest := make([]model.StyleDef, 0, len(names))
	for _, name := range names {
		if name != model.DefaultStyle {
			rest = append(rest, byName[name])
		}
	}
	sort.Slice(rest, func(i, j int) bool { return ss.ids[rest[i].Name] < ss.ids[rest[j].Name] })
	ss.defs = append(ss.defs, rest...)
	return ss
}

// ID returns the style ID for a style name. Empty and unknown names map to
// the default style.
func (ss *styleSet) ID(name string) string {
	if id, ok := ss.ids[name]; ok {
		return id
	}
	return model.DefaultStyle
}

// styleID derives a style ID from a name by keeping letters and digits.
func styleID(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "Style"
	}
	return sb.String()
}

// halfPoints converts a point size to the half-point units of w:sz.
func halfPoints(size float64) string {
	return strconv.Itoa(int(math.Round(size * 2)))
}

func jcValue(a model.TextAlignment) string {
	switch a {
	case model.AlignCenter:
		return "center"
	case model.AlignRight:
		return "right"
	case model.AlignJustify:
		return "both"
	default:
		return "left"
	}
}

func parseJc(val string) model.TextAlignment {
	switch val {
	case "center":
		return model.AlignCenter
	case "right", "end":
		return model.AlignRight
	case "both", "distribute":
		return model.AlignJustify
	default:
		return model.AlignLeft
	}
}

// headingLevel returns the heading level of a style name, or -1.
func headingLevel(name string) int {
	if name == model.TitleStyle {
		return 0
	}
	for level := 1; level <= model.MaxHeadingLevel; level++ {
		if name == model.HeadingStyleName(level) {
			return level
		}
	}
	return -1
}

// runProps builds the w:rPr of a style definition.
func styleRunProps(def model.StyleDef) *wRunProps {
	rp := &wRunProps{}
	empty := true
	if def.Font != "" {
		rp.Fonts = &wFonts{ASCII: def.Font, HAnsi: def.Font, EastAsia: def.Font, CS: def.Font}
		empty = false
	}
	if def.Bold {
		rp.Bold = &wOnOff{}
		rp.BoldCS = &wOnOff{}
		empty = false
	}
	if def.Italic {
		rp.Italic = &wOnOff{}
		empty = false
	}
	if def.Color.IsSet() {
		rp.Color = &wVal{Val: def.Color.Hex()}
		empty = false
	}
	if def.Size > 0 {
		rp.Size = &wVal{Val: halfPoints(def.Size)}
		rp.SizeCS = &wVal{Val: halfPoints(def.Size)}
		empty = false
	}
	if empty {
		return nil
	}
	return rp
}

// buildStyles renders styles.xml.
func buildStyles(ss *styleSet, lang string) wStyles {
	normal := ss.defs[0]

	defaults := wDocDefaults{
		RPr: wRunProps{
			Fonts:  &wFonts{ASCII: normal.Font, HAnsi: normal.Font, EastAsia: normal.Font, CS: normal.Font},
			Size:   &wVal{Val: halfPoints(normal.Size)},
			SizeCS: &wVal{Val: halfPoints(normal.Size)},
		},
		PPr: wParagraphProps{Spacing: &wSpacing{After: "120"}},
	}
	if lang != "" {
		defaults.RPr.Lang = &wVal{Val: lang}
	}

	out := wStyles{NSW: nsW, Defaults: defaults}
	for i, def := range ss.defs {
		out.Styles = append(out.Styles, ss.styleDef(def, i == 0))
	}
	return out
}

func (ss *styleSet) styleDef(def model.StyleDef, isDefault bool) wStyleDef {
	sd := wStyleDef{
		Type:    "paragraph",
		StyleID: ss.ID(def.Name),
		Name:    wVal{Val: def.Name},
		QFormat: &wOnOff{},
		RPr:     styleRunProps(def),
	}
	if isDefault {
		sd.Default = "1"
	} else {
		base := def.BasedOn
		if base == "" {
			base = model.DefaultStyle
		}
		sd.BasedOn = &wVal{Val: ss.ID(base)}
	}

	switch def.Type {
	case model.StyleTable:
		sd.Type = "table"
		sd.QFormat = nil
		if def.BasedOn == "" {
			sd.BasedOn = nil
		}
		tp := &wTableProps{Width: wWidth{Type: "auto"}}
		if def.Grid {
			tp.Borders = gridBorders()
		}
		sd.TblPr = tp
		return sd
	case model.StyleList:
		sd.PPr = &wParagraphProps{
			Ind: &wIndent{Left: "720", Hanging: "360"},
		}
	}

	if level := headingLevel(def.Name); level >= 0 {
		sd.Next = &wVal{Val: model.DefaultStyle}
		pp := &wParagraphProps{
			KeepNext: &wOnOff{},
			Spacing:  &wSpacing{Before: "240", After: "120"},
		}
		if level > 0 {
			pp.OutlineLvl = &wVal{Val: strconv.Itoa(level - 1)}
		}
		sd.PPr = pp
	}

	if def.Alignment != model.AlignLeft {
		if sd.PPr == nil {
			sd.PPr = &wParagraphProps{}
		}
		sd.PPr.Jc = &wVal{Val: jcValue(def.Alignment)}
	}
	return sd
}

func gridBorders() *wTableBorders {
	b := wBorder{Val: "single", Sz: 4, Space: 0, Color: "auto"}
	return &wTableBorders{Top: b, Left: b, Bottom: b, Right: b, InsideH: b, InsideV: b}
}

// StyleInfo describes a style read back from styles.xml. Inherited values
// are resolved along the basedOn chain.
type StyleInfo struct {
	ID        string
	Name      string
	Type      string // paragraph, table, numbering, character
	BasedOn   string // style ID
	Default   bool
	Font      string
	Size      float64 // points
	Bold      bool
	Italic    bool
	Color     string // hex or empty
	Alignment model.TextAlignment
	Grid      bool
}

// StyleResolver resolves style definitions read from styles.xml.
type StyleResolver struct {
	styles   map[string]*styleDefXML
	order    []string
	resolved map[string]*StyleInfo
	font     string
	size     float64
}

// NewStyleResolver creates a resolver from parsed styles.
func NewStyleResolver(styles *stylesXML) *StyleResolver {
	sr := &StyleResolver{
		styles:   make(map[string]*styleDefXML),
		resolved: make(map[string]*StyleInfo),
		font:     "Calibri", // Word default
		size:     11,
	}
	if styles == nil {
		return sr
	}

	for i := range styles.Styles {
		style := &styles.Styles[i]
		sr.styles[style.StyleID] = style
		sr.order = append(sr.order, style.StyleID)
	}

	rpr := styles.DocDefaults.RPrDefault.RPr
	if rpr.Font.ASCII != "" {
		sr.font = rpr.Font.ASCII
	}
	if size := parseHalfPoints(rpr.FontSize.Val); size > 0 {
		sr.size = size
	}
	return sr
}

// Resolve returns the resolved style for a style ID, or nil when the ID is
// not defined.
func (sr *StyleResolver) Resolve(id string) *StyleInfo {
	if info, ok := sr.resolved[id]; ok {
		return info
	}
	def, ok := sr.styles[id]
	if !ok {
		return nil
	}

	info := &StyleInfo{Font: sr.font, Size: sr.size}
	for _, sid := range sr.chain(id) {
		sr.apply(info, sr.styles[sid])
	}
	info.ID = def.StyleID
	info.Name = def.Name.Val
	info.Type = def.Type
	info.BasedOn = def.BasedOn.Val
	info.Default = def.Default == "1"

	sr.resolved[id] = info
	return info
}

// All returns every style in file order.
func (sr *StyleResolver) All() []StyleInfo {
	out := make([]StyleInfo, 0, len(sr.order))
	for _, id := range sr.order {
		out = append(out, *sr.Resolve(id))
	}
	return out
}

// NameOf returns the display name of a style ID, or the ID itself.
func (sr *StyleResolver) NameOf(id string) string {
	if def, ok := sr.styles[id]; ok && def.Name.Val != "" {
		return def.Name.Val
	}
	return id
}

// chain returns the basedOn chain from the root ancestor to id.
func (sr *StyleResolver) chain(id string) []string {
	var chain []string
	seen := make(map[string]bool)
	for cur := id; cur != "" && !seen[cur]; {
		def, ok := sr.styles[cur]
		if !ok {
			break
		}
		seen[cur] = true
		chain = append([]string{cur}, chain...)
		cur = def.BasedOn.Val
	}
	return chain
}

func (sr *StyleResolver) apply(info *StyleInfo, def *styleDefXML) {
	if def.RPr.Font.ASCII != "" {
		info.Font = def.RPr.Font.ASCII
	}
	if size := parseHalfPoints(def.RPr.FontSize.Val); size > 0 {
		info.Size = size
	}
	if isOn(def.RPr.Bold) {
		info.Bold = true
	}
	if isOn(def.RPr.Italic) {
		info.Italic = true
	}
	if def.RPr.Color.Val != "" && def.RPr.Color.Val != "auto" {
		info.Color = def.RPr.Color.Val
	}
	if def.PPr.Justification.Val != "" {
		info.Alignment = parseJc(def.PPr.Justification.Val)
	}
	if def.TblPr.Borders.InsideH.Val == "single" && def.TblPr.Borders.InsideV.Val == "single" {
		info.Grid = true
	}
}

// parseHalfPoints converts a half-point value to points.
func parseHalfPoints(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / 2
}

// isOn reports whether an on/off element is present and not switched off.
func isOn(b boolXML) bool {
	if b.XMLName.Local == "" {
		return false
	}
	switch b.Val {
	case "false", "0", "off":
		return false
	}
	return true
}
