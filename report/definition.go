// Package report loads report definitions written in HCL and builds them
// into a model.Document.
//
// A definition lists metadata, a default style, named styles and the
// content blocks of the report. Content blocks are applied in the order
// they appear in the file:
//
//	output = "handbook.docx"
//
//	metadata {
//	  title    = "Handbook"
//	  language = "en-US"
//	}
//
//	default_style {
//	  font = "Calibri"
//	  size = 11
//	}
//
//	locals {
//	  columns = ["Name", "Purpose"]
//	}
//
//	heading {
//	  text  = "Handbook"
//	  level = 0
//	}
//
//	paragraph { markup = "<b>Scope:</b> internal" }
//	list_item { text = "Read this first" }
//
//	table {
//	  style   = "Table Grid"
//	  headers = local.columns
//	  rows    = [["a", "b"]]
//	}
//
//	style "Table Grid" {
//	  type = "table"
//	  grid = true
//	}
//
// Expressions may reference local.<name> and call upper, lower, join,
// format, concat and length.
package report

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/tsawler/sysdoc/format"
	"github.com/tsawler/sysdoc/model"
)

// ErrDefinition is matched by every error caused by the content of a
// definition file: syntax errors, unknown blocks, bad values.
var ErrDefinition = errors.New("report: invalid definition")

// DefaultListStyle is used by list_item blocks that name no style.
const DefaultListStyle = "List Number"

// Fallback default style when a definition has no default_style block.
const (
	DefaultFont = "Calibri"
	DefaultSize = 11
)

//go:embed medical_system.hcl
var embedded []byte

// EmbeddedName is the file name reported for the built-in definition.
const EmbeddedName = "medical_system.hcl"

// Definition is a parsed report definition.
type Definition struct {
	Output   string
	Metadata model.Metadata
	Default  model.StyleDef
	Styles   []model.StyleDef // in file order; Name is set
	Blocks   []BlockDef

	filename string
}

// BlockDef is one content block.
type BlockDef struct {
	Kind        model.BlockKind
	Text        string
	Markup      string // inline HTML; takes the place of Text when set
	Level       int    // headings
	Style       string
	Headers     []string
	Rows        [][]string
	BoldHeaders bool
	Range       hcl.Range
}

// Filename returns the name the definition was parsed from.
func (d *Definition) Filename() string { return d.filename }

var rootSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "output"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "metadata"},
		{Type: "default_style"},
		{Type: "locals"},
		{Type: "style", LabelNames: []string{"name"}},
		{Type: "heading"},
		{Type: "paragraph"},
		{Type: "list_item"},
		{Type: "table"},
	},
}

type hclMetadata struct {
	Title    string   `hcl:"title,optional"`
	Subject  string   `hcl:"subject,optional"`
	Creator  string   `hcl:"creator,optional"`
	Keywords []string `hcl:"keywords,optional"`
	Language string   `hcl:"language,optional"`
}

type hclDefaultStyle struct {
	Font  string  `hcl:"font"`
	Size  float64 `hcl:"size"`
	Color string  `hcl:"color,optional"`
}

type hclStyle struct {
	Type    string  `hcl:"type,optional"`
	Align   string  `hcl:"align,optional"`
	Font    string  `hcl:"font,optional"`
	Size    float64 `hcl:"size,optional"`
	Bold    bool    `hcl:"bold,optional"`
	Italic  bool    `hcl:"italic,optional"`
	Color   string  `hcl:"color,optional"`
	Grid    bool    `hcl:"grid,optional"`
	BasedOn string  `hcl:"based_on,optional"`
}

type hclHeading struct {
	Text   *string `hcl:"text,optional"`
	Markup *string `hcl:"markup,optional"`
	Level  *int    `hcl:"level,optional"`
}

type hclParagraph struct {
	Text   *string `hcl:"text,optional"`
	Markup *string `hcl:"markup,optional"`
	Style  string  `hcl:"style,optional"`
}

type hclTable struct {
	Headers     []string   `hcl:"headers"`
	Rows        [][]string `hcl:"rows,optional"`
	Style       string     `hcl:"style,optional"`
	BoldHeaders bool       `hcl:"bold_headers,optional"`
}

var functions = map[string]function.Function{
	"upper":  stdlib.UpperFunc,
	"lower":  stdlib.LowerFunc,
	"join":   stdlib.JoinFunc,
	"format": stdlib.FormatFunc,
	"concat": stdlib.ConcatFunc,
	"length": stdlib.LengthFunc,
}

// Default returns the built-in system documentation report.
func Default() (*Definition, error) {
	return Parse(embedded, EmbeddedName)
}

// Load reads and parses a definition file. The file must have the .hcl
// extension.
func Load(path string) (*Definition, error) {
	if f := format.Detect(path); f != format.HCL {
		return nil, fmt.Errorf("%w: %s is not an %s file", ErrDefinition, path, format.HCL.Extension())
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading definition: %w", model.ErrIO, err)
	}
	return Parse(src, path)
}

// Parse parses definition source. filename is used in diagnostics.
func Parse(src []byte, filename string) (*Definition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, definitionError(diags)
	}

	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, definitionError(diags)
	}

	ctx, diags := evalLocals(content.Blocks)
	if diags.HasErrors() {
		return nil, definitionError(diags)
	}

	def := &Definition{
		Metadata: model.Metadata{Language: "vi-VN"},
		Default:  model.StyleDef{Font: DefaultFont, Size: DefaultSize},
		Blocks:   make([]BlockDef, 0, len(content.Blocks)),
		filename: filename,
	}

	if attr, ok := content.Attributes["output"]; ok {
		diags = gohcl.DecodeExpression(attr.Expr, ctx, &def.Output)
		if diags.HasErrors() {
			return nil, definitionError(diags)
		}
	}
	if def.Output == "" {
		def.Output = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + format.DOCX.Extension()
	}

	seen := make(map[string]*hcl.Block)
	styles := make(map[string]hcl.Range)
	for _, block := range content.Blocks {
		switch block.Type {
		case "locals":
			continue
		case "metadata", "default_style":
			if prev, dup := seen[block.Type]; dup {
				return nil, fmt.Errorf("%w: %s: duplicate %s block, first declared at %s",
					ErrDefinition, block.DefRange, block.Type, prev.DefRange)
			}
			seen[block.Type] = block
		}

		if err := def.decodeBlock(block, ctx, styles); err != nil {
			return nil, err
		}
	}
	return def, nil
}

func (d *Definition) decodeBlock(block *hcl.Block, ctx *hcl.EvalContext, styles map[string]hcl.Range) error {
	switch block.Type {
	case "metadata":
		var m hclMetadata
		if diags := gohcl.DecodeBody(block.Body, ctx, &m); diags.HasErrors() {
			return definitionError(diags)
		}
		d.Metadata.Title = m.Title
		d.Metadata.Subject = m.Subject
		d.Metadata.Creator = m.Creator
		d.Metadata.Keywords = m.Keywords
		if m.Language != "" {
			d.Metadata.Language = m.Language
		}

	case "default_style":
		var s hclDefaultStyle
		if diags := gohcl.DecodeBody(block.Body, ctx, &s); diags.HasErrors() {
			return definitionError(diags)
		}
		color, err := model.ParseColor(s.Color)
		if err != nil {
			return blockError(block.DefRange, err)
		}
		d.Default = model.StyleDef{Name: model.DefaultStyle, Font: s.Font, Size: s.Size, Color: color}

	case "style":
		name := block.Labels[0]
		if prev, dup := styles[name]; dup {
			return fmt.Errorf("%w: %s: style %q already declared at %s", ErrDefinition, block.DefRange, name, prev)
		}
		styles[name] = block.DefRange
		var s hclStyle
		if diags := gohcl.DecodeBody(block.Body, ctx, &s); diags.HasErrors() {
			return definitionError(diags)
		}
		sd, err := s.styleDef(name)
		if err != nil {
			return blockError(block.DefRange, err)
		}
		d.Styles = append(d.Styles, sd)

	case "heading":
		var h hclHeading
		if diags := gohcl.DecodeBody(block.Body, ctx, &h); diags.HasErrors() {
			return definitionError(diags)
		}
		text, markup, err := textOrMarkup(h.Text, h.Markup)
		if err != nil {
			return blockError(block.DefRange, err)
		}
		level := 1
		if h.Level != nil {
			level = *h.Level
		}
		d.Blocks = append(d.Blocks, BlockDef{
			Kind: model.KindHeading, Text: text, Markup: markup, Level: level, Range: block.DefRange,
		})

	case "paragraph", "list_item":
		var p hclParagraph
		if diags := gohcl.DecodeBody(block.Body, ctx, &p); diags.HasErrors() {
			return definitionError(diags)
		}
		text, markup, err := textOrMarkup(p.Text, p.Markup)
		if err != nil {
			return blockError(block.DefRange, err)
		}
		b := BlockDef{Kind: model.KindParagraph, Text: text, Markup: markup, Style: p.Style, Range: block.DefRange}
		if block.Type == "list_item" {
			b.Kind = model.KindListItem
			if b.Style == "" {
				b.Style = DefaultListStyle
			}
		}
		d.Blocks = append(d.Blocks, b)

	case "table":
		var t hclTable
		if diags := gohcl.DecodeBody(block.Body, ctx, &t); diags.HasErrors() {
			return definitionError(diags)
		}
		d.Blocks = append(d.Blocks, BlockDef{
			Kind:        model.KindTable,
			Style:       t.Style,
			Headers:     t.Headers,
			Rows:        t.Rows,
			BoldHeaders: t.BoldHeaders,
			Range:       block.DefRange,
		})
	}
	return nil
}

func (s hclStyle) styleDef(name string) (model.StyleDef, error) {
	typ, err := model.ParseStyleType(s.Type)
	if err != nil {
		return model.StyleDef{}, err
	}
	align, err := model.ParseAlignment(s.Align)
	if err != nil {
		return model.StyleDef{}, err
	}
	color, err := model.ParseColor(s.Color)
	if err != nil {
		return model.StyleDef{}, err
	}
	if s.Size < 0 {
		return model.StyleDef{}, fmt.Errorf("%w: style %q has negative size", model.ErrConfiguration, name)
	}
	return model.StyleDef{
		Name:      name,
		Type:      typ,
		Font:      s.Font,
		Size:      s.Size,
		Bold:      s.Bold,
		Italic:    s.Italic,
		Alignment: align,
		Color:     color,
		Grid:      s.Grid,
		BasedOn:   s.BasedOn,
	}, nil
}

func textOrMarkup(text, markup *string) (string, string, error) {
	switch {
	case text != nil && markup != nil:
		return "", "", errors.New("text and markup are mutually exclusive")
	case markup != nil:
		return "", *markup, nil
	case text != nil:
		return *text, "", nil
	}
	return "", "", errors.New("one of text or markup is required")
}

// evalLocals evaluates every locals attribute and returns the context that
// the rest of the file is decoded with. Locals may reference each other in
// any order; a reference cycle is an error.
func evalLocals(blocks hcl.Blocks) (*hcl.EvalContext, hcl.Diagnostics) {
	attrs := make(map[string]*hcl.Attribute)
	for _, block := range blocks.OfType("locals") {
		battrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, diags
		}
		for name, attr := range battrs {
			if prev, dup := attrs[name]; dup {
				return nil, hcl.Diagnostics{{
					Severity: hcl.DiagError,
					Summary:  "Duplicate local value",
					Detail:   fmt.Sprintf("Local %q was already defined at %s.", name, prev.NameRange),
					Subject:  attr.NameRange.Ptr(),
				}}
			}
			attrs[name] = attr
		}
	}

	pending := make([]string, 0, len(attrs))
	for name := range attrs {
		pending = append(pending, name)
	}
	sort.Strings(pending)

	values := make(map[string]cty.Value, len(attrs))
	for len(pending) > 0 {
		var next []string
		for _, name := range pending {
			attr := attrs[name]
			if !localsReady(attr.Expr, attrs, values) {
				next = append(next, name)
				continue
			}
			v, diags := attr.Expr.Value(evalContext(values))
			if diags.HasErrors() {
				return nil, diags
			}
			values[name] = v
		}
		if len(next) == len(pending) {
			first := attrs[next[0]]
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Local value cycle",
				Detail:   fmt.Sprintf("Locals %s reference each other.", strings.Join(next, ", ")),
				Subject:  first.NameRange.Ptr(),
			}}
		}
		pending = next
	}
	return evalContext(values), nil
}

// localsReady reports whether every local that expr references has a value.
// References to undeclared locals count as ready so that evaluation reports
// them.
func localsReady(expr hcl.Expression, attrs map[string]*hcl.Attribute, values map[string]cty.Value) bool {
	for _, tr := range expr.Variables() {
		if tr.RootName() != "local" || len(tr) < 2 {
			continue
		}
		step, ok := tr[1].(hcl.TraverseAttr)
		if !ok {
			continue
		}
		if _, declared := attrs[step.Name]; !declared {
			continue
		}
		if _, done := values[step.Name]; !done {
			return false
		}
	}
	return true
}

func evalContext(values map[string]cty.Value) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"local": cty.ObjectVal(values)},
		Functions: functions,
	}
}

func definitionError(diags hcl.Diagnostics) error {
	return fmt.Errorf("%w: %s", ErrDefinition, diags.Error())
}

func blockError(rng hcl.Range, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDefinition, rng, err)
}
