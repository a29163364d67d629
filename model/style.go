package model

import (
	"fmt"
	"sort"
	"strings"
)

// Built-in style names.
const (
	DefaultStyle = "Normal"
	TitleStyle   = "Title"
)

// StyleType represents what a style applies to
type StyleType int

const (
	StyleParagraph StyleType = iota
	StyleTable
	StyleList
)

func (st StyleType) String() string {
	switch st {
	case StyleParagraph:
		return "paragraph"
	case StyleTable:
		return "table"
	case StyleList:
		return "list"
	default:
		return "unknown"
	}
}

// ParseStyleType parses "paragraph", "table" or "list". Empty means paragraph.
func ParseStyleType(s string) (StyleType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "paragraph":
		return StyleParagraph, nil
	case "table":
		return StyleTable, nil
	case "list", "numbering":
		return StyleList, nil
	}
	return StyleParagraph, fmt.Errorf("%w: style type %q", ErrConfiguration, s)
}

// TextAlignment represents paragraph alignment
type TextAlignment int

const (
	AlignLeft TextAlignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a TextAlignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// ParseAlignment parses left, center, right or justify. Empty means left.
func ParseAlignment(s string) (TextAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	case "justify", "both":
		return AlignJustify, nil
	}
	return AlignLeft, fmt.Errorf("%w: alignment %q", ErrConfiguration, s)
}

// StyleDef is a named formatting definition. Zero Font or Size means the
// value is inherited from the default style.
type StyleDef struct {
	Name      string
	Type      StyleType
	Font      string
	Size      float64 // points
	Bold      bool
	Italic    bool
	Alignment TextAlignment
	Color     Color
	Grid      bool   // table styles: draw single-line borders on every cell
	BasedOn   string // parent style name; empty means the default style
}

// validateDefault checks a definition used as the document default.
func (s StyleDef) validateDefault() error {
	if strings.TrimSpace(s.Font) == "" {
		return fmt.Errorf("%w: default style has no font name", ErrConfiguration)
	}
	if s.Size <= 0 {
		return fmt.Errorf("%w: default style size must be positive, got %v", ErrConfiguration, s.Size)
	}
	return nil
}

// Registry maps style names to definitions.
type Registry struct {
	styles map[string]StyleDef
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{styles: make(map[string]StyleDef)}
}

// Set registers def under name, replacing any previous definition.
func (r *Registry) Set(name string, def StyleDef) {
	def.Name = name
	r.styles[name] = def
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (StyleDef, bool) {
	def, ok := r.styles[name]
	return def, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.styles[name]
	return ok
}

// Len returns the number of registered styles.
func (r *Registry) Len() int {
	return len(r.styles)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.styles))
	for name := range r.styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the default paragraph style.
func (r *Registry) Default() StyleDef {
	return r.styles[DefaultStyle]
}

// Heading resolves the style for a heading level: a registered definition
// wins, otherwise a built-in derived from the default style.
func (r *Registry) Heading(level int) StyleDef {
	name := HeadingStyleName(level)
	if def, ok := r.styles[name]; ok {
		return def
	}
	return BuiltinHeading(level)
}

// BuiltinHeading returns the implicit definition of a heading style. Font and
// alignment are inherited from the default style.
func BuiltinHeading(level int) StyleDef {
	sizes := []float64{26, 14, 13, 11, 11, 11, 11, 11, 11, 11}
	size := 11.0
	if level >= 0 && level < len(sizes) {
		size = sizes[level]
	}
	return StyleDef{
		Name:   HeadingStyleName(level),
		Type:   StyleParagraph,
		Size:   size,
		Bold:   level > 0,
		Italic: level >= 4,
		Color:  RGB(0x1F, 0x3A, 0x5F),
	}
}
