// Package htmldoc converts inline HTML markup into formatted runs.
//
// Only inline formatting is interpreted: <b>/<strong> set bold, <i>/<em> set
// italic, <span style="color:..."> and <font color="..."> set the run
// color, and <br> becomes a newline. Other tags are transparent and their
// text is kept.
package htmldoc

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/sysdoc/model"
)

// runContext is the formatting in effect at a node.
type runContext struct {
	bold   bool
	italic bool
	color  model.Color
}

type runParser struct {
	runs []model.Run
}

// ParseRuns parses an inline HTML fragment into runs in document order.
// Adjacent runs with the same formatting are merged and whitespace is
// collapsed the way a browser renders it.
func ParseRuns(fragment string) ([]model.Run, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parsing fragment: %w", err)
	}

	p := &runParser{runs: make([]model.Run, 0)}
	for _, n := range nodes {
		if err := p.traverseNode(n, runContext{}); err != nil {
			return nil, err
		}
	}
	return p.runs, nil
}

// MustParseRuns is like ParseRuns but panics on error. It is meant for
// markup literals.
func MustParseRuns(fragment string) []model.Run {
	runs, err := ParseRuns(fragment)
	if err != nil {
		panic(err)
	}
	return runs
}

func (p *runParser) traverseNode(n *html.Node, ctx runContext) error {
	switch n.Type {
	case html.TextNode:
		p.add(collapseSpace(n.Data), ctx)
		return nil
	case html.ElementNode:
		if shouldSkipElement(n.Data) {
			return nil
		}
		var err error
		if ctx, err = applyElement(n, ctx); err != nil {
			return err
		}
		if n.Data == "br" {
			p.add("\n", ctx)
			return nil
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := p.traverseNode(c, ctx); err != nil {
			return err
		}
	}
	return nil
}

// add appends text, merging it into the previous run when the formatting
// matches.
func (p *runParser) add(text string, ctx runContext) {
	if text == "" {
		return
	}
	run := model.Run{Text: text, Bold: ctx.bold, Italic: ctx.italic, Color: ctx.color}
	if last := len(p.runs) - 1; last >= 0 && p.runs[last].SameFormat(run) {
		p.runs[last].Text += text
		return
	}
	p.runs = append(p.runs, run)
}

// applyElement returns the formatting in effect inside n.
func applyElement(n *html.Node, ctx runContext) (runContext, error) {
	switch n.Data {
	case "b", "strong":
		ctx.bold = true
	case "i", "em":
		ctx.italic = true
	case "font":
		if v, ok := attr(n, "color"); ok {
			c, err := model.ParseColor(v)
			if err != nil {
				return ctx, fmt.Errorf("htmldoc: <font color>: %w", err)
			}
			ctx.color = c
		}
	}

	if style, ok := attr(n, "style"); ok {
		for _, decl := range strings.Split(style, ";") {
			prop, val, found := strings.Cut(decl, ":")
			if !found {
				continue
			}
			val = strings.ToLower(strings.TrimSpace(val))
			switch strings.ToLower(strings.TrimSpace(prop)) {
			case "color":
				c, err := model.ParseColor(val)
				if err != nil {
					return ctx, fmt.Errorf("htmldoc: <%s style>: %w", n.Data, err)
				}
				ctx.color = c
			case "font-weight":
				ctx.bold = boldWeight(val)
			case "font-style":
				ctx.italic = val == "italic" || val == "oblique"
			}
		}
	}
	return ctx, nil
}

// boldWeight reports whether a CSS font-weight value renders bold.
func boldWeight(val string) bool {
	switch val {
	case "bold", "bolder":
		return true
	}
	w, err := strconv.Atoi(val)
	return err == nil && w >= 600 && w <= 1000
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// shouldSkipElement returns true if the element's content is not text.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed":
		return true
	}
	return false
}

// collapseSpace replaces each run of HTML whitespace with a single space.
func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				sb.WriteByte(' ')
			}
			space = true
		default:
			sb.WriteRune(r)
			space = false
		}
	}
	return sb.String()
}
