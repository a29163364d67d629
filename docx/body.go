package docx

import (
	"strconv"
	"strings"

	"github.com/tsawler/sysdoc/model"
)

// bodyEncoder converts document blocks to body elements.
type bodyEncoder struct {
	styles *styleSet
	plan   *numberingPlan
}

// encodeBody renders every block in document order followed by the section
// properties.
func (e *bodyEncoder) encodeBody(blocks []model.Block) wBody {
	body := wBody{
		Content: make([]any, 0, len(blocks)),
		SectPr: wSectionProps{
			PgSz: wPageSize{W: pageWidth, H: pageHeight},
			PgMar: wPageMargins{
				Top: pageMargin, Right: pageMargin, Bottom: pageMargin, Left: pageMargin,
				Header: 720, Footer: 720,
			},
		},
	}

	for i, b := range blocks {
		switch v := b.(type) {
		case *model.Heading:
			body.Content = append(body.Content, e.encodeHeading(v))
		case *model.Paragraph:
			body.Content = append(body.Content, e.encodeParagraph(v))
		case *model.ListItem:
			body.Content = append(body.Content, e.encodeListItem(i, v))
		case *model.Table:
			body.Content = append(body.Content, e.encodeTable(v))
		}
	}
	return body
}

func (e *bodyEncoder) encodeHeading(h *model.Heading) *wParagraph {
	return &wParagraph{
		Props: &wParagraphProps{Style: &wVal{Val: e.styles.ID(h.StyleName())}},
		Runs:  encodeRuns(h.Runs),
	}
}

func (e *bodyEncoder) encodeParagraph(p *model.Paragraph) *wParagraph {
	para := &wParagraph{Runs: encodeRuns(p.Runs)}
	if p.Style != "" && p.Style != model.DefaultStyle {
		para.Props = &wParagraphProps{Style: &wVal{Val: e.styles.ID(p.Style)}}
	}
	return para
}

func (e *bodyEncoder) encodeListItem(block int, item *model.ListItem) *wParagraph {
	return &wParagraph{
		Props: &wParagraphProps{
			Style: &wVal{Val: e.styles.ID(item.ListStyle)},
			NumPr: &wNumPr{
				ILvl:  wVal{Val: "0"},
				NumID: wVal{Val: strconv.Itoa(e.plan.numID(block))},
			},
		},
		Runs: encodeRuns(item.Runs),
	}
}

// encodeRuns converts runs to w:r elements. Newlines inside a run become
// w:br so the text stays in one run.
func encodeRuns(runs []model.Run) []wRun {
	out := make([]wRun, 0, len(runs))
	for _, r := range runs {
		wr := wRun{Props: runProps(r)}
		for i, line := range strings.Split(r.Text, "\n") {
			if i > 0 {
				wr.Content = append(wr.Content, &wBreak{})
			}
			if line == "" && i > 0 {
				continue
			}
			t := &wText{Value: line}
			if line != strings.TrimSpace(line) {
				t.Space = "preserve"
			}
			wr.Content = append(wr.Content, t)
		}
		out = append(out, wr)
	}
	return out
}

// runProps returns the direct formatting of a run, or nil when the run
// only inherits from its paragraph style.
func runProps(r model.Run) *wRunProps {
	if !r.Bold && !r.Italic && !r.Color.IsSet() {
		return nil
	}
	rp := &wRunProps{}
	if r.Bold {
		rp.Bold = &wOnOff{}
		rp.BoldCS = &wOnOff{}
	}
	if r.Italic {
		rp.Italic = &wOnOff{}
	}
	if r.Color.IsSet() {
		rp.Color = &wVal{Val: r.Color.Hex()}
	}
	return rp
}
