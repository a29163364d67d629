package docx

import (
	"strconv"

	"github.com/tsawler/sysdoc/model"
)

// ListNumber is the visible number assigned to one list item.
type ListNumber struct {
	Block     int // index of the list item in the document
	ListStyle string
	Sequence  int // 0-based numbering sequence; w:numId is Sequence+1
	Value     int // 1-based number shown for the item
}

// numberingPlan assigns list items to numbering sequences. A sequence is a
// maximal run of consecutive list items that share a list style; any other
// block ends it and the next item starts again at 1.
type numberingPlan struct {
	abstract  []string       // list styles in order of first use
	absIndex  map[string]int // list style -> abstractNumId
	sequences []int          // sequence -> abstractNumId
	items     []ListNumber
	byBlock   map[int]ListNumber
}

func planNumbering(blocks []model.Block) *numberingPlan {
	plan := &numberingPlan{
		absIndex: make(map[string]int),
		byBlock:  make(map[int]ListNumber),
	}

	prevStyle := ""
	prevList := false
	value := 0
	for i, b := range blocks {
		item, ok := b.(*model.ListItem)
		if !ok {
			prevList = false
			continue
		}

		if _, seen := plan.absIndex[item.ListStyle]; !seen {
			plan.absIndex[item.ListStyle] = len(plan.abstract)
			plan.abstract = append(plan.abstract, item.ListStyle)
		}

		if !prevList || prevStyle != item.ListStyle {
			plan.sequences = append(plan.sequences, plan.absIndex[item.ListStyle])
			value = 0
		}
		value++

		n := ListNumber{
			Block:     i,
			ListStyle: item.ListStyle,
			Sequence:  len(plan.sequences) - 1,
			Value:     value,
		}
		plan.items = append(plan.items, n)
		plan.byBlock[i] = n

		prevList = true
		prevStyle = item.ListStyle
	}
	return plan
}

// Numbering returns the number each list item of doc is rendered with, in
// document order.
func Numbering(doc *model.Document) []ListNumber {
	return planNumbering(doc.Blocks()).items
}

func (p *numberingPlan) empty() bool {
	return len(p.items) == 0
}

// numID returns the w:numId of the sequence a block belongs to.
func (p *numberingPlan) numID(block int) int {
	return p.byBlock[block].Sequence + 1
}

// build renders numbering.xml. Every sequence gets its own w:num with a
// start override so numbering restarts per sequence.
func (p *numberingPlan) build() wNumbering {
	out := wNumbering{NSW: nsW}
	for id, style := range p.abstract {
		out.Abstract = append(out.Abstract, wAbstractNum{
			ID:             id,
			MultiLevelType: wVal{Val: "singleLevel"},
			Name:           wVal{Val: style},
			Levels: []wLvl{{
				ILvl:    0,
				Start:   wVal{Val: "1"},
				NumFmt:  wVal{Val: "decimal"},
				LvlText: wVal{Val: "%1."},
				LvlJc:   wVal{Val: "left"},
				PPr:     wParagraphProps{Ind: &wIndent{Left: "720", Hanging: "360"}},
			}},
		})
	}
	for seq, abs := range p.sequences {
		out.Nums = append(out.Nums, wNum{
			ID:          seq + 1,
			AbstractNum: wVal{Val: strconv.Itoa(abs)},
			Override: &wLvlOverride{
				ILvl:          0,
				StartOverride: wVal{Val: "1"},
			},
		})
	}
	return out
}

// NumberingResolver computes item numbers from a parsed numbering.xml.
type NumberingResolver struct {
	abstractNums map[string]*abstractNumXML // abstractNumId -> definition
	nums         map[string]numXML          // numId -> instance
	counters     map[string]int             // numId -> last number handed out
}

// NewNumberingResolver creates a resolver from parsed numbering.xml.
func NewNumberingResolver(numbering *numberingXML) *NumberingResolver {
	nr := &NumberingResolver{
		abstractNums: make(map[string]*abstractNumXML),
		nums:         make(map[string]numXML),
		counters:     make(map[string]int),
	}
	if numbering == nil {
		return nr
	}

	for i := range numbering.AbstractNums {
		an := &numbering.AbstractNums[i]
		nr.abstractNums[an.AbstractNumID] = an
	}
	for _, num := range numbering.Nums {
		nr.nums[num.NumID] = num
	}
	return nr
}

// Next returns the number of the next item of numId at level 0. Unknown
// numbering instances count from 1.
func (nr *NumberingResolver) Next(numID string) int {
	n, ok := nr.counters[numID]
	if !ok {
		n = nr.start(numID) - 1
	}
	n++
	nr.counters[numID] = n
	return n
}

// ListName returns the name of the abstract numbering behind numId.
func (nr *NumberingResolver) ListName(numID string) string {
	num, ok := nr.nums[numID]
	if !ok {
		return ""
	}
	if an, ok := nr.abstractNums[num.AbstractNumID.Val]; ok {
		return an.Name.Val
	}
	return ""
}

func (nr *NumberingResolver) start(numID string) int {
	num, ok := nr.nums[numID]
	if !ok {
		return 1
	}
	for _, o := range num.Overrides {
		if o.ILvl == "0" && o.StartOverride.Val != "" {
			if v, err := strconv.Atoi(o.StartOverride.Val); err == nil {
				return v
			}
		}
	}
	if an, ok := nr.abstractNums[num.AbstractNumID.Val]; ok {
		for _, lvl := range an.Levels {
			if lvl.ILvl == "0" && lvl.Start.Val != "" {
				if v, err := strconv.Atoi(lvl.Start.Val); err == nil {
					return v
				}
			}
		}
	}
	return 1
}
