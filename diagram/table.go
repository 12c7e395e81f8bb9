package diagram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"tracediag/trace"
)

const (
	svgNS = "http://www.w3.org/2000/svg"

	// label column width and cell offset, in characters
	labelChars = 10
	cellChars  = 12
)

// Table is rendered code listing together with variable state table.
type Table struct {
	Width  float64
	Height float64
	// Root is <g id="code_table">, not attached to any document.
	Root *etree.Element
	// Bands is number of highlight bands (one per step).
	Bands int
}

// Standalone returns table as a separate svg document with given
// stylesheet. Table is copied, so it could be called at any time.
func (t *Table) Standalone(style string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("svg")
	root.CreateAttr("id", "svg")
	root.CreateAttr("width", num(t.Width))
	root.CreateAttr("height", num(t.Height))
	root.CreateAttr("viewBox", fmt.Sprintf("0.00 0.00 %s %s", num(t.Width), num(t.Height)))
	root.CreateAttr("xmlns", svgNS)

	group := t.Root.Copy()
	group.RemoveAttr("transform")
	root.AddChild(group)
	addStyle(root, style)
	return doc
}

// RenderTable renders code listing, highlight bands and per step variable
// table. Steps must include both sentinels, vars are table rows in order.
func (g *Generator) RenderTable(source string, steps []trace.Step, vars []string) (*Table, error) {
	geo := &g.cfg.Geometry
	pal := &g.cfg.Palette

	tokens, err := g.tokenizer.Tokenize(source)
	if err != nil {
		return nil, fmt.Errorf("unable to tokenize source: %w", err)
	}

	lines := sourceLines(source)
	frames := len(lines) + 2

	width := geo.MinWidth
	for _, l := range lines {
		width = max(width, float64(utf8.RuneCountInString(l))*geo.CharWidth+2*geo.CodeStart)
	}
	for i := range steps {
		width = max(width, float64(utf8.RuneCountInString(steps[i].Code))*(geo.CharWidth+2)+geo.CodePadding)
	}
	height := float64(frames)*geo.LineHeight + float64(len(vars)+1)*geo.LineHeight

	t := &Table{Width: width, Height: height, Root: etree.NewElement("g")}
	t.Root.CreateAttr("id", "code_table")
	rect(t.Root, pal.Background, 0, 0, width, height)

	// bands counter is local to this call
	bands := 0
	for i := range steps {
		s := &steps[i]
		band := rect(t.Root, pal.Highlight, 0, float64(s.Slot(len(lines)))*geo.LineHeight, width, geo.LineHeight+1)
		band.CreateAttr("visibility", "hidden")
		band.CreateAttr("opacity", "0.5")
		band.CreateAttr("class", bandClass(s.Index))
		bands++
	}
	t.Bands = bands

	listing := t.Root.CreateElement("g")
	listing.CreateAttr("class", "normal")
	h, err := g.renderListing(listing, tokens, geo.LineHeight)
	if err != nil {
		return nil, err
	}

	table := t.Root.CreateElement("g")
	h += geo.LineHeight
	grid := rect(table, pal.Table, 0, h, width, geo.LineHeight*float64(len(vars)+1))
	grid.CreateAttr("stroke", pal.Background)

	g.row(table, "Code:", h, width)
	for i := range steps {
		s := &steps[i]
		cell := g.cell(table, codeClass(s.Index), h)
		if err := g.fill(cell, s.Code); err != nil {
			return nil, fmt.Errorf("step %d code: %w", s.Index, err)
		}
	}

	for r, name := range vars {
		h += geo.LineHeight
		g.row(table, name, h, width)
		for i := range steps {
			s := &steps[i]
			cell := g.cell(table, varClass(s.Index, r), h)
			value, ok := cellText(s, name)
			if !ok {
				span := cell.CreateElement("tspan")
				span.CreateAttr("font-size", px(geo.FontSize))
				span.CreateAttr("fill", pal.Normal)
				span.SetText(g.cfg.Placeholder)
				continue
			}
			if err := g.fill(cell, value); err != nil {
				return nil, fmt.Errorf("step %d variable %s: %w", s.Index, name, err)
			}
		}
	}

	g.log.Debug("Table rendered",
		zap.Float64("width", t.Width),
		zap.Float64("height", t.Height),
		zap.Int("bands", t.Bands),
		zap.Int("rows", len(vars)+1))
	return t, nil
}

// cellText returns display text of variable at the step, false if variable
// does not exist there.
func cellText(s *trace.Step, name string) (string, bool) {
	v, ok := s.Variables[name]
	if !ok {
		return "", false
	}
	if v.Size <= 1 {
		return s.Memory[v.Address].Value, true
	}
	values := make([]string, 0, v.Size)
	for i := range v.Size {
		values = append(values, s.Memory[v.Address+i].Value)
	}
	return "{ " + strings.Join(values, ", ") + " }", true
}

// row draws label and value cell frames of a single table row.
func (g *Generator) row(parent *etree.Element, label string, y, width float64) {
	geo := &g.cfg.Geometry
	pal := &g.cfg.Palette

	labelWidth := labelChars * geo.CharWidth
	rect(parent, pal.Background, 0, y, labelWidth, geo.LineHeight).CreateAttr("stroke", pal.Table)

	text := parent.CreateElement("text")
	text.CreateAttr("font-size", px(geo.FontSize))
	text.CreateAttr("fill", pal.Table)
	text.CreateAttr("x", num(geo.CharWidth))
	text.CreateAttr("y", num(y+geo.Baseline))
	text.CreateAttr("class", "normal")
	text.SetText(label)

	rect(parent, pal.Background, labelWidth, y, width-labelWidth, geo.LineHeight).CreateAttr("stroke", pal.Table)
}

// cell creates hidden alternate cell.
func (g *Generator) cell(parent *etree.Element, class string, y float64) *etree.Element {
	geo := &g.cfg.Geometry

	text := parent.CreateElement("text")
	text.CreateAttr("font-size", px(geo.FontSize))
	text.CreateAttr("fill", g.cfg.Palette.Background)
	text.CreateAttr("x", num(cellChars*geo.CharWidth))
	text.CreateAttr("y", num(y+geo.Baseline))
	text.CreateAttr("class", "alternate "+class)
	text.CreateAttr("visibility", "hidden")
	return text
}

// fill tokenizes text and puts colored runs into cell. Cells are single
// line so line breaks are dropped.
func (g *Generator) fill(cell *etree.Element, text string) error {
	if text == "" {
		return nil
	}
	tokens, err := g.tokenizer.Tokenize(text)
	if err != nil {
		return fmt.Errorf("unable to tokenize %q: %w", text, err)
	}
	for _, t := range tokens {
		if t.IsLineBreak() {
			continue
		}
		if err := g.colorizer.Run(cell, t); err != nil {
			return err
		}
	}
	return nil
}

func rect(parent *etree.Element, fill string, x, y, width, height float64) *etree.Element {
	r := parent.CreateElement("rect")
	r.CreateAttr("fill", fill)
	r.CreateAttr("height", num(height))
	r.CreateAttr("width", num(width))
	r.CreateAttr("x", num(x))
	r.CreateAttr("y", num(y))
	return r
}

func addStyle(root *etree.Element, style string) {
	st := root.CreateElement("defs").CreateElement("style")
	st.CreateAttr("type", "text/css")
	st.CreateCData(style)
}
