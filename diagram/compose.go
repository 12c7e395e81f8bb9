package diagram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// tableScale is uniform scale factor applied to table next to flow diagram.
const tableScale = 2

// Compose puts table to the right of the flow diagram and returns new
// document with both and the stylesheet. Flow document and table root are
// consumed: their elements are moved into result.
func Compose(flow *etree.Document, table *Table, style, id string) (*etree.Document, error) {
	root := flow.SelectElement("svg")
	if root == nil {
		return nil, &MalformedDiagramError{Missing: "root <svg> element"}
	}
	widthAttr := root.SelectAttr("width")
	if widthAttr == nil {
		return nil, &MalformedDiagramError{Missing: "width attribute of <svg>"}
	}
	viewBoxAttr := selectAttrFold(root, "viewBox")
	if viewBoxAttr == nil {
		return nil, &MalformedDiagramError{Missing: "viewBox attribute of <svg>"}
	}
	graph := root.FindElement(".//g")
	if graph == nil {
		return nil, &MalformedDiagramError{Missing: "<g> graphic container"}
	}

	flowWidth, widthUnit, err := splitLength(widthAttr.Value)
	if err != nil {
		return nil, &MalformedDiagramError{Missing: fmt.Sprintf("numeric width of <svg> (%v)", err)}
	}
	viewBox := strings.FieldsFunc(viewBoxAttr.Value, func(r rune) bool { return r == ' ' || r == ',' })
	if len(viewBox) != 4 {
		return nil, &MalformedDiagramError{Missing: fmt.Sprintf("4 numbers in viewBox %q", viewBoxAttr.Value)}
	}
	vbWidth, err := strconv.ParseFloat(viewBox[2], 64)
	if err != nil {
		return nil, &MalformedDiagramError{Missing: fmt.Sprintf("numeric viewBox width (%v)", err)}
	}

	tableWidth, tableHeight := tableScale*table.Width, tableScale*table.Height

	// height is enlarged only when table does not fit, then both height
	// attribute and viewBox agree
	var newHeight string
	if heightAttr := root.SelectAttr("height"); heightAttr != nil {
		if flowHeight, unit, err := splitLength(heightAttr.Value); err == nil && tableHeight > flowHeight {
			newHeight = num(tableHeight) + unit
			viewBox[3] = num(tableHeight)
		}
	}
	viewBox[2] = num(vbWidth + tableWidth)

	stripComments(graph)
	stripComments(table.Root)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}

	svg := doc.CreateElement("svg")
	for _, a := range root.Attr {
		switch {
		case a.Space == "" && a.Key == "width":
			svg.CreateAttr(a.Key, num(flowWidth+tableWidth)+widthUnit)
		case a.Space == "" && a.Key == "height" && newHeight != "":
			svg.CreateAttr(a.Key, newHeight)
		case a.Space == "" && strings.EqualFold(a.Key, "viewBox"):
			svg.CreateAttr(a.FullKey(), strings.Join(viewBox, " "))
		default:
			svg.CreateAttr(a.FullKey(), a.Value)
		}
	}
	svg.CreateAttr("id", id)

	table.Root.CreateAttr("transform", fmt.Sprintf("translate(%s 0) scale(%d %d) rotate(0)", num(flowWidth), tableScale, tableScale))
	svg.AddChild(table.Root)
	svg.AddChild(graph)
	addStyle(svg, style)
	return doc, nil
}

// splitLength splits "123.5pt" into number and unit.
func splitLength(s string) (float64, string, error) {
	s = strings.TrimSpace(s)
	end := strings.LastIndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' || r == '.' }) + 1
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, "", err
	}
	return v, s[end:], nil
}

func selectAttrFold(e *etree.Element, key string) *etree.Attr {
	for i := range e.Attr {
		if e.Attr[i].Space == "" && strings.EqualFold(e.Attr[i].Key, key) {
			return &e.Attr[i]
		}
	}
	return nil
}

func stripComments(e *etree.Element) {
	for i := len(e.Child) - 1; i >= 0; i-- {
		switch c := e.Child[i].(type) {
		case *etree.Comment:
			e.RemoveChildAt(i)
		case *etree.Element:
			stripComments(c)
		}
	}
}
