package diagram

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Snapshot returns static copy of the diagram showing single step: elements
// of other steps are removed, elements of the step are made visible and the
// stylesheet is dropped. Result does not need CSS support to be displayed.
func (d *Diagram) Snapshot(step int) (*etree.Document, error) {
	if step < 0 || step >= d.Steps {
		return nil, fmt.Errorf("step %d is out of range [0, %d)", step, d.Steps)
	}

	doc := d.doc.Copy()
	root := doc.Root()
	for _, defs := range root.SelectElements("defs") {
		root.RemoveChild(defs)
	}
	keepStep(root, step)
	return doc, nil
}

func keepStep(e *etree.Element, step int) {
	for i := len(e.Child) - 1; i >= 0; i-- {
		c, ok := e.Child[i].(*etree.Element)
		if !ok {
			continue
		}
		switch s, indexed := elementStep(c); {
		case !indexed:
			keepStep(c, step)
		case s != step:
			e.RemoveChildAt(i)
		default:
			c.RemoveAttr("visibility")
		}
	}
}

func elementStep(e *etree.Element) (int, bool) {
	for class := range strings.FieldsSeq(e.SelectAttrValue("class", "")) {
		if step, ok := stepOfClass(class); ok {
			return step, true
		}
	}
	return 0, false
}
