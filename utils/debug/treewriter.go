package debug

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// TreeWriter produces indented, human readable dumps of nested structures.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// layoutAttrs are the attributes worth seeing when checking where diagram
// pieces ended up, in print order.
var layoutAttrs = []string{"id", "class", "x", "y", "width", "height", "transform", "visibility"}

// Element dumps an SVG element and its descendants: one line per element
// with its layout attributes, character data as quoted text blocks.
func (tw *TreeWriter) Element(depth int, e *etree.Element) {
	var b strings.Builder
	b.WriteString(e.FullTag())
	for _, name := range layoutAttrs {
		if a := e.SelectAttr(name); a != nil {
			fmt.Fprintf(&b, " %s=%s", name, encodeText(a.Value))
		}
	}
	tw.Line(depth, "%s", b.String())

	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.Element:
			tw.Element(depth+1, t)
		case *etree.CharData:
			if s := strings.TrimSpace(t.Data); s != "" {
				label := "text"
				if t.IsCData() {
					label = "cdata"
				}
				tw.TextBlock(depth+1, label, s)
			}
		}
	}
}

// Document returns a dump of the whole SVG document, empty for a document
// without root.
func Document(doc *etree.Document) string {
	tw := NewTreeWriter()
	if root := doc.Root(); root != nil {
		tw.Element(0, root)
	}
	return tw.String()
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
