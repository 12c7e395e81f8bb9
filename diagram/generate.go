// Package diagram builds step addressable trace diagrams: flow diagram laid
// out by Graphviz with colorized code listing and variable table next to it.
// Which step is shown is controlled by "step{i}" class on the root element.
package diagram

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tracediag/config"
	"tracediag/css"
	"tracediag/trace"
)

// Generator holds everything diagram construction needs, it does not keep
// any state between calls and could be shared.
type Generator struct {
	cfg       *config.DiagramConfig
	tokenizer trace.Tokenizer
	colorizer *Colorizer
	extra     *css.Stylesheet
	log       *zap.Logger
}

// New returns generator. Extra stylesheet, if not empty, is checked and
// added to every diagram scoped to it.
func New(cfg *config.DiagramConfig, tokenizer trace.Tokenizer, extra []byte, log *zap.Logger) (*Generator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Generator{
		cfg:       cfg,
		tokenizer: tokenizer,
		colorizer: NewColorizer(cfg),
		log:       log.Named("diagram"),
	}
	if len(extra) > 0 {
		sheet, err := css.NewParser(log).Parse(extra, cfg.StylesheetPath)
		if err != nil {
			return nil, err
		}
		g.extra = sheet
	}
	return g, nil
}

// Diagram is composed document, it owns every tree built for it.
type Diagram struct {
	ID    string
	Steps int
	Style string
	Table *Table
	doc   *etree.Document
}

// namespace for document ids
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/tracediag"))

// documentID is derived from content, so identical inputs always produce
// identical documents. It starts with a letter to be usable in selectors.
func documentID(source string, steps []trace.Step, vars []string) string {
	h := new(bytes.Buffer)
	fmt.Fprintf(h, "%d:%s", len(source), source)
	for i := range steps {
		s := &steps[i]
		fmt.Fprintf(h, "|%d:%d:%s", s.Index, len(s.Code), s.Code)
		for _, name := range vars {
			if value, ok := cellText(s, name); ok {
				fmt.Fprintf(h, "|%s=%d:%s", name, len(value), value)
			}
		}
	}
	return "trace-" + uuid.NewSHA1(idSpace, h.Bytes()).String()
}

// Build constructs diagram. Steps must include both sentinels, flowSVG is
// the flow diagram rendered by Graphviz.
func (g *Generator) Build(source string, steps []trace.Step, flowSVG []byte) (*Diagram, error) {
	flow := etree.NewDocument()
	flow.ReadSettings = etree.ReadSettings{Permissive: true}
	if err := flow.ReadFromBytes(flowSVG); err != nil {
		return nil, fmt.Errorf("unable to parse flow diagram: %w", err)
	}

	vars := trace.VariableSet(steps)
	table, err := g.RenderTable(source, steps, vars)
	if err != nil {
		return nil, err
	}

	id := documentID(source, steps, vars)
	var extra string
	if g.extra != nil {
		extra = g.extra.Scoped(id)
	}
	style := Stylesheet(id, Keyframes(steps, vars), extra)

	doc, err := Compose(flow, table, style, id)
	if err != nil {
		return nil, err
	}

	g.log.Debug("Diagram built", zap.String("id", id), zap.Int("steps", len(steps)), zap.Strings("variables", vars))
	return &Diagram{ID: id, Steps: len(steps), Style: style, Table: table, doc: doc}, nil
}

// Generate builds and serializes diagram.
func (g *Generator) Generate(source string, steps []trace.Step, flowSVG []byte) (string, error) {
	d, err := g.Build(source, steps, flowSVG)
	if err != nil {
		return "", err
	}
	return d.Serialize()
}

// Document returns composed tree.
func (d *Diagram) Document() *etree.Document {
	return d.doc
}

// Serialize writes composed document without any indentation.
func (d *Diagram) Serialize() (string, error) {
	s, err := d.doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("unable to serialize diagram: %w", err)
	}
	return s, nil
}
