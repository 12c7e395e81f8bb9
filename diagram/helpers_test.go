package diagram

import (
	"strings"
	"testing"
	"unicode"

	"github.com/beevik/etree"

	"tracediag/config"
	"tracediag/trace"
)

// fakeTokenizer understands just enough to tokenize test programs: names,
// integers, double quoted strings, blanks and single character operators.
// "#" produces token of unknown kind.
type fakeTokenizer struct {
	calls int
}

func (f *fakeTokenizer) Tokenize(text string) ([]trace.Token, error) {
	f.calls++

	var tokens []trace.Token
	runes := []rune(text)
	for i := 0; i < len(runes); {
		j := i + 1
		r := runes[i]
		kind := trace.KindText
		switch {
		case r == '\n':
		case r == ' ' || r == '\t':
			for j < len(runes) && runes[j] == r {
				j++
			}
		case unicode.IsDigit(r):
			kind = trace.KindInteger
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
		case unicode.IsLetter(r) || r == '_':
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			switch string(runes[i:j]) {
			case "int", "char":
				kind = trace.KindKeywordType
			case "return", "if":
				kind = trace.KindKeyword
			default:
				kind = trace.KindName
			}
		case r == '"':
			kind = trace.KindString
			for j < len(runes) && runes[j] != '"' {
				j++
			}
			if j < len(runes) {
				j++
			}
		case r == '#':
			kind = trace.KindUnknown
		}
		tokens = append(tokens, trace.Token{Kind: kind, Text: string(runes[i:j]), Class: "Fake" + kind.String()})
		i = j
	}
	return tokens, nil
}

func testConfig() *config.DiagramConfig {
	return &config.DiagramConfig{
		Language:    "c",
		CallTargets: []string{"printf", "scanf"},
		Placeholder: "?",
		Geometry: config.GeometryConfig{
			LineHeight:         25,
			CharWidth:          11,
			CodeStart:          40,
			LineNumberX:        5,
			Baseline:           18,
			FontSize:           18,
			LineNumberFontSize: 12,
			MinWidth:           256,
			CodePadding:        90,
		},
		Palette: config.PaletteConfig{
			Normal:     "#d4d4d4",
			LineNumber: "#858585",
			String:     "#ce9178",
			Keyword:    "#569cd6",
			Number:     "#b5cea8",
			Function:   "#dcdcaa",
			Background: "#1e1e1e",
			Highlight:  "#264f78",
			Table:      "#3c3c3c",
		},
	}
}

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()

	g, err := New(testConfig(), &fakeTokenizer{}, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

const flowSVG = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN"
 "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
<!-- Generated by graphviz -->
<svg width="62pt" height="116pt"
 viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
<g id="graph0" class="graph" transform="scale(1 1) rotate(0) translate(4 112)">
<polygon fill="white" stroke="none" points="-4,4 -4,-112 58,-112 58,4 -4,4"/>
<!-- n1 -->
<g id="node1" class="node">
<title>n1</title>
<polygon fill="none" stroke="black" points="54,-108 0,-108 0,-72 54,-72 54,-108"/>
<text text-anchor="middle" x="27" y="-86.3" font-family="Times,serif" font-size="14.00">x = 1</text>
</g>
</g>
</svg>
`

// twoLineTrace is "x = 1; y = x + 1" with sentinels.
func twoLineTrace() (string, []trace.Step) {
	source := "x = 1\ny = x + 1\n"
	steps := trace.WithSentinels([]trace.Step{
		{
			Kind:      trace.StepKindLine,
			Line:      1,
			Code:      "x = 1",
			Variables: map[string]trace.Var{"x": {Type: "int", Address: 0, Size: 1}},
			Memory:    map[int]trace.Cell{0: {Value: "1"}},
		},
		{
			Kind: trace.StepKindLine,
			Line: 2,
			Code: "y = x + 1",
			Variables: map[string]trace.Var{
				"x": {Type: "int", Address: 0, Size: 1},
				"y": {Type: "int", Address: 1, Size: 1},
			},
			Memory: map[int]trace.Cell{0: {Value: "1"}, 1: {Value: "2"}},
		},
	})
	return source, steps
}

// hasClass reports whether element class list contains class.
func hasClass(e *etree.Element, class string) bool {
	for c := range strings.FieldsSeq(e.SelectAttrValue("class", "")) {
		if c == class {
			return true
		}
	}
	return false
}

// byClass returns all elements under root (root included) with class.
func byClass(root *etree.Element, class string) []*etree.Element {
	var found []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if hasClass(e, class) {
			found = append(found, e)
		}
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(root)
	return found
}

// oneByClass fails unless there is exactly one element with class.
func oneByClass(t *testing.T, root *etree.Element, class string) *etree.Element {
	t.Helper()

	found := byClass(root, class)
	if len(found) != 1 {
		t.Fatalf("expected exactly one element with class %q, got %d", class, len(found))
	}
	return found[0]
}

// textOf concatenates element text with text of its children.
func textOf(e *etree.Element) string {
	var sb strings.Builder
	for _, tok := range e.Child {
		switch c := tok.(type) {
		case *etree.CharData:
			sb.WriteString(c.Data)
		case *etree.Element:
			sb.WriteString(textOf(c))
		}
	}
	return sb.String()
}
