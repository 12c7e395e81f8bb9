package diagram

import (
	"errors"
	"strings"
	"testing"

	"tracediag/lexer"
	"tracediag/trace"
)

func TestGenerate_TwoLines(t *testing.T) {
	g := newTestGenerator(t)
	source, steps := twoLineTrace()

	d, err := g.Build(source, steps, []byte(flowSVG))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.HasPrefix(d.ID, "trace-") {
		t.Errorf("ID = %q", d.ID)
	}
	if d.Steps != 4 {
		t.Errorf("Steps = %d, want 4", d.Steps)
	}

	root := d.Document().Root()
	if root.SelectAttrValue("id", "") != d.ID {
		t.Errorf("root id = %q, want %q", root.SelectAttrValue("id", ""), d.ID)
	}

	// Code, x and y rows with 4 alternates each
	for _, prefix := range []string{"code_display", "var_display"} {
		n := 0
		for _, e := range byClass(root, "alternate") {
			if strings.Contains(e.SelectAttrValue("class", ""), prefix) {
				n++
			}
		}
		want := 4
		if prefix == "var_display" {
			want = 8
		}
		if n != want {
			t.Errorf("got %d %s cells, want %d", n, prefix, want)
		}
	}
	if got := textOf(oneByClass(t, root, varClass(1, 0))); got != "1" {
		t.Errorf("x at step 1 = %q, want 1", got)
	}
	if got := textOf(oneByClass(t, root, varClass(1, 1))); got != "?" {
		t.Errorf("y at step 1 = %q, want placeholder", got)
	}
	if got := textOf(oneByClass(t, root, varClass(2, 1))); got != "2" {
		t.Errorf("y at step 2 = %q, want 2", got)
	}

	for i := range 4 {
		rule := "#" + d.ID + ".step" + string(rune('0'+i)) + " .codeline"
		if !strings.Contains(d.Style, rule) {
			t.Errorf("stylesheet has no rule for step %d", i)
		}
	}

	s, err := d.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if strings.Contains(s, "<script") {
		t.Error("diagram must not contain scripts")
	}
	if !strings.Contains(s, `width="574pt"`) {
		t.Errorf("unexpected canvas width in %s", s[:min(len(s), 300)])
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	source, steps := twoLineTrace()

	first, err := newTestGenerator(t).Generate(source, steps, []byte(flowSVG))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	g := newTestGenerator(t)
	for i := range 3 {
		again, err := g.Generate(source, steps, []byte(flowSVG))
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if again != first {
			t.Fatalf("call %d produced different output", i)
		}
	}
}

func TestGenerate_IDDependsOnContent(t *testing.T) {
	g := newTestGenerator(t)
	source, steps := twoLineTrace()

	a, err := g.Build(source, steps, []byte(flowSVG))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	steps[2].Memory[1] = trace.Cell{Value: "3"}
	b, err := g.Build(source, steps, []byte(flowSVG))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if a.ID == b.ID {
		t.Error("different traces must get different ids")
	}
}

func TestGenerate_Errors(t *testing.T) {
	source, steps := twoLineTrace()

	t.Run("flow is not xml", func(t *testing.T) {
		if _, err := newTestGenerator(t).Generate(source, steps, []byte("<svg")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("flow without group", func(t *testing.T) {
		_, err := newTestGenerator(t).Generate(source, steps, []byte(`<svg width="1pt" viewBox="0 0 1 1"/>`))
		var mde *MalformedDiagramError
		if !errors.As(err, &mde) {
			t.Errorf("expected MalformedDiagramError, got %v", err)
		}
	})

	t.Run("unsupported token", func(t *testing.T) {
		_, err := newTestGenerator(t).Generate("x = #\n", steps, []byte(flowSVG))
		var ute *UnsupportedTokenError
		if !errors.As(err, &ute) {
			t.Errorf("expected UnsupportedTokenError, got %v", err)
		}
	})
}

func TestGenerate_ExtraStylesheet(t *testing.T) {
	source, steps := twoLineTrace()

	g, err := New(testConfig(), &fakeTokenizer{}, []byte(".normal { fill: red; }"), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	d, err := g.Build(source, steps, []byte(flowSVG))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.HasSuffix(d.Style, "#"+d.ID+" .normal { fill: red; }\n") {
		t.Errorf("extra rules are not scoped to document:\n%s", d.Style)
	}

	if _, err := New(testConfig(), &fakeTokenizer{}, []byte("@import 'x.css';"), nil); err == nil {
		t.Error("expected error for unsupported stylesheet")
	}
}

func TestGenerate_CLexer(t *testing.T) {
	l, err := lexer.New("c")
	if err != nil {
		t.Fatalf("lexer.New() error = %v", err)
	}
	g, err := New(testConfig(), l, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	source := "int x = 1;\nchar s[3] = \"ab\";\nprintf(\"%d\\n\", x);\n"
	steps := trace.WithSentinels([]trace.Step{
		{
			Kind:      trace.StepKindLine,
			Line:      1,
			Code:      "int x = 1;",
			Variables: map[string]trace.Var{"x": {Type: "int", Address: 0, Size: 1}},
			Memory:    map[int]trace.Cell{0: {Value: "1"}},
		},
		{
			Kind: trace.StepKindLine,
			Line: 2,
			Code: `char s[3] = "ab";`,
			Variables: map[string]trace.Var{
				"x": {Type: "int", Address: 0, Size: 1},
				"s": {Type: "char[]", Address: 1, Size: 3},
			},
			Memory: map[int]trace.Cell{0: {Value: "1"}, 1: {Value: "'a'"}, 2: {Value: "'b'"}, 3: {Value: `'\0'`}},
		},
		{
			Kind: trace.StepKindLine,
			Line: 3,
			Code: `printf("%d\n", x);`,
			Variables: map[string]trace.Var{
				"x": {Type: "int", Address: 0, Size: 1},
				"s": {Type: "char[]", Address: 1, Size: 3},
			},
			Memory: map[int]trace.Cell{0: {Value: "1"}, 1: {Value: "'a'"}, 2: {Value: "'b'"}, 3: {Value: `'\0'`}},
		},
	})

	d, err := g.Build(source, steps, []byte(flowSVG))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	root := d.Document().Root()

	// rows are in natural order: s, x
	if got := strings.ReplaceAll(textOf(oneByClass(t, root, varClass(2, 0))), nbsp, " "); got != `{ 'a', 'b', '\0' }` {
		t.Errorf("s at step 2 = %q", got)
	}
	if got := textOf(oneByClass(t, root, varClass(1, 1))); got != "1" {
		t.Errorf("x at step 1 = %q", got)
	}

	var printf bool
	for _, span := range root.FindElements(".//tspan") {
		if span.Text() == "printf" {
			printf = true
			if fill := span.SelectAttrValue("fill", ""); fill != testConfig().Palette.Function {
				t.Errorf("printf fill = %s, want function color", fill)
			}
		}
	}
	if !printf {
		t.Error("printf call is not rendered")
	}
}

func TestSnapshot(t *testing.T) {
	g := newTestGenerator(t)
	source, steps := twoLineTrace()

	d, err := g.Build(source, steps, []byte(flowSVG))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for step := range d.Steps {
		doc, err := d.Snapshot(step)
		if err != nil {
			t.Fatalf("Snapshot(%d) error = %v", step, err)
		}
		root := doc.Root()
		if root.SelectElement("defs") != nil {
			t.Errorf("step %d: stylesheet must be dropped", step)
		}

		band := oneByClass(t, root, bandClass(step))
		if band.SelectAttr("visibility") != nil {
			t.Errorf("step %d: band is still hidden", step)
		}
		oneByClass(t, root, codeClass(step))
		oneByClass(t, root, varClass(step, 0))
		oneByClass(t, root, varClass(step, 1))

		for other := range d.Steps {
			if other == step {
				continue
			}
			for _, class := range []string{bandClass(other), codeClass(other), varClass(other, 0), varClass(other, 1)} {
				if n := len(byClass(root, class)); n != 0 {
					t.Errorf("step %d: element %s of step %d is kept", step, class, other)
				}
			}
		}
	}

	// snapshots do not touch the diagram
	if len(byClass(d.Document().Root(), bandClass(1))) != 1 || d.Document().Root().SelectElement("defs") == nil {
		t.Error("diagram was modified by snapshot")
	}

	for _, bad := range []int{-1, d.Steps} {
		if _, err := d.Snapshot(bad); err == nil {
			t.Errorf("Snapshot(%d) expected error", bad)
		}
	}
}

func TestDiagram_Table(t *testing.T) {
	g := newTestGenerator(t)
	source, steps := twoLineTrace()

	d, err := g.Build(source, steps, []byte(flowSVG))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	doc := d.Table.Standalone(d.Style)
	if doc.Root().SelectAttrValue("width", "") != "256" {
		t.Errorf("standalone width = %q", doc.Root().SelectAttrValue("width", ""))
	}
	// original stays in the diagram
	if d.Table.Root.Parent() == nil {
		t.Error("table group must stay attached to the diagram")
	}
}
