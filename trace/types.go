// Package trace defines the execution trace model diagrams are built from:
// tokens produced by a lexer and per-step snapshots produced by a tracer.
package trace

import (
	"sort"

	"github.com/maruel/natural"
)

// Category of a lexical token. The set is closed, the zero value marks lexer
// categories we do not know how to display.
// ENUM(unknown, text, name, function, string, string-escape, integer, keyword, keyword-type)
type Kind int

// Token is a single lexical unit of displayed code.
type Token struct {
	Kind Kind
	Text string
	// Class is lexer's own name for token category, kept for diagnostics.
	Class string
}

// IsLineBreak reports whether token terminates a source line.
func (t Token) IsLineBreak() bool {
	return t.Kind == KindText && t.Text == "\n"
}

// Tokenizer splits text into tokens. Line breaks must be delivered as
// separate text tokens containing exactly "\n".
type Tokenizer interface {
	Tokenize(text string) ([]Token, error)
}

// Position of the step in the trace.
// ENUM(before, line, after)
type StepKind int

// Var describes where variable lives in traced memory.
type Var struct {
	Type    string
	Address int
	Size    int
}

// Cell is a single memory location as the tracer shows it.
type Cell struct {
	Value string
}

// Step is program state right after one traced statement has been executed.
type Step struct {
	Index int
	Kind  StepKind
	// Line is 1-based source line, valid only for StepKindLine.
	Line      int
	Code      string
	Variables map[string]Var
	Memory    map[int]Cell
}

// Slot returns vertical slot of the step in the code listing: slot 0 is
// above the first line, slot lines+1 is below the last one.
func (s *Step) Slot(lines int) int {
	switch s.Kind {
	case StepKindBefore:
		return 0
	case StepKindAfter:
		return lines + 1
	default:
		return s.Line
	}
}

// WithSentinels brackets traced steps with empty "before" and "after" steps
// and renumbers all of them contiguously starting with 0.
func WithSentinels(steps []Step) []Step {
	out := make([]Step, 0, len(steps)+2)
	out = append(out, Step{Kind: StepKindBefore})
	out = append(out, steps...)
	out = append(out, Step{Kind: StepKindAfter})
	for i := range out {
		out[i].Index = i
	}
	return out
}

// VariableSet returns names of variables known at the last traced step (the
// one right before "after" sentinel). Names are in natural order so table
// rows are stable.
func VariableSet(steps []Step) []string {
	if len(steps) < 3 {
		return nil
	}
	last := steps[len(steps)-2]
	names := make([]string, 0, len(last.Variables))
	for name := range last.Variables {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}
