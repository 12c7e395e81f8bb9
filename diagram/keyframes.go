package diagram

import (
	"strconv"
	"strings"

	"tracediag/trace"
)

func bandClass(step int) string {
	return "codeline" + strconv.Itoa(step)
}

func codeClass(step int) string {
	return "code_display" + strconv.Itoa(step)
}

func varClass(step, row int) string {
	return "var_display" + strconv.Itoa(step) + "_" + strconv.Itoa(row)
}

// stepOfClass returns step index class belongs to, if it is one of the
// step indexed classes.
func stepOfClass(class string) (int, bool) {
	var rest string
	for _, prefix := range []string{"codeline", "code_display", "var_display"} {
		if r, ok := strings.CutPrefix(class, prefix); ok {
			rest = r
			break
		}
	}
	if rest == "" {
		return 0, false
	}
	if prefix, _, found := strings.Cut(rest, "_"); found {
		rest = prefix
	}
	step, err := strconv.Atoi(rest)
	if err != nil || step < 0 {
		return 0, false
	}
	return step, true
}

// RuleGroup lists classes made visible when step is active.
type RuleGroup struct {
	Step    int
	Classes []string
}

// Keyframes returns one rule group per step in step order: highlight band,
// code cell and a cell in every variable row of that step.
func Keyframes(steps []trace.Step, vars []string) []RuleGroup {
	groups := make([]RuleGroup, 0, len(steps))
	for i := range steps {
		idx := steps[i].Index
		classes := make([]string, 0, len(vars)+2)
		classes = append(classes, bandClass(idx), codeClass(idx))
		for r := range vars {
			classes = append(classes, varClass(idx, r))
		}
		groups = append(groups, RuleGroup{Step: idx, Classes: classes})
	}
	return groups
}

const baseStyle = `.normal, .alternate { font-family: "DejaVu Sans Mono", "Courier New", monospace; white-space: pre; }
`

// Stylesheet renders base rules followed by step rules. Step rules apply
// when root element with id scope has class "step{i}". Extra is appended
// verbatim.
func Stylesheet(scope string, groups []RuleGroup, extra string) string {
	var sb strings.Builder
	sb.WriteString(baseStyle)
	for _, g := range groups {
		active := "#" + scope + ".step" + strconv.Itoa(g.Step) + " ."
		for i, class := range g.Classes {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(active)
			sb.WriteString(class)
		}
		sb.WriteString(" { visibility: visible; }\n")
	}
	sb.WriteString(extra)
	return sb.String()
}
