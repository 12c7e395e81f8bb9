package trace

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

// Validate checks preconditions diagram generation relies upon and reports
// all violations at once. Steps must include both sentinels.
//
// Variables of the same step must not share memory, different steps may
// reuse addresses freely (scopes come and go).
func Validate(steps []Step, lines int) (err error) {
	if len(steps) < 2 {
		return fmt.Errorf("trace must have at least 2 steps (sentinels), got %d", len(steps))
	}
	if steps[0].Kind != StepKindBefore {
		err = multierr.Append(err, fmt.Errorf("step 0: expected %s sentinel, got %s", StepKindBefore, steps[0].Kind))
	}
	if last := len(steps) - 1; steps[last].Kind != StepKindAfter {
		err = multierr.Append(err, fmt.Errorf("step %d: expected %s sentinel, got %s", last, StepKindAfter, steps[last].Kind))
	}

	for i := range steps {
		s := &steps[i]
		if s.Index != i {
			err = multierr.Append(err, fmt.Errorf("step %d: index is %d, indices must be contiguous", i, s.Index))
		}
		if i > 0 && i < len(steps)-1 {
			if s.Kind != StepKindLine {
				err = multierr.Append(err, fmt.Errorf("step %d: unexpected %s sentinel inside trace", i, s.Kind))
			}
			if s.Line < 1 || s.Line > lines {
				err = multierr.Append(err, fmt.Errorf("step %d: line %d is outside of source (%d lines)", i, s.Line, lines))
			}
		}
		err = multierr.Append(err, validateMemory(s))
	}
	return err
}

type span struct {
	name       string
	start, end int
}

func validateMemory(s *Step) (err error) {
	spans := make([]span, 0, len(s.Variables))
	for name, v := range s.Variables {
		if v.Size < 1 {
			err = multierr.Append(err, fmt.Errorf("step %d: variable %q has invalid size %d", s.Index, name, v.Size))
			continue
		}
		for a := v.Address; a < v.Address+v.Size; a++ {
			if _, ok := s.Memory[a]; !ok {
				err = multierr.Append(err, fmt.Errorf("step %d: variable %q: address %d is not in memory", s.Index, name, a))
			}
		}
		spans = append(spans, span{name: name, start: v.Address, end: v.Address + v.Size})
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].name < spans[j].name
	})
	// widest seen so far, so nested ranges are caught too
	for i, widest := 1, 0; i < len(spans); i++ {
		if prev := spans[widest]; spans[i].start < prev.end {
			err = multierr.Append(err, fmt.Errorf("step %d: variables %q and %q overlap in memory", s.Index, prev.name, spans[i].name))
		}
		if spans[i].end > spans[widest].end {
			widest = i
		}
	}
	return err
}
