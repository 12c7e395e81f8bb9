package trace

import (
	"errors"
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"

	"tracediag/flow"
)

// Trace is everything tracer reported about a single program run.
type Trace struct {
	// Language of the traced program, empty if trace does not say.
	Language string
	// Source of the traced program, empty if it is supplied separately.
	Source string
	// Steps are traced statements only, without sentinels.
	Steps []Step
	// Flow is optional control flow graph of the program.
	Flow *flow.Graph
}

type fileVar struct {
	Type    string `yaml:"type"`
	Address int    `yaml:"address"`
	Size    int    `yaml:"size"`
}

type fileCell struct {
	Address int    `yaml:"address"`
	Value   string `yaml:"value"`
}

type fileStep struct {
	Line      int                `yaml:"line"`
	Code      string             `yaml:"code"`
	Variables map[string]fileVar `yaml:"variables"`
	Memory    []fileCell         `yaml:"memory"`
}

type fileTrace struct {
	Language string      `yaml:"language"`
	Source   string      `yaml:"source"`
	Steps    []fileStep  `yaml:"steps"`
	Flow     *flow.Graph `yaml:"flow"`
}

// Load reads trace file. Both YAML and JSON are accepted, unknown fields are
// rejected.
func Load(r io.Reader) (*Trace, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ft fileTrace
	if err := dec.Decode(&ft); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("trace is empty")
		}
		return nil, fmt.Errorf("unable to decode trace: %w", err)
	}

	t := &Trace{
		Language: ft.Language,
		Source:   ft.Source,
		Steps:    make([]Step, 0, len(ft.Steps)),
		Flow:     ft.Flow,
	}
	for i, fs := range ft.Steps {
		if fs.Line < 1 {
			return nil, fmt.Errorf("step %d: line number must be positive, got %d", i+1, fs.Line)
		}
		step := Step{
			Index:     i + 1,
			Kind:      StepKindLine,
			Line:      fs.Line,
			Code:      fs.Code,
			Variables: make(map[string]Var, len(fs.Variables)),
			Memory:    make(map[int]Cell, len(fs.Memory)),
		}
		for name, v := range fs.Variables {
			size := v.Size
			if size == 0 {
				size = 1
			}
			step.Variables[name] = Var{Type: v.Type, Address: v.Address, Size: size}
		}
		for _, c := range fs.Memory {
			if _, exists := step.Memory[c.Address]; exists {
				return nil, fmt.Errorf("step %d: duplicate memory address %d", i+1, c.Address)
			}
			step.Memory[c.Address] = Cell{Value: c.Value}
		}
		t.Steps = append(t.Steps, step)
	}
	return t, nil
}
