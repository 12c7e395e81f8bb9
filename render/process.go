package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"tracediag/config"
	"tracediag/diagram"
	"tracediag/flow"
	"tracediag/state"
	"tracediag/trace"
	dbg "tracediag/utils/debug"
	"tracediag/utils/images"
)

// process produces diagram for a single trace. Output name is derived from
// the trace name or from the configured template.
func process(ctx context.Context, j *job, layouter flow.Layouter, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var id, outputName string

	log.Info("Rendering starting", zap.String("from", j.name))
	defer func(start time.Time) {
		// NOTE: raster libraries panic on some odd inputs, report it as
		// regular error
		if r := recover(); r != nil {
			log.Error("Rendering ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("rendering panic: %v", r)
		} else if rerr == nil {
			log.Info("Rendering completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.String("id", id))
		}
	}(time.Now())

	tr, err := trace.Load(bytes.NewReader(j.data))
	if err != nil {
		return fmt.Errorf("unable to load trace (%s): %w", j.name, err)
	}
	if env.Rpt != nil {
		name := fmt.Sprintf("trace/%s", filepath.ToSlash(j.name))
		if j.path != "" {
			env.Rpt.Store(name, j.path)
		} else {
			env.Rpt.StoreData(name, j.data)
		}
	}

	source, err := loadSource(tr, j.source, env)
	if err != nil {
		return err
	}

	steps := trace.WithSentinels(tr.Steps)
	if err := trace.Validate(steps, diagram.LineCount(source)); err != nil {
		return fmt.Errorf("invalid trace (%s): %w", j.name, err)
	}

	flowSVG, err := loadFlow(tr, j.flow, layouter, env)
	if err != nil {
		return err
	}

	language := selectLanguage(tr, env)
	tokenizer, err := env.Tokenizer(language)
	if err != nil {
		return err
	}
	gen, err := diagram.New(&env.Cfg.Diagram, tokenizer, env.ExtraStyle, log)
	if err != nil {
		return fmt.Errorf("unable to use additional stylesheet: %w", err)
	}

	// generation itself is never interrupted
	if err := ctx.Err(); err != nil {
		return err
	}
	d, err := gen.Build(source, steps, flowSVG)
	if err != nil {
		return fmt.Errorf("unable to build diagram (%s): %w", j.name, err)
	}
	id = d.ID

	out, err := d.Serialize()
	if err != nil {
		return fmt.Errorf("unable to serialize diagram: %w", err)
	}

	if env.Rpt != nil {
		if table, err := d.Table.Standalone(d.Style).WriteToString(); err == nil {
			env.Rpt.StoreData("table.svg", []byte(table))
		}
		env.Rpt.StoreData("layout.txt", []byte(dbg.Document(d.Document())))
	}

	values := &Values{
		SourceFile: strings.TrimSuffix(filepath.Base(j.name), filepath.Ext(j.name)),
		Language:   language,
		Steps:      len(tr.Steps),
		ID:         d.ID,
	}
	outputName = buildOutputPath(values, j.dst, env)
	if err := prepareOutput(outputName, env.Overwrite, log); err != nil {
		return err
	}
	if err := os.WriteFile(outputName, []byte(out), 0644); err != nil {
		return fmt.Errorf("unable to write diagram: %w", err)
	}

	if env.Snapshots {
		if err := writeSnapshots(d, outputName, env.Overwrite, log); err != nil {
			return err
		}
	}
	writePreview(d, outputName, env, log)

	// Store rendering result for debugging
	if env.Rpt != nil {
		name := strings.TrimSuffix(filepath.ToSlash(j.name), filepath.Ext(j.name))
		env.Rpt.Store(fmt.Sprintf("result/%s%s", name, filepath.Ext(outputName)), outputName)
	}
	return nil
}

// loadSource returns program text, file given on the command line wins over
// text embedded into the trace.
func loadSource(tr *trace.Trace, path string, env *state.LocalEnv) (string, error) {
	if len(path) == 0 {
		if tr.Source == "" {
			return "", errors.New("trace has no program source and none was specified")
		}
		return tr.Source, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read program source: %w", err)
	}
	if env.CodePage != nil {
		if data, err = env.CodePage.NewDecoder().Bytes(data); err != nil {
			return "", fmt.Errorf("unable to decode program source: %w", err)
		}
	}
	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("source/%s", filepath.Base(path)), path)
	}
	return string(data), nil
}

// loadFlow returns laid out flow diagram.
func loadFlow(tr *trace.Trace, path string, layouter flow.Layouter, env *state.LocalEnv) ([]byte, error) {
	var dot []byte
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case len(path) == 0:
		if tr.Flow == nil {
			return nil, errors.New("trace has no flow graph and no flow diagram was specified")
		}
		data, err := tr.Flow.DOT()
		if err != nil {
			return nil, fmt.Errorf("unable to prepare flow graph: %w", err)
		}
		dot = data
	case ext == ".svg":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read flow diagram: %w", err)
		}
		if env.Rpt != nil {
			env.Rpt.Store("flow.svg", path)
		}
		return data, nil
	case ext == ".dot" || ext == ".gv":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read flow graph: %w", err)
		}
		dot = data
	default:
		return nil, fmt.Errorf("unsupported flow diagram type %q (%s)", ext, path)
	}

	if env.Rpt != nil {
		env.Rpt.StoreData("flow.dot", dot)
	}
	svg, err := layouter.Layout(dot)
	if err != nil {
		return nil, fmt.Errorf("unable to lay out flow graph: %w", err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("flow.svg", svg)
	}
	return svg, nil
}

func selectLanguage(tr *trace.Trace, env *state.LocalEnv) string {
	switch {
	case env.Language != "":
		return env.Language
	case tr.Language != "":
		return tr.Language
	default:
		return env.Cfg.Diagram.Language
	}
}

// prepareOutput makes sure file could be written: existing file is removed
// when overwriting is allowed, missing directories are created.
func prepareOutput(name string, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(name); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Warn("Overwriting existing file", zap.String("file", name))
		if err = os.Remove(name); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

// siblingName returns file name next to the diagram with suffix and
// extension replaced.
func siblingName(outputName, suffix, ext string) string {
	return strings.TrimSuffix(outputName, filepath.Ext(outputName)) + suffix + ext
}

func writeSnapshots(d *diagram.Diagram, outputName string, overwrite bool, log *zap.Logger) error {
	for step := range d.Steps {
		doc, err := d.Snapshot(step)
		if err != nil {
			return err
		}
		name := siblingName(outputName, fmt.Sprintf("-step%03d", step), ".svg")
		if err := prepareOutput(name, overwrite, log); err != nil {
			return err
		}
		if err := doc.WriteToFile(name); err != nil {
			return fmt.Errorf("unable to write snapshot of step %d: %w", step, err)
		}
	}
	log.Debug("Snapshots written", zap.Int("count", d.Steps))
	return nil
}

// previewStep is the first traced statement, or the only step there is.
func previewStep(d *diagram.Diagram) int {
	return min(1, d.Steps-1)
}

// writePreview never fails rendering: diagram is already written and raster
// image is a convenience.
func writePreview(d *diagram.Diagram, outputName string, env *state.LocalEnv, log *zap.Logger) {
	if !env.Preview.IsValid() || env.Preview == config.PreviewFormatNone {
		return
	}

	var (
		doc  *etree.Document
		data []byte
		svg  string
		err  error
	)
	if doc, err = d.Snapshot(previewStep(d)); err == nil {
		if svg, err = doc.WriteToString(); err == nil {
			data, err = images.Preview([]byte(svg), env.Preview, env.Cfg.Preview.Width, env.Cfg.Preview.JPEGQuality)
		}
	}
	if err != nil {
		log.Warn("Unable to produce preview, skipping", zap.Error(err))
		return
	}

	name := siblingName(outputName, "", env.Preview.Ext())
	if err := prepareOutput(name, env.Overwrite, log); err != nil {
		log.Warn("Unable to write preview, skipping", zap.Error(err))
		return
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		log.Warn("Unable to write preview, skipping", zap.Error(err))
		return
	}
	log.Debug("Preview written", zap.String("file", name), zap.Stringer("format", env.Preview))
}
