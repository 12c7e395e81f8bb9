// Package render implements "render" command: it turns a trace file into an
// animated diagram and optional static artifacts next to it.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"tracediag/config"
	"tracediag/flow"
	"tracediag/state"
)

// Inputs names what diagrams are produced from.
type Inputs struct {
	// Trace is path to trace file (YAML or JSON), to a directory or a zip
	// archive with trace files, or to a path inside such archive.
	Trace string
	// Source is path to program source, when empty trace must carry it.
	// Used only when Trace is a single file.
	Source string
	// Flow is path to flow diagram: SVG is used as is, DOT is laid out. When
	// empty flow graph from the trace is laid out. Used only when Trace is a
	// single file.
	Flow string
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("render")

	in := Inputs{
		Trace:  cmd.Args().Get(0),
		Source: cmd.String("source"),
		Flow:   cmd.String("flow"),
	}
	if len(in.Trace) == 0 {
		return errors.New("no trace has been specified")
	}
	if in.Trace, err = filepath.Abs(in.Trace); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Preview = env.Cfg.Preview.Format
	if p := cmd.String("preview"); len(p) > 0 {
		if env.Preview, err = config.ParsePreviewFormat(p); err != nil {
			log.Warn("Unknown preview format requested, previews are disabled", zap.Error(err))
			env.Preview = config.PreviewFormatNone
		}
	}

	if env.Cfg.Diagram.StylesheetPath != "" {
		data, err := os.ReadFile(env.Cfg.Diagram.StylesheetPath)
		if err != nil {
			return fmt.Errorf("unable to read style css from %q: %w", env.Cfg.Diagram.StylesheetPath, err)
		}
		env.ExtraStyle = data
	}

	env.Overwrite, env.Snapshots = cmd.Bool("overwrite"), cmd.Bool("snapshots")
	env.Language = cmd.String("lang")

	// Tracers on some systems still save program text in legacy code pages
	cp := cmd.String("source-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Decoding program source", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("trace", in.Trace), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	layouter := flow.NewGraphviz(env.Cfg.Layout.DotPath, env.Cfg.Layout.Args, log)
	return dispatch(ctx, in, dst, layouter, log)
}
