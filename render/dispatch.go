package render

import (
	"archive/zip"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tracediag/archive"
	"tracediag/flow"
)

// job is a single diagram to produce.
type job struct {
	// name of the trace relative to requested location, with extension
	name string
	// path of trace file on disk, empty for archived traces
	path string
	data []byte
	// optional separately supplied inputs
	source, flow string
	// destination directory
	dst string
}

var traceExts = []string{".yaml", ".yml", ".json"}

func isTraceName(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range traceExts {
		if ext == e {
			return true
		}
	}
	return false
}

// dispatch determines what kind of input was requested (directory, archive
// or single file) and renders every trace found. Failure of a single trace
// does not stop batch processing, all failures are reported at the end.
func dispatch(ctx context.Context, in Inputs, dst string, layouter flow.Layouter, log *zap.Logger) error {
	var head, tail string
	for head = in.Trace; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exist - probably path in archive
			continue
		}

		if fi.IsDir() {
			if len(tail) != 0 {
				return fmt.Errorf("trace was not found (%s) => (%s)", head, strings.TrimPrefix(in.Trace, head))
			}
			return processDir(ctx, in, head, dst, layouter, log)
		}
		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(in.Trace, head))
		}

		isArchive, err := archive.IsArchive(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			inner := filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(in.Trace, head), string(filepath.Separator)))
			return processArchive(ctx, in, head, inner, dst, layouter, log)
		}
		if len(tail) != 0 {
			return fmt.Errorf("trace was not found (%s) => (%s)", head, strings.TrimPrefix(in.Trace, head))
		}

		data, err := os.ReadFile(head)
		if err != nil {
			return fmt.Errorf("unable to read trace: %w", err)
		}
		return process(ctx, &job{
			name:   filepath.Base(head),
			path:   head,
			data:   data,
			source: in.Source,
			flow:   in.Flow,
			dst:    dst,
		}, layouter, log)
	}
	return fmt.Errorf("trace was not found (%s)", in.Trace)
}

func warnIgnored(in Inputs, log *zap.Logger) {
	if in.Source != "" || in.Flow != "" {
		log.Warn("Separately supplied source and flow are ignored when rendering multiple traces",
			zap.String("source", in.Source), zap.String("flow", in.Flow))
	}
}

// processDir walks directory tree rendering every trace file, output keeps
// directory structure.
func processDir(ctx context.Context, in Inputs, dir, dst string, layouter flow.Layouter, log *zap.Logger) (rerr error) {
	warnIgnored(in, log)

	count := 0
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", p), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() || !isTraceName(d.Name()) {
			return nil
		}
		count++

		rel, _ := filepath.Rel(dir, p)
		data, err := os.ReadFile(p)
		if err == nil {
			err = process(ctx, &job{
				name: rel,
				path: p,
				data: data,
				dst:  filepath.Join(dst, filepath.Dir(rel)),
			}, layouter, log)
		}
		if err != nil {
			log.Error("Unable to render trace", zap.String("file", p), zap.Error(err))
			rerr = multierr.Append(rerr, fmt.Errorf("%s: %w", rel, err))
		}
		return nil
	})
	if count == 0 {
		log.Warn("Nothing to render", zap.String("dir", dir))
	}
	return multierr.Append(err, rerr)
}

// processArchive renders every trace in archive under prefix.
func processArchive(ctx context.Context, in Inputs, name, prefix, dst string, layouter flow.Layouter, log *zap.Logger) (rerr error) {
	warnIgnored(in, log)

	count := 0
	err := archive.Walk(name, prefix, isTraceName, func(archivePath string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++

		data, err := archive.ReadFile(f)
		if err == nil {
			err = process(ctx, &job{
				name: filepath.FromSlash(f.Name),
				data: data,
				dst:  filepath.Join(dst, filepath.FromSlash(path.Dir(f.Name))),
			}, layouter, log)
		}
		if err != nil {
			log.Error("Unable to render trace in archive", zap.String("archive", archivePath), zap.String("file", f.Name), zap.Error(err))
			rerr = multierr.Append(rerr, fmt.Errorf("%s: %w", f.Name, err))
		}
		return nil
	})
	if err == nil && count == 0 {
		log.Warn("Nothing to render", zap.String("archive", name), zap.String("path", prefix))
	}
	return multierr.Append(err, rerr)
}
