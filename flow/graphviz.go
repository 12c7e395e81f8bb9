package flow

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Layouter turns DOT text into laid out SVG document.
type Layouter interface {
	Layout(dot []byte) ([]byte, error)
}

// Graphviz runs external "dot" program.
type Graphviz struct {
	Path string
	Args []string
	log  *zap.Logger
}

// NewGraphviz returns layouter which uses program at path, "dot" from PATH
// when empty.
func NewGraphviz(path string, args []string, log *zap.Logger) *Graphviz {
	if path == "" {
		path = "dot"
	}
	if len(args) == 0 {
		args = []string{"-Tsvg"}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Graphviz{Path: path, Args: args, log: log.Named("graphviz")}
}

// Layout runs Graphviz once and waits for it to finish. There are no retries
// and no timeouts: any failure means diagram cannot be produced.
func (g *Graphviz) Layout(dot []byte) ([]byte, error) {
	cmd := exec.Command(g.Path, g.Args...)
	cmd.Stdin = bytes.NewReader(dot)

	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	g.log.Debug("Running layout", zap.String("path", g.Path), zap.Strings("args", g.Args), zap.Int("input", len(dot)))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("graphviz failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("graphviz failed: %w", err)
	}
	if stdout.Len() == 0 {
		return nil, errors.New("graphviz produced no output")
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		g.log.Debug("Layout warnings", zap.String("stderr", msg))
	}
	return stdout.Bytes(), nil
}
