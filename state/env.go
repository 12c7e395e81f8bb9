// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"tracediag/config"
	"tracediag/lexer"
	"tracediag/trace"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by render subcommand
	Overwrite  bool
	Snapshots  bool
	Language   string
	Preview    config.PreviewFormat
	CodePage   encoding.Encoding
	ExtraStyle []byte

	tokenizers    map[string]trace.Tokenizer
	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// Tokenizer returns tokenizer for language. Lexers are created once per
// language and reused for every trace processed.
func (e *LocalEnv) Tokenizer(language string) (trace.Tokenizer, error) {
	if t, ok := e.tokenizers[language]; ok {
		return t, nil
	}
	l, err := lexer.New(language)
	if err != nil {
		return nil, fmt.Errorf("unable to tokenize %q programs: %w", language, err)
	}
	if e.tokenizers == nil {
		e.tokenizers = make(map[string]trace.Tokenizer)
	}
	e.tokenizers[language] = l
	return l, nil
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
