package state

import (
	"time"

	"tracediag/config"
	"tracediag/trace"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:      time.Now(),
		Preview:    config.PreviewFormatNone,
		tokenizers: make(map[string]trace.Tokenizer),
	}
}
