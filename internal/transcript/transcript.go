// Package transcript defines the transcript source contract: an ordered
// stream of text chunks, each either interim (may still change) or final
// (will not change again), delivered for the lifetime of one capture session.
package transcript

import (
	"context"
	"errors"
)

// Chunk is one piece of transcribed text. Final chunks carry the newly
// finalized suffix of the utterance; interim chunks carry the current unstable
// tail and may be revised by later chunks.
type Chunk struct {
	Text  string
	Final bool
}

// Source produces chunks for one capture session. End of capture, whether
// requested via Stop or signaled naturally by the backend, is reported by
// closing the Chunks channel. A Source is single-use: create a new one per
// capture session.
type Source interface {
	Start(ctx context.Context) error
	Chunks() <-chan Chunk
	Stop() error
}

// ErrUnsupported is returned when no capture backend is available in this
// environment. The capability will not change at runtime, so callers report
// it once and do not retry.
var ErrUnsupported = errors.New("speech capture not supported in this environment")

// Factory creates a fresh Source per capture session. The session machine
// takes a Factory rather than a Source so every listening phase gets its own
// stream.
type Factory func() (Source, error)
