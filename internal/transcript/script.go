package transcript

import (
	"context"
	"sync"
	"time"
)

// ScriptedSource replays a fixed sequence of chunks. It backs tests and the
// typed-input path, where a whole utterance arrives at once as a single final
// chunk.
type ScriptedSource struct {
	chunks []Chunk
	delay  time.Duration

	mu      sync.Mutex
	out     chan Chunk
	cancel  context.CancelFunc
	started bool
	wg      sync.WaitGroup
}

// NewScriptedSource creates a source that emits the given chunks in order,
// waiting delay between emissions (zero for immediate replay).
func NewScriptedSource(delay time.Duration, chunks ...Chunk) *ScriptedSource {
	return &ScriptedSource{chunks: chunks, delay: delay}
}

func (s *ScriptedSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.out = make(chan Chunk)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(s.out)
		for _, c := range s.chunks {
			if s.delay > 0 {
				select {
				case <-runCtx.Done():
					return
				case <-time.After(s.delay):
				}
			}
			select {
			case s.out <- c:
			case <-runCtx.Done():
				return
			}
		}
	}()
	return nil
}

func (s *ScriptedSource) Chunks() <-chan Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out
}

func (s *ScriptedSource) Stop() error {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	return nil
}
