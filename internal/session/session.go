// Package session implements the search session state machine. It owns the
// lifecycle Demo → Idle → Listening → Processing → Confirming → Done, folds
// spotter and oracle updates into the criteria accumulator, and arbitrates
// concurrency: one extraction in flight at a time, stale completions fenced
// off by an epoch counter.
package session

import (
	"context"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/danmarauda/hausvoice/internal/filter"
	"github.com/danmarauda/hausvoice/internal/notify"
	"github.com/danmarauda/hausvoice/internal/oracle"
	"github.com/danmarauda/hausvoice/internal/results"
	"github.com/danmarauda/hausvoice/internal/spotter"
	"github.com/danmarauda/hausvoice/internal/transcript"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusDemo       Status = "demo"
	StatusIdle       Status = "idle"
	StatusListening  Status = "listening"
	StatusProcessing Status = "processing"
	StatusConfirming Status = "confirming"
	StatusDone       Status = "done"
)

// Control phrases submit the search immediately, bypassing length checks and
// the extraction oracle.
var controlPhrase = regexp.MustCompile(`^(search|let's go|lets go|find|ok|find my house|find my haus)$`)

// Config tunes session behavior. Zero values select the defaults.
type Config struct {
	// MinFragmentRunes is the shortest finalized fragment worth sending to
	// the oracle. Shorter fragments still pass through the spotter via the
	// rolling transcript.
	MinFragmentRunes int
	// ExtractTimeout bounds a single oracle call.
	ExtractTimeout time.Duration
	// GlowTTL is how long a freshly recognized field stays marked.
	GlowTTL time.Duration
	// StartInDemo starts the session in demo mode until the first real
	// capture or typed input.
	StartInDemo bool
}

const (
	defaultMinFragmentRunes = 3
	defaultExtractTimeout   = 30 * time.Second
)

func (c Config) withDefaults() Config {
	if c.MinFragmentRunes <= 0 {
		c.MinFragmentRunes = defaultMinFragmentRunes
	}
	if c.ExtractTimeout <= 0 {
		c.ExtractTimeout = defaultExtractTimeout
	}
	if c.GlowTTL <= 0 {
		c.GlowTTL = filter.DefaultGlowTTL
	}
	return c
}

// Events are optional observer callbacks, invoked with the session lock held.
// Handlers must return quickly and must not call back into the Session; hand
// off to a channel or goroutine for anything heavier.
type Events struct {
	StatusChanged     func(Status)
	CriteriaChanged   func(c filter.Criteria, changed []filter.Key)
	TranscriptChanged func(text string, highlights []string)
	ResultsReady      func(listings []results.Listing, c filter.Criteria)
}

// Session is the state machine. All exported methods are safe for concurrent
// use.
type Session struct {
	mu sync.Mutex
	wg sync.WaitGroup

	cfg       Config
	extractor oracle.Extractor
	projector results.Projector
	capture   transcript.Factory
	notifier  notify.Notifier
	events    Events

	status Status

	// epoch fences asynchronous work: every extraction goroutine carries the
	// epoch it was launched under, and a completion whose epoch no longer
	// matches is discarded. Cancel, Submit and reset all advance the epoch.
	epoch uint64

	acc  *filter.Accumulator
	glow *filter.GlowSet

	source        transcript.Source
	captureCancel context.CancelFunc
	captureActive bool

	// finalText accumulates finalized chunks; interim is the current unstable
	// tail; spotted is the prefix length of the combined transcript already
	// scanned by the keyword spotter.
	finalText string
	interim   string
	spotted   int

	// One extraction in flight at a time. Fragments finalized while one is
	// running coalesce into pending and go out as a single follow-up call.
	inFlight bool
	pending  string

	lastResults []results.Listing
}

// New creates a session. The capture factory may be nil when no audio backend
// exists; StartListening then reports transcript.ErrUnsupported.
func New(cfg Config, ex oracle.Extractor, pr results.Projector, capture transcript.Factory, n notify.Notifier, ev Events) *Session {
	cfg = cfg.withDefaults()
	if n == nil {
		n = notify.Nop{}
	}
	status := StatusIdle
	if cfg.StartInDemo {
		status = StatusDemo
	}
	return &Session{
		cfg:       cfg,
		extractor: ex,
		projector: pr,
		capture:   capture,
		notifier:  n,
		events:    ev,
		status:    status,
		acc:       filter.NewAccumulator(),
		glow:      filter.NewGlowSet(cfg.GlowTTL),
	}
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Criteria returns a deep copy of the accumulated criteria.
func (s *Session) Criteria() filter.Criteria {
	return s.acc.Snapshot()
}

// Highlights returns the transcript substrings recognized so far.
func (s *Session) Highlights() []string {
	return s.acc.Highlights()
}

// GlowingKeys returns the criteria keys recognized within the glow window.
func (s *Session) GlowingKeys() []filter.Key {
	return s.glow.Active()
}

// Transcript returns the rolling display transcript: finalized text plus the
// current interim tail.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcriptLocked()
}

// Results returns the listings from the most recent submit, nil before the
// first one.
func (s *Session) Results() []results.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResults
}

// StartListening begins a capture session. From Done it first resets to a
// fresh session; from Confirming it resumes, keeping the accumulated criteria
// so the user can add more. From Listening or Processing it is a no-op.
func (s *Session) StartListening() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exitDemoLocked()
	switch s.status {
	case StatusListening, StatusProcessing:
		return nil
	case StatusDone:
		s.resetLocked()
		s.setStatusLocked(StatusIdle)
	}
	if s.status == StatusIdle {
		// Fresh listening phase: criteria restart from scratch except tags.
		s.resetLocked()
	} else {
		// Resuming from Confirming keeps criteria and highlights but the
		// transcript restarts.
		s.finalText = ""
		s.interim = ""
		s.spotted = 0
		s.emitTranscriptLocked()
	}

	if s.capture == nil {
		s.notifier.Error("Hausvoice: no speech capture backend available")
		return transcript.ErrUnsupported
	}
	src, err := s.capture()
	if err != nil {
		s.notifier.Error("Hausvoice: speech capture unavailable")
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := src.Start(ctx); err != nil {
		cancel()
		s.notifier.Error("Hausvoice: failed to start speech capture")
		return err
	}

	s.source = src
	s.captureCancel = cancel
	s.captureActive = true
	s.setStatusLocked(StatusListening)
	s.notifier.ListeningChanged(true)

	s.wg.Add(1)
	go s.consume(src)
	return nil
}

// StopListening ends the capture phase without discarding anything. The
// session settles into Confirming or Idle once the stream drains, or stays in
// Processing until the in-flight extraction lands.
func (s *Session) StopListening() {
	s.mu.Lock()
	src := s.source
	s.mu.Unlock()
	if src == nil {
		return
	}
	if err := src.Stop(); err != nil {
		log.Printf("session: stopping capture: %v", err)
	}
}

// Cancel aborts the session: capture stops, in-flight extraction results are
// fenced off, criteria reset (tags survive) and the status returns to Idle.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exitDemoLocked()
	s.stopCaptureLocked()
	s.resetLocked()
	s.setStatusLocked(StatusIdle)
	s.notifier.Cancelled()
}

// Submit finalizes the current criteria and projects results exactly once,
// regardless of capture state or in-flight extractions.
func (s *Session) Submit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitLocked()
}

// Say injects typed text, following the same path as a finalized transcript
// chunk: spotter first, then control phrase, length gate and oracle.
func (s *Session) Say(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exitDemoLocked()
	switch s.status {
	case StatusDone:
		s.resetLocked()
		s.setStatusLocked(StatusIdle)
	}
	s.ingestFinalLocked(text)
}

// ToggleTag flips a permanent tag and reports its new state. Tags are direct
// UI actions: they work in every status and do not leave demo mode.
func (s *Session) ToggleTag(t filter.Tag) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	on := s.acc.ToggleTag(t)
	if s.events.CriteriaChanged != nil {
		s.events.CriteriaChanged(s.acc.Snapshot(), []filter.Key{filter.Key(t)})
	}
	return on
}

// Close shuts the session down and waits for its goroutines. In-flight
// extraction results are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	s.epoch++
	s.inFlight = false
	s.pending = ""
	s.stopCaptureLocked()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Session) consume(src transcript.Source) {
	defer s.wg.Done()
	for c := range src.Chunks() {
		s.handleChunk(src, c)
	}
	s.onCaptureEnd(src)
}

// handleChunk and onCaptureEnd only act for the capture they belong to. A
// cancelled source may drain after a new listening phase has installed a
// fresh one; its leftover chunks and its close must not touch the new
// capture.
func (s *Session) handleChunk(src transcript.Source, c transcript.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source != src {
		return
	}
	if c.Final {
		s.ingestFinalLocked(c.Text)
		return
	}
	s.interim = c.Text
	s.spotNewTextLocked()
}

func (s *Session) onCaptureEnd(src transcript.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source != src {
		return
	}
	s.captureActive = false
	s.source = nil
	s.captureCancel = nil
	s.notifier.ListeningChanged(false)

	// If an extraction is still running the settle decision belongs to its
	// completion handler.
	if s.status != StatusListening {
		return
	}
	s.settleLocked()
}

// ingestFinalLocked appends a finalized fragment to the transcript, runs the
// spotter over the new text and routes the fragment to the oracle path.
func (s *Session) ingestFinalLocked(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	if s.finalText != "" {
		s.finalText += " "
	}
	s.finalText += trimmed
	s.interim = ""
	s.spotNewTextLocked()
	s.processFragmentLocked(trimmed)
}

// processFragmentLocked decides what a finalized fragment means: a control
// phrase submits, short noise is dropped, everything else goes to the oracle
// (or queues behind the in-flight call).
func (s *Session) processFragmentLocked(fragment string) {
	if isControlPhrase(fragment) {
		s.submitLocked()
		return
	}
	if utf8.RuneCountInString(fragment) < s.cfg.MinFragmentRunes {
		return
	}
	if s.inFlight {
		if s.pending != "" {
			s.pending += " "
		}
		s.pending += fragment
		return
	}
	s.startExtractionLocked(fragment)
}

func (s *Session) startExtractionLocked(fragment string) {
	s.inFlight = true
	s.setStatusLocked(StatusProcessing)

	epoch := s.epoch
	current := s.acc.Snapshot()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ExtractTimeout)
		defer cancel()
		u, err := s.extractor.Extract(ctx, fragment, current)
		s.finishExtraction(epoch, u, err)
	}()
}

func (s *Session) finishExtraction(epoch uint64, u filter.Update, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		log.Printf("session: discarding stale extraction result (epoch %d, now %d)", epoch, s.epoch)
		return
	}
	s.inFlight = false
	if err != nil {
		log.Printf("session: extraction failed: %v", err)
	} else {
		s.applyUpdateLocked(u)
	}

	if s.pending != "" {
		next := s.pending
		s.pending = ""
		s.processFragmentLocked(next)
		if s.inFlight || s.status == StatusDone {
			return
		}
	}
	s.settleLocked()
}

// settleLocked moves out of Processing (or a finished Listening phase) into
// the state the facts support: Listening while capture continues, Confirming
// when something was recognized, Idle otherwise.
func (s *Session) settleLocked() {
	if s.captureActive {
		s.setStatusLocked(StatusListening)
		return
	}
	if n := s.acc.Snapshot().RecognizedCount(); n > 0 {
		if s.status != StatusConfirming {
			s.setStatusLocked(StatusConfirming)
			s.notifier.ReadyToSearch(n)
		}
		return
	}
	s.setStatusLocked(StatusIdle)
}

func (s *Session) submitLocked() {
	if s.status == StatusDone {
		return
	}
	s.epoch++
	s.inFlight = false
	s.pending = ""
	s.stopCaptureLocked()
	s.setStatusLocked(StatusDone)

	criteria := s.acc.Snapshot()
	s.lastResults = s.projector.Project(criteria)
	if s.events.ResultsReady != nil {
		s.events.ResultsReady(s.lastResults, criteria)
	}
	s.notifier.SearchSubmitted(len(s.lastResults))
}

// spotNewTextLocked runs the keyword spotter over transcript text not yet
// scanned. Interim revisions may shrink the transcript; the scan then restarts
// from the beginning, which is safe because merges are idempotent.
func (s *Session) spotNewTextLocked() {
	full := s.transcriptLocked()
	if s.spotted > len(full) {
		s.spotted = 0
	}
	fresh := full[s.spotted:]
	s.spotted = len(full)
	if fresh != "" {
		s.applyUpdateLocked(spotter.Spot(fresh, s.acc.Snapshot()))
	}
	s.emitTranscriptLocked()
}

func (s *Session) applyUpdateLocked(u filter.Update) {
	if u.IsEmpty() {
		return
	}
	changed := s.acc.Merge(u)
	if len(changed) == 0 {
		return
	}
	s.glow.Mark(changed...)
	if s.events.CriteriaChanged != nil {
		s.events.CriteriaChanged(s.acc.Snapshot(), changed)
	}
}

// resetLocked restores a fresh session: criteria cleared except permanent
// tags, transcript and highlights cleared, any in-flight work fenced off.
func (s *Session) resetLocked() {
	s.epoch++
	s.inFlight = false
	s.pending = ""
	s.acc.Reset()
	s.glow.Clear()
	s.finalText = ""
	s.interim = ""
	s.spotted = 0
	s.lastResults = nil
	s.emitTranscriptLocked()
	if s.events.CriteriaChanged != nil {
		s.events.CriteriaChanged(s.acc.Snapshot(), nil)
	}
}

func (s *Session) stopCaptureLocked() {
	if s.source == nil {
		return
	}
	src := s.source
	s.source = nil
	s.captureActive = false
	if s.captureCancel != nil {
		s.captureCancel()
		s.captureCancel = nil
	}
	if err := src.Stop(); err != nil {
		log.Printf("session: stopping capture: %v", err)
	}
	s.notifier.ListeningChanged(false)
}

func (s *Session) exitDemoLocked() {
	if s.status == StatusDemo {
		s.setStatusLocked(StatusIdle)
	}
}

func (s *Session) setStatusLocked(st Status) {
	if s.status == st {
		return
	}
	s.status = st
	if s.events.StatusChanged != nil {
		s.events.StatusChanged(st)
	}
}

func (s *Session) transcriptLocked() string {
	if s.interim == "" {
		return s.finalText
	}
	if s.finalText == "" {
		return s.interim
	}
	return s.finalText + " " + s.interim
}

func (s *Session) emitTranscriptLocked() {
	if s.events.TranscriptChanged != nil {
		s.events.TranscriptChanged(s.transcriptLocked(), s.acc.Highlights())
	}
}

func isControlPhrase(fragment string) bool {
	f := strings.ToLower(strings.TrimSpace(fragment))
	f = strings.TrimRight(f, ".,!?")
	return controlPhrase.MatchString(f)
}
