package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danmarauda/hausvoice/internal/filter"
	"github.com/danmarauda/hausvoice/internal/notify"
	"github.com/danmarauda/hausvoice/internal/results"
	"github.com/danmarauda/hausvoice/internal/transcript"
)

// fakeExtractor records fragments and answers via respond. A non-nil gate
// blocks each call until the test releases it, simulating a slow oracle.
type fakeExtractor struct {
	mu      sync.Mutex
	calls   []string
	gate    chan struct{}
	respond func(fragment string) (filter.Update, error)
}

func (f *fakeExtractor) Extract(_ context.Context, fragment string, _ filter.Criteria) (filter.Update, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fragment)
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.respond != nil {
		return f.respond(fragment)
	}
	return filter.Update{}, nil
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeExtractor) call(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

type countingProjector struct {
	mu    sync.Mutex
	calls int
	last  filter.Criteria
}

func (p *countingProjector) Project(c filter.Criteria) []results.Listing {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.last = c
	return []results.Listing{{ID: 1, Title: "Stub Listing"}}
}

func (p *countingProjector) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func newTestSession(cfg Config, ex *fakeExtractor, pr *countingProjector, capture transcript.Factory) *Session {
	return New(cfg, ex, pr, capture, notify.Nop{}, Events{})
}

func waitForStatus(t *testing.T, s *Session, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Status() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("status = %v, want %v", s.Status(), want)
}

func waitForCalls(t *testing.T, ex *fakeExtractor, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ex.callCount() >= want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("extractor calls = %d, want %d", ex.callCount(), want)
}

func TestControlPhraseSubmitsWithoutOracle(t *testing.T) {
	ex := &fakeExtractor{}
	pr := &countingProjector{}
	s := newTestSession(Config{}, ex, pr, nil)

	s.Say("find my haus")

	if got := s.Status(); got != StatusDone {
		t.Fatalf("status = %v, want %v", got, StatusDone)
	}
	if n := ex.callCount(); n != 0 {
		t.Errorf("extractor calls = %d, want 0", n)
	}
	if n := pr.callCount(); n != 1 {
		t.Errorf("projector calls = %d, want 1", n)
	}
	if s.Results() == nil {
		t.Error("Results() = nil after submit")
	}
}

func TestControlPhraseSurvivesPunctuation(t *testing.T) {
	ex := &fakeExtractor{}
	pr := &countingProjector{}
	s := newTestSession(Config{}, ex, pr, nil)

	s.Say("Find.")

	if got := s.Status(); got != StatusDone {
		t.Fatalf("status = %v, want %v", got, StatusDone)
	}
	if n := ex.callCount(); n != 0 {
		t.Errorf("extractor calls = %d, want 0", n)
	}
}

func TestShortFragmentSkipsOracle(t *testing.T) {
	ex := &fakeExtractor{}
	pr := &countingProjector{}
	s := newTestSession(Config{}, ex, pr, nil)

	s.Say("hi")

	if n := ex.callCount(); n != 0 {
		t.Errorf("extractor calls = %d, want 0", n)
	}
	if got := s.Status(); got != StatusIdle {
		t.Errorf("status = %v, want %v", got, StatusIdle)
	}
	if n := s.Criteria().RecognizedCount(); n != 0 {
		t.Errorf("recognized = %d, want 0", n)
	}
}

func TestStaleExtractionDiscardedAfterCancel(t *testing.T) {
	gate := make(chan struct{})
	ex := &fakeExtractor{
		gate: gate,
		respond: func(string) (filter.Update, error) {
			return filter.Update{Location: filter.NewField("Sydney, NSW", "Sydney")}, nil
		},
	}
	pr := &countingProjector{}
	s := newTestSession(Config{}, ex, pr, nil)

	s.Say("somewhere sunny please")
	waitForCalls(t, ex, 1)
	if got := s.Status(); got != StatusProcessing {
		t.Fatalf("status = %v, want %v", got, StatusProcessing)
	}

	s.Cancel()
	if got := s.Status(); got != StatusIdle {
		t.Fatalf("status after cancel = %v, want %v", got, StatusIdle)
	}

	close(gate)
	s.Close()

	if loc := s.Criteria().Location; loc != nil {
		t.Errorf("Location = %q after stale result, want unset", *loc)
	}
	if got := s.Status(); got != StatusIdle {
		t.Errorf("status = %v, want %v", got, StatusIdle)
	}
}

func TestPendingFragmentCoalesces(t *testing.T) {
	gate := make(chan struct{}, 2)
	ex := &fakeExtractor{gate: gate}
	pr := &countingProjector{}
	s := newTestSession(Config{}, ex, pr, nil)

	s.Say("something with a pool and garden")
	waitForCalls(t, ex, 1)

	// Finalized while the first call is in flight: queued, not sent.
	s.Say("also needs a gym nearby")
	if n := ex.callCount(); n != 1 {
		t.Fatalf("extractor calls = %d, want 1 while in flight", n)
	}

	gate <- struct{}{}
	waitForCalls(t, ex, 2)
	if got := ex.call(1); got != "also needs a gym nearby" {
		t.Errorf("second fragment = %q, want the queued text", got)
	}

	gate <- struct{}{}
	waitForStatus(t, s, StatusConfirming)
}

func TestSpotterAndOracleAccumulate(t *testing.T) {
	ex := &fakeExtractor{
		respond: func(fragment string) (filter.Update, error) {
			if strings.Contains(fragment, "Sydney") {
				return filter.Update{Location: filter.NewField("Sydney, NSW", "Sydney")}, nil
			}
			return filter.Update{}, nil
		},
	}
	pr := &countingProjector{}
	capture := func() (transcript.Source, error) {
		return transcript.NewScriptedSource(0,
			transcript.Chunk{Text: "two bedroom"},
			transcript.Chunk{Text: "two bedroom apartment in Sydney", Final: true},
		), nil
	}
	s := newTestSession(Config{}, ex, pr, capture)

	if err := s.StartListening(); err != nil {
		t.Fatalf("StartListening: %v", err)
	}
	waitForStatus(t, s, StatusConfirming)

	c := s.Criteria()
	if c.PropertyType == nil || *c.PropertyType != filter.Apartment {
		t.Errorf("PropertyType = %v, want Apartment", c.PropertyType)
	}
	if c.BedroomsMin == nil || *c.BedroomsMin != 2 {
		t.Errorf("BedroomsMin = %v, want 2", c.BedroomsMin)
	}
	if c.Location == nil || *c.Location != "Sydney, NSW" {
		t.Errorf("Location = %v, want Sydney, NSW", c.Location)
	}
	found := false
	for _, h := range s.Highlights() {
		if strings.EqualFold(h, "Sydney") {
			found = true
		}
	}
	if !found {
		t.Errorf("Highlights = %v, want to include Sydney", s.Highlights())
	}

	s.Submit()
	if got := s.Status(); got != StatusDone {
		t.Fatalf("status = %v, want %v", got, StatusDone)
	}
	if n := pr.callCount(); n != 1 {
		t.Errorf("projector calls = %d, want 1", n)
	}
	if pr.last.Location == nil || *pr.last.Location != "Sydney, NSW" {
		t.Errorf("projected Location = %v, want Sydney, NSW", pr.last.Location)
	}

	// Submitting again from Done must not re-project.
	s.Submit()
	if n := pr.callCount(); n != 1 {
		t.Errorf("projector calls after second submit = %d, want 1", n)
	}
}

func TestCancelResetsCriteriaButKeepsTags(t *testing.T) {
	ex := &fakeExtractor{}
	pr := &countingProjector{}
	s := newTestSession(Config{}, ex, pr, nil)

	if on := s.ToggleTag(filter.TagPremium); !on {
		t.Fatal("ToggleTag = false, want true")
	}
	s.Say("a house with a pool")
	waitForStatus(t, s, StatusConfirming)

	s.Cancel()
	c := s.Criteria()
	if c.PropertyType != nil {
		t.Errorf("PropertyType = %v after cancel, want unset", *c.PropertyType)
	}
	if len(c.Amenities) != 0 {
		t.Errorf("Amenities = %v after cancel, want none", c.Amenities)
	}
	if !c.HasTag(filter.TagPremium) {
		t.Error("premium tag lost on cancel, want kept")
	}
	if got := s.Transcript(); got != "" {
		t.Errorf("Transcript = %q after cancel, want empty", got)
	}
}

func TestCaptureWithNothingRecognizedSettlesIdle(t *testing.T) {
	ex := &fakeExtractor{}
	pr := &countingProjector{}
	capture := func() (transcript.Source, error) {
		return transcript.NewScriptedSource(0,
			transcript.Chunk{Text: "mumble mumble mumble", Final: true},
		), nil
	}
	s := newTestSession(Config{}, ex, pr, capture)

	if err := s.StartListening(); err != nil {
		t.Fatalf("StartListening: %v", err)
	}
	waitForStatus(t, s, StatusIdle)
	waitForCalls(t, ex, 1)
}

func TestStartListeningWithoutBackend(t *testing.T) {
	ex := &fakeExtractor{}
	pr := &countingProjector{}
	s := newTestSession(Config{}, ex, pr, nil)

	if err := s.StartListening(); err != transcript.ErrUnsupported {
		t.Fatalf("StartListening = %v, want ErrUnsupported", err)
	}
	if got := s.Status(); got != StatusIdle {
		t.Errorf("status = %v, want %v", got, StatusIdle)
	}
}

func TestDemoExitsOnFirstActivity(t *testing.T) {
	ex := &fakeExtractor{}
	pr := &countingProjector{}
	s := newTestSession(Config{StartInDemo: true}, ex, pr, nil)

	if got := s.Status(); got != StatusDemo {
		t.Fatalf("status = %v, want %v", got, StatusDemo)
	}

	// Tag toggles are direct UI actions and do not leave demo mode.
	s.ToggleTag(filter.TagNew)
	if got := s.Status(); got != StatusDemo {
		t.Errorf("status after tag toggle = %v, want %v", got, StatusDemo)
	}

	s.Say("hi")
	if got := s.Status(); got != StatusIdle {
		t.Errorf("status after typed input = %v, want %v", got, StatusIdle)
	}
}

func TestSayStartsFreshAfterDone(t *testing.T) {
	ex := &fakeExtractor{}
	pr := &countingProjector{}
	s := newTestSession(Config{}, ex, pr, nil)

	s.Say("a condo downtown")
	waitForStatus(t, s, StatusConfirming)
	s.Submit()
	waitForStatus(t, s, StatusDone)

	s.Say("a villa with a garden")
	waitForStatus(t, s, StatusConfirming)
	c := s.Criteria()
	if c.PropertyType == nil || *c.PropertyType != filter.House {
		t.Errorf("PropertyType = %v, want House from the new session", c.PropertyType)
	}
	if s.Results() != nil {
		t.Error("Results() survived the reset, want nil")
	}
}

// manualSource hands the chunk stream to the test: chunks are sent and the
// stream is closed by hand, so the drain order of overlapping captures is
// fully controlled.
type manualSource struct {
	ch chan transcript.Chunk
}

func newManualSource() *manualSource {
	return &manualSource{ch: make(chan transcript.Chunk)}
}

func (m *manualSource) Start(context.Context) error     { return nil }
func (m *manualSource) Chunks() <-chan transcript.Chunk { return m.ch }
func (m *manualSource) Stop() error                     { return nil }

func TestCancelThenRestartIgnoresOldStream(t *testing.T) {
	ex := &fakeExtractor{}
	pr := &countingProjector{}
	first := newManualSource()
	second := newManualSource()

	var mu sync.Mutex
	queue := []*manualSource{first, second}
	factory := func() (transcript.Source, error) {
		mu.Lock()
		defer mu.Unlock()
		src := queue[0]
		queue = queue[1:]
		return src, nil
	}
	s := newTestSession(Config{}, ex, pr, factory)
	defer s.Close()

	if err := s.StartListening(); err != nil {
		t.Fatalf("StartListening: %v", err)
	}
	s.Cancel()
	if err := s.StartListening(); err != nil {
		t.Fatalf("StartListening after cancel: %v", err)
	}
	waitForStatus(t, s, StatusListening)

	// The first capture drains only now. Its leftover chunk and its close
	// belong to the cancelled phase and must not touch the new one.
	first.ch <- transcript.Chunk{Text: "house in the hills", Final: true}
	close(first.ch)

	second.ch <- transcript.Chunk{Text: "a two bedroom apartment"}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c := s.Criteria(); c.PropertyType != nil {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}
	c := s.Criteria()
	if c.PropertyType == nil || *c.PropertyType != filter.Apartment {
		t.Fatalf("PropertyType = %v, want Apartment from the live capture", c.PropertyType)
	}
	if got := s.Status(); got != StatusListening {
		t.Fatalf("status = %v, want %v after the old stream ended", got, StatusListening)
	}
	if n := ex.callCount(); n != 0 {
		t.Errorf("extractor calls = %d, want 0 (old final chunk must be dropped)", n)
	}

	close(second.ch)
	waitForStatus(t, s, StatusConfirming)
}
