package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/danmarauda/hausvoice/internal/filter"
	"github.com/danmarauda/hausvoice/internal/notify"
	"github.com/danmarauda/hausvoice/internal/results"
	"github.com/danmarauda/hausvoice/internal/session"
)

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, _ string, _ filter.Criteria) (filter.Update, error) {
	return filter.Update{}, nil
}

func testDaemon() *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	return &Daemon{
		ctx:    ctx,
		cancel: cancel,
		session: session.New(
			session.Config{},
			stubExtractor{},
			results.NewSeededMockProjector(1, time.Now),
			nil,
			notify.Nop{},
			session.Events{},
		),
	}
}

// roundTrip drives one command line through handle and returns the response.
func roundTrip(t *testing.T, d *Daemon, line string) string {
	t.Helper()
	server, client := net.Pipe()
	go d.handle(server)

	if _, err := client.Write([]byte(line)); err != nil {
		t.Fatalf("write: %v", err)
	}
	resp, err := bufio.NewReader(client).ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	client.Close()
	return strings.TrimRight(resp, "\n")
}

func TestHandleStatus(t *testing.T) {
	d := testDaemon()
	resp := roundTrip(t, d, "s\n")
	if !strings.Contains(resp, "status=idle") {
		t.Errorf("status response = %q, want idle", resp)
	}
}

func TestHandleSayAndSnapshot(t *testing.T) {
	d := testDaemon()

	resp := roundTrip(t, d, "ta two bedroom apartment\n")
	if !strings.HasPrefix(resp, "OK") {
		t.Fatalf("say response = %q, want OK", resp)
	}

	snapLine := roundTrip(t, d, "j\n")
	var snap Snapshot
	if err := json.Unmarshal([]byte(snapLine), &snap); err != nil {
		t.Fatalf("snapshot JSON: %v (%q)", err, snapLine)
	}
	if snap.Criteria.PropertyType == nil || *snap.Criteria.PropertyType != filter.Apartment {
		t.Errorf("snapshot PropertyType = %v, want Apartment", snap.Criteria.PropertyType)
	}
	if snap.Criteria.BedroomsMin == nil || *snap.Criteria.BedroomsMin != 2 {
		t.Errorf("snapshot BedroomsMin = %v, want 2", snap.Criteria.BedroomsMin)
	}
	if snap.Transcript == "" {
		t.Error("snapshot transcript empty, want the typed text")
	}
}

func TestHandleTag(t *testing.T) {
	d := testDaemon()

	resp := roundTrip(t, d, "gpremium\n")
	if !strings.Contains(resp, "tag=premium on=true") {
		t.Errorf("tag response = %q, want on=true", resp)
	}
	resp = roundTrip(t, d, "gpremium\n")
	if !strings.Contains(resp, "on=false") {
		t.Errorf("second toggle response = %q, want on=false", resp)
	}
	resp = roundTrip(t, d, "gbogus\n")
	if !strings.HasPrefix(resp, "ERR") {
		t.Errorf("bogus tag response = %q, want ERR", resp)
	}
}

func TestHandleFindProjectsOnce(t *testing.T) {
	d := testDaemon()

	resp := roundTrip(t, d, "tcondo with a pool\n")
	if !strings.HasPrefix(resp, "OK") {
		t.Fatalf("say response = %q, want OK", resp)
	}
	resp = roundTrip(t, d, "f\n")
	if !strings.HasPrefix(resp, "OK results=") {
		t.Fatalf("find response = %q, want OK results=", resp)
	}
	if d.session.Status() != session.StatusDone {
		t.Errorf("status = %v, want done", d.session.Status())
	}
}

func TestHandleUnknownCommand(t *testing.T) {
	d := testDaemon()
	resp := roundTrip(t, d, "x\n")
	if !strings.HasPrefix(resp, "ERR unknown") {
		t.Errorf("response = %q, want ERR unknown", resp)
	}
}
