package notify

import (
	"fmt"
	"log"
	"os/exec"
)

// Notifier surfaces session milestones to the user outside the terminal.
type Notifier interface {
	ListeningChanged(on bool)
	ReadyToSearch(fields int)
	SearchSubmitted(resultCount int)
	Cancelled()
	Error(msg string)
}

// Desktop sends desktop notifications via notify-send.
type Desktop struct{}

func (Desktop) ListeningChanged(on bool) {
	state := "Stopped listening"
	if on {
		state = "Listening"
	}
	send(fmt.Sprintf("Hausvoice: %s", state), false)
}

func (Desktop) ReadyToSearch(fields int) {
	send(fmt.Sprintf("Hausvoice: %d criteria recognized, say \"find my haus\" to search", fields), false)
}

func (Desktop) SearchSubmitted(resultCount int) {
	send(fmt.Sprintf("Hausvoice: found %d properties", resultCount), false)
}

func (Desktop) Cancelled() {
	send("Hausvoice: search cancelled", false)
}

func (Desktop) Error(msg string) {
	send(msg, true)
}

func send(msg string, critical bool) {
	args := []string{"-a", "Hausvoice"}
	if critical {
		args = append(args, "-u", "critical")
	}
	args = append(args, msg)
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		log.Printf("notify: failed to send notification: %v", err)
	}
}

// Log writes notifications to the process log instead of the desktop.
type Log struct{}

func (Log) ListeningChanged(on bool) { log.Printf("notify: listening=%v", on) }

func (Log) ReadyToSearch(fields int) { log.Printf("notify: ready to search, fields=%d", fields) }

func (Log) SearchSubmitted(resultCount int) { log.Printf("notify: submitted, results=%d", resultCount) }

func (Log) Cancelled() { log.Printf("notify: cancelled") }

func (Log) Error(msg string) { log.Printf("notify: error: %s", msg) }

// Nop is a Notifier that does absolutely nothing.
// Useful in unit tests or headless builds.
type Nop struct{}

func (Nop) ListeningChanged(on bool) {}

func (Nop) ReadyToSearch(fields int) {}

func (Nop) SearchSubmitted(resultCount int) {}

func (Nop) Cancelled() {}

func (Nop) Error(msg string) {}
