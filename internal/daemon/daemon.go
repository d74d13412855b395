// Package daemon hosts the search session behind the control socket. One
// daemon instance owns one session at a time; the CLI talks to it through
// single-line commands.
package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmarauda/hausvoice/internal/bus"
	"github.com/danmarauda/hausvoice/internal/config"
	"github.com/danmarauda/hausvoice/internal/filter"
	"github.com/danmarauda/hausvoice/internal/oracle"
	"github.com/danmarauda/hausvoice/internal/results"
	"github.com/danmarauda/hausvoice/internal/session"
	"github.com/danmarauda/hausvoice/internal/transcript"
)

type Daemon struct {
	ctx    context.Context
	cancel context.CancelFunc

	manager *config.Manager
	session *session.Session
}

// Snapshot is the JSON shape returned for the snapshot command.
type Snapshot struct {
	Status     session.Status    `json:"status"`
	Criteria   filter.Criteria   `json:"criteria"`
	Transcript string            `json:"transcript"`
	Highlights []string          `json:"highlights,omitempty"`
	Glowing    []filter.Key      `json:"glowing,omitempty"`
	Results    []results.Listing `json:"results,omitempty"`
}

func New(manager *config.Manager) (*Daemon, error) {
	cfg := manager.GetConfig()

	extractor, err := oracle.New(cfg.ToOracleConfig())
	if err != nil {
		return nil, fmt.Errorf("building extraction oracle: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Daemon{
		ctx:     ctx,
		cancel:  cancel,
		manager: manager,
	}
	d.session = session.New(
		cfg.ToSessionConfig(),
		extractor,
		results.NewMockProjector(),
		d.captureFactory(),
		cfg.ToNotifier(),
		session.Events{},
	)
	return d, nil
}

// captureFactory builds a fresh transcript source per listening phase from
// the live configuration, so config reloads take effect on the next capture.
func (d *Daemon) captureFactory() transcript.Factory {
	return func() (transcript.Source, error) {
		cfg := d.manager.GetConfig()
		switch cfg.Transcription.Provider {
		case "deepgram":
			return transcript.NewDeepgramSource(cfg.ToCaptureConfig())
		case "none":
			return nil, transcript.ErrUnsupported
		default:
			return nil, fmt.Errorf("unsupported transcription provider: %s", cfg.Transcription.Provider)
		}
	}
}

func (d *Daemon) Run() error {
	if err := bus.CheckExistingDaemon(); err != nil {
		return err
	}

	ln, err := bus.Listen()
	if err != nil {
		return err
	}
	defer ln.Close()

	if err := bus.CreatePidFile(); err != nil {
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer bus.RemovePidFile()

	if err := d.manager.StartWatching(d.ctx); err != nil {
		log.Printf("daemon: config watching disabled: %v", err)
	}
	defer d.manager.Stop()
	defer d.session.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		log.Printf("daemon: received signal %v, shutting down", sig)
		d.cancel()
	}()

	// Close the listener when context is done
	go func() {
		<-d.ctx.Done()
		ln.Close()
	}()

	log.Printf("daemon: started, listening on socket")

	for {
		c, err := ln.Accept()
		if err != nil {
			if d.ctx.Err() != nil {
				log.Printf("daemon: shutdown requested")
				return nil
			}
			log.Printf("daemon: accept error: %v", err)
			return fmt.Errorf("accept failed: %w", err)
		}
		go d.handle(c)
	}
}

func (d *Daemon) handle(c net.Conn) {
	defer c.Close()

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		log.Printf("daemon: client read error: %v", err)
		fmt.Fprintf(c, "ERR read_error: %v\n", err)
		return
	}
	cmd, payload, ok := bus.ParseRequest(line)
	if !ok {
		fmt.Fprint(c, "ERR empty\n")
		return
	}

	switch cmd {
	case bus.CmdListen:
		if err := d.session.StartListening(); err != nil {
			fmt.Fprintf(c, "ERR listen: %v\n", err)
			return
		}
		fmt.Fprint(c, "OK listening\n")

	case bus.CmdStop:
		d.session.StopListening()
		fmt.Fprint(c, "OK stopped\n")

	case bus.CmdCancel:
		d.session.Cancel()
		fmt.Fprint(c, "OK cancelled\n")

	case bus.CmdFind:
		d.session.Submit()
		fmt.Fprintf(c, "OK results=%d\n", len(d.session.Results()))

	case bus.CmdSay:
		if payload == "" {
			fmt.Fprint(c, "ERR say: empty text\n")
			return
		}
		d.session.Say(payload)
		fmt.Fprintf(c, "OK status=%s\n", d.session.Status())

	case bus.CmdTag:
		tag, ok := filter.ParseTag(payload)
		if !ok {
			fmt.Fprintf(c, "ERR unknown tag %q\n", payload)
			return
		}
		on := d.session.ToggleTag(tag)
		fmt.Fprintf(c, "OK tag=%s on=%v\n", tag, on)

	case bus.CmdStatus:
		fmt.Fprintf(c, "STATUS status=%s fields=%d\n",
			d.session.Status(), d.session.Criteria().RecognizedCount())

	case bus.CmdSnapshot:
		d.writeSnapshot(c)

	case bus.CmdVersion:
		fmt.Fprintf(c, "STATUS proto=%s\n", bus.ProtoVer)

	case bus.CmdQuit:
		fmt.Fprint(c, "OK quitting\n")
		d.cancel()

	default:
		log.Printf("daemon: unknown command: %c", cmd)
		fmt.Fprintf(c, "ERR unknown=%q\n", cmd)
	}
}

func (d *Daemon) writeSnapshot(c net.Conn) {
	snap := Snapshot{
		Status:     d.session.Status(),
		Criteria:   d.session.Criteria(),
		Transcript: d.session.Transcript(),
		Highlights: d.session.Highlights(),
		Glowing:    d.session.GlowingKeys(),
		Results:    d.session.Results(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		fmt.Fprintf(c, "ERR snapshot: %v\n", err)
		return
	}
	c.Write(append(data, '\n'))
}
