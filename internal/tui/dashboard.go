package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/danmarauda/hausvoice/internal/daemon"
	"github.com/danmarauda/hausvoice/internal/demo"
	"github.com/danmarauda/hausvoice/internal/filter"
	"github.com/danmarauda/hausvoice/internal/session"
)

const (
	snapshotInterval = 150 * time.Millisecond
	demoTickInterval = 80 * time.Millisecond
	demoHoldTicks    = 25
)

// Client is the dashboard's view of the daemon: fetch a snapshot, send a
// command. Both run over the control socket in production.
type Client interface {
	Snapshot() (daemon.Snapshot, error)
	Send(cmd byte, payload string) (string, error)
}

type snapshotMsg struct {
	snap daemon.Snapshot
	err  error
}

type snapshotTickMsg struct{}
type demoTickMsg struct{}

// Dashboard is the live search view: transcript, criteria cards, results,
// and the demo reel while the session idles in demo mode.
type Dashboard struct {
	client Client

	snap    daemon.Snapshot
	err     error
	spin    spinner.Model
	input   textinput.Model
	typing  bool
	demoPos int
	demoN   int
	width   int
	height  int
	done    bool
}

func NewDashboard(client Client) Dashboard {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	in := textinput.New()
	in.Placeholder = "two bedroom apartment in Sydney with a pool..."
	in.CharLimit = 200

	return Dashboard{client: client, spin: sp, input: in}
}

func (m Dashboard) Init() tea.Cmd {
	return tea.Batch(m.fetchSnapshot, snapshotTick(), demoTick(), m.spin.Tick)
}

func (m Dashboard) fetchSnapshot() tea.Msg {
	snap, err := m.client.Snapshot()
	return snapshotMsg{snap: snap, err: err}
}

func snapshotTick() tea.Cmd {
	return tea.Tick(snapshotInterval, func(time.Time) tea.Msg { return snapshotTickMsg{} })
}

func demoTick() tea.Cmd {
	return tea.Tick(demoTickInterval, func(time.Time) tea.Msg { return demoTickMsg{} })
}

func (m Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotTickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(m.fetchSnapshot, snapshotTick())

	case snapshotMsg:
		m.snap = msg.snap
		m.err = msg.err
		return m, nil

	case demoTickMsg:
		if m.snap.Status == session.StatusDemo && len(demo.Reel) > 0 {
			m.demoN++
			phrase := demo.Reel[m.demoPos%len(demo.Reel)].Phrase
			// hold the finished phrase on screen before moving on
			if m.demoN > len(phrase)+demoHoldTicks {
				m.demoPos++
				m.demoN = 0
			}
		}
		return m, demoTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.typing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.typing {
		switch msg.String() {
		case "enter":
			text := m.input.Value()
			m.input.Reset()
			m.typing = false
			if text != "" {
				return m, m.send('t', text)
			}
			return m, nil
		case "esc":
			m.input.Reset()
			m.typing = false
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.done = true
		return m, tea.Quit
	case "l":
		return m, m.send('l', "")
	case "p":
		return m, m.send('p', "")
	case "c":
		return m, m.send('c', "")
	case "f":
		return m, m.send('f', "")
	case "t", ":":
		m.typing = true
		m.input.Focus()
		return m, textinput.Blink
	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		if idx < len(filter.Tags) {
			return m, m.send('g', string(filter.Tags[idx]))
		}
		return m, nil
	}
	return m, nil
}

func (m Dashboard) send(cmd byte, payload string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.client.Send(cmd, payload); err != nil {
			return snapshotMsg{snap: m.snap, err: err}
		}
		snap, err := m.client.Snapshot()
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m Dashboard) View() string {
	var b []string
	b = append(b, Logo())

	status := RenderStatus(m.snap.Status)
	if m.snap.Status == session.StatusProcessing {
		status = m.spin.View() + " " + status
	}
	b = append(b, status)

	if m.err != nil {
		b = append(b, StyleError.Render("daemon unreachable: "+m.err.Error()))
	}

	if m.snap.Status == session.StatusDemo {
		b = append(b, StyleBox.Render(RenderDemoFrame(demo.FrameAt(m.demoPos, m.demoN))))
	} else {
		if m.typing {
			b = append(b, StyleFocusedBox.Render(m.input.View()))
		} else {
			b = append(b, StyleBox.Render(RenderTranscript(m.snap.Transcript, m.snap.Highlights)))
		}
		b = append(b, StyleFocusedBox.Render(RenderCriteria(m.snap.Criteria, m.snap.Glowing)))
		if m.snap.Status == session.StatusDone {
			b = append(b, RenderListings(m.snap.Results))
		}
	}

	b = append(b, StyleSubtle.Render("l listen • p stop • f find • c cancel • t type • 1-4 tags • q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, b...)
}

// RunDashboard starts the live dashboard against the given daemon client.
func RunDashboard(client Client) error {
	_, err := tea.NewProgram(NewDashboard(client), tea.WithAltScreen()).Run()
	return err
}
