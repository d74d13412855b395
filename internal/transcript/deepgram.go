package transcript

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os/exec"
	"sync"

	"github.com/gorilla/websocket"
)

// DeepgramConfig configures the live speech capture source.
type DeepgramConfig struct {
	APIKey     string
	BaseURL    string // wss endpoint, e.g. wss://api.deepgram.com
	Model      string
	Language   string
	Device     string // capture device passed to pw-record, empty for default
	SampleRate int
	BufferSize int
}

func (c *DeepgramConfig) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "wss://api.deepgram.com/v1/listen"
	}
	if c.Model == "" {
		c.Model = "nova-3"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 16000
	}
	if c.BufferSize == 0 {
		c.BufferSize = 4096
	}
}

// DeepgramSource captures microphone audio through pw-record and streams it
// to Deepgram's live transcription endpoint, emitting interim and final
// chunks as the service reports them.
type DeepgramSource struct {
	config DeepgramConfig

	mu      sync.Mutex
	conn    *websocket.Conn
	cmd     *exec.Cmd
	out     chan Chunk
	cancel  context.CancelFunc
	started bool
	wg      sync.WaitGroup
}

// NewDeepgramSource validates the environment and builds a live capture
// source. ErrUnsupported is returned when pw-record is not installed.
func NewDeepgramSource(cfg DeepgramConfig) (*DeepgramSource, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("deepgram API key required")
	}
	if _, err := exec.LookPath("pw-record"); err != nil {
		return nil, ErrUnsupported
	}
	cfg.applyDefaults()
	return &DeepgramSource{config: cfg}, nil
}

func (d *DeepgramSource) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return fmt.Errorf("source already started")
	}

	runCtx, cancel := context.WithCancel(ctx)

	wsURL, err := d.buildURL()
	if err != nil {
		cancel()
		return err
	}
	headers := http.Header{}
	headers.Set("Authorization", "Token "+d.config.APIKey)

	conn, resp, err := websocket.DefaultDialer.DialContext(runCtx, wsURL, headers)
	if err != nil {
		cancel()
		if resp != nil {
			return fmt.Errorf("websocket dial (status %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("websocket dial: %w", err)
	}

	cmd := exec.CommandContext(runCtx, "pw-record", d.buildRecordArgs()...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		conn.Close()
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		conn.Close()
		return fmt.Errorf("start pw-record: %w", err)
	}

	d.conn = conn
	d.cmd = cmd
	d.cancel = cancel
	d.out = make(chan Chunk, 16)
	d.started = true

	d.wg.Add(2)
	go d.sendLoop(runCtx, stdout)
	go d.readLoop(runCtx)

	log.Printf("deepgram: capture started, model=%s", d.config.Model)
	return nil
}

func (d *DeepgramSource) buildURL() (string, error) {
	u, err := url.Parse(d.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("model", d.config.Model)
	q.Set("encoding", "linear16")
	q.Set("sample_rate", fmt.Sprintf("%d", d.config.SampleRate))
	q.Set("channels", "1")
	q.Set("interim_results", "true")
	q.Set("smart_format", "true")
	q.Set("punctuate", "true")
	if d.config.Language != "" {
		q.Set("language", d.config.Language)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (d *DeepgramSource) buildRecordArgs() []string {
	args := []string{
		"--format", "s16",
		"--rate", fmt.Sprintf("%d", d.config.SampleRate),
		"--channels", "1",
	}
	if d.config.Device != "" {
		args = append(args, "--target", d.config.Device)
	}
	return append(args, "-")
}

// sendLoop pumps raw PCM from pw-record into the websocket.
func (d *DeepgramSource) sendLoop(ctx context.Context, stdout interface{ Read([]byte) (int, error) }) {
	defer d.wg.Done()

	reader := bufio.NewReaderSize(stdout, d.config.BufferSize)
	buf := make([]byte, d.config.BufferSize)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if werr := d.writeAudio(buf[:n]); werr != nil {
				if ctx.Err() == nil {
					log.Printf("deepgram: send error: %v", werr)
				}
				return
			}
		}
		if err != nil {
			if ctx.Err() == nil {
				// Natural end of capture: tell Deepgram no more audio is
				// coming so it can flush final results.
				_ = d.writeControl(`{"type":"CloseStream"}`)
			}
			return
		}
	}
}

func (d *DeepgramSource) writeAudio(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return fmt.Errorf("connection closed")
	}
	return d.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (d *DeepgramSource) writeControl(msg string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return fmt.Errorf("connection closed")
	}
	return d.conn.WriteMessage(websocket.TextMessage, []byte(msg))
}

// deepgramResponse is the subset of the live API response we consume.
type deepgramResponse struct {
	Type    string `json:"type"`
	IsFinal bool   `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

// readLoop turns websocket results into chunks and closes the chunk channel
// when the stream ends.
func (d *DeepgramSource) readLoop(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.out)

	for {
		var resp deepgramResponse
		if err := d.conn.ReadJSON(&resp); err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Printf("deepgram: read error: %v", err)
			}
			return
		}
		if resp.Type == "Metadata" {
			// Metadata arrives after CloseStream: the stream is done.
			return
		}
		if len(resp.Channel.Alternatives) == 0 {
			continue
		}
		text := resp.Channel.Alternatives[0].Transcript
		if text == "" {
			continue
		}
		select {
		case d.out <- Chunk{Text: text, Final: resp.IsFinal}:
		case <-ctx.Done():
			return
		}
	}
}

func (d *DeepgramSource) Stop() error {
	d.mu.Lock()
	cancel := d.cancel
	cmd := d.cmd
	d.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	if cancel != nil {
		cancel()
	}
	d.wg.Wait()

	d.mu.Lock()
	if d.conn != nil {
		_ = d.conn.Close()
		d.conn = nil
	}
	if d.cmd != nil {
		_ = d.cmd.Wait()
		d.cmd = nil
	}
	d.mu.Unlock()
	return nil
}

func (d *DeepgramSource) Chunks() <-chan Chunk {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.out
}
