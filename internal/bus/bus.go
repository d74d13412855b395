// Package bus is the control plane between the hausvoice CLI and the daemon:
// a line-oriented protocol over a unix socket, plus the pid file that keeps
// the daemon single-instance.
package bus

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const SockName = "control.sock"
const PidName = "hausvoice.pid"
const ProtoVer = "0.1"

// Command bytes. A request is one line: the command byte, optionally followed
// by a payload, terminated by '\n'. Every request gets a one-line response.
const (
	CmdListen   byte = 'l'
	CmdStop     byte = 'p'
	CmdCancel   byte = 'c'
	CmdFind     byte = 'f'
	CmdSay      byte = 't' // payload: typed text
	CmdTag      byte = 'g' // payload: tag name
	CmdStatus   byte = 's'
	CmdSnapshot byte = 'j' // response: one-line JSON session snapshot
	CmdVersion  byte = 'v'
	CmdQuit     byte = 'q'
)

// ~/.cache/hausvoice/control.sock
func SockPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	hd := filepath.Join(dir, "hausvoice")
	return filepath.Join(hd, SockName), nil
}

// ~/.cache/hausvoice/hausvoice.pid
func PidPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	hd := filepath.Join(dir, "hausvoice")
	return filepath.Join(hd, PidName), nil
}

func Listen() (net.Listener, error) {
	sp, err := SockPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(sp), 0o700); err != nil {
		return nil, err
	}
	_ = os.Remove(sp) // stale socket from last run
	return net.Listen("unix", sp)
}

func Dial() (net.Conn, error) {
	sp, err := SockPath()
	if err != nil {
		return nil, err
	}
	return net.Dial("unix", sp)
}

// SendCommand sends one command line and returns the daemon's response line.
// The payload must not contain newlines.
func SendCommand(cmd byte, payload string) (string, error) {
	c, err := Dial()
	if err != nil {
		return "", err
	}
	defer c.Close()

	line := append([]byte{cmd}, payload...)
	line = append(line, '\n')
	if _, err := c.Write(line); err != nil {
		return "", err
	}

	resp, err := bufio.NewReader(c).ReadString('\n')
	return strings.TrimRight(resp, "\n"), err
}

// ParseRequest splits a request line into command byte and payload.
func ParseRequest(line string) (byte, string, bool) {
	line = strings.TrimRight(line, "\n")
	if line == "" {
		return 0, "", false
	}
	return line[0], strings.TrimSpace(line[1:]), true
}

type pidManager struct {
	path string
}

func defaultPidManager() (*pidManager, error) {
	p, err := PidPath()
	if err != nil {
		return nil, err
	}
	return &pidManager{path: p}, nil
}

func (pm *pidManager) create() error {
	if err := os.MkdirAll(filepath.Dir(pm.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(pm.path, []byte(strconv.Itoa(os.Getpid())), 0o600)
}

func (pm *pidManager) remove() error {
	return os.Remove(pm.path)
}

// checkExisting returns an error when a live daemon owns the pid file. Stale
// or malformed pid files are cleaned up silently.
func (pm *pidManager) checkExisting() error {
	pidData, err := os.ReadFile(pm.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(pidData)))
	if err != nil {
		_ = pm.remove()
		return nil
	}
	if !pm.isProcessAlive(pid) {
		_ = pm.remove()
		return nil
	}
	return fmt.Errorf("daemon already running with PID %d", pid)
}

func (pm *pidManager) isProcessAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

func CheckExistingDaemon() error {
	pm, err := defaultPidManager()
	if err != nil {
		return err
	}
	return pm.checkExisting()
}

func CreatePidFile() error {
	pm, err := defaultPidManager()
	if err != nil {
		return err
	}
	return pm.create()
}

func RemovePidFile() error {
	pm, err := defaultPidManager()
	if err != nil {
		return err
	}
	return pm.remove()
}
