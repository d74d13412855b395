package bus

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		line        string
		wantCmd     byte
		wantPayload string
		wantOK      bool
	}{
		{"l\n", CmdListen, "", true},
		{"s", CmdStatus, "", true},
		{"ttwo bedroom apartment\n", CmdSay, "two bedroom apartment", true},
		{"g premium\n", CmdTag, "premium", true},
		{"\n", 0, "", false},
		{"", 0, "", false},
	}
	for _, tt := range tests {
		cmd, payload, ok := ParseRequest(tt.line)
		if ok != tt.wantOK || cmd != tt.wantCmd || payload != tt.wantPayload {
			t.Errorf("ParseRequest(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.line, cmd, payload, ok, tt.wantCmd, tt.wantPayload, tt.wantOK)
		}
	}
}

func TestPidManagerBasics(t *testing.T) {
	pm := &pidManager{path: filepath.Join(t.TempDir(), PidName)}

	t.Run("create and remove PID file", func(t *testing.T) {
		if err := pm.create(); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		pidData, err := os.ReadFile(pm.path)
		if err != nil {
			t.Fatalf("failed to read PID file: %v", err)
		}
		if string(pidData) != strconv.Itoa(os.Getpid()) {
			t.Errorf("PID file contains %q, expected current pid", string(pidData))
		}
		if err := pm.remove(); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if _, err := os.Stat(pm.path); !os.IsNotExist(err) {
			t.Error("PID file should not exist after removal")
		}
	})

	t.Run("checkExisting with no PID file", func(t *testing.T) {
		if err := pm.checkExisting(); err != nil {
			t.Errorf("checkExisting should not error when no PID file exists: %v", err)
		}
	})

	t.Run("checkExisting with current process", func(t *testing.T) {
		if err := pm.create(); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		defer pm.remove()
		if err := pm.checkExisting(); err == nil {
			t.Error("checkExisting should fail when process is running")
		}
	})

	t.Run("checkExisting with stale PID file", func(t *testing.T) {
		if err := os.WriteFile(pm.path, []byte("999999"), 0o600); err != nil {
			t.Fatalf("failed to write stale PID file: %v", err)
		}
		if err := pm.checkExisting(); err != nil {
			t.Errorf("checkExisting should succeed with stale PID: %v", err)
		}
		if _, err := os.Stat(pm.path); !os.IsNotExist(err) {
			t.Error("stale PID file should be removed")
		}
	})

	t.Run("checkExisting with invalid PID file", func(t *testing.T) {
		if err := os.WriteFile(pm.path, []byte("invalid"), 0o600); err != nil {
			t.Fatalf("failed to write invalid PID file: %v", err)
		}
		if err := pm.checkExisting(); err != nil {
			t.Errorf("checkExisting should succeed with invalid PID: %v", err)
		}
		if _, err := os.Stat(pm.path); !os.IsNotExist(err) {
			t.Error("invalid PID file should be removed")
		}
	})
}

func TestIsProcessAlive(t *testing.T) {
	pm := &pidManager{}
	if !pm.isProcessAlive(os.Getpid()) {
		t.Error("current process should be alive")
	}
	if pm.isProcessAlive(999999) {
		t.Error("PID 999999 should not be alive")
	}
}
