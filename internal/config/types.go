package config

import (
	"time"
)

type Config struct {
	Capture       CaptureConfig             `toml:"capture"`
	Transcription TranscriptionConfig       `toml:"transcription"`
	Oracle        OracleConfig              `toml:"oracle"`
	Session       SessionConfig             `toml:"session"`
	Notifications NotificationsConfig       `toml:"notifications"`
	Providers     map[string]ProviderConfig `toml:"providers"`
}

// ProviderConfig holds the API key for a provider
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}

type CaptureConfig struct {
	Device     string `toml:"device"`
	SampleRate int    `toml:"sample_rate"`
	BufferSize int    `toml:"buffer_size"`
}

type TranscriptionConfig struct {
	Provider string `toml:"provider"` // "deepgram" or "none"
	Model    string `toml:"model"`
	Language string `toml:"language"`
	BaseURL  string `toml:"base_url"`
}

// OracleConfig configures the criteria extraction phase
type OracleConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	BaseURL     string  `toml:"base_url"`
	Temperature float32 `toml:"temperature"`
}

type SessionConfig struct {
	MinFragmentRunes int           `toml:"min_fragment_runes"`
	ExtractTimeout   time.Duration `toml:"extract_timeout"`
	GlowTTL          time.Duration `toml:"glow_ttl"`
	StartInDemo      bool          `toml:"start_in_demo"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}
