package config

import "time"

// DefaultConfig returns the initial configuration used by the configure
// wizard.
func DefaultConfig() *Config {
	return &Config{
		Capture: CaptureConfig{
			Device:     "",
			SampleRate: 16000,
			BufferSize: 4096,
		},
		Transcription: TranscriptionConfig{
			Provider: "deepgram",
			Model:    "nova-3",
			Language: "en",
		},
		Oracle: OracleConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
		},
		Session: SessionConfig{
			MinFragmentRunes: 3,
			ExtractTimeout:   30 * time.Second,
			GlowTTL:          2500 * time.Millisecond,
			StartInDemo:      true,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "desktop",
		},
		Providers: make(map[string]ProviderConfig),
	}
}
