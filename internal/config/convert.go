package config

import (
	"os"

	"github.com/danmarauda/hausvoice/internal/notify"
	"github.com/danmarauda/hausvoice/internal/oracle"
	"github.com/danmarauda/hausvoice/internal/provider"
	"github.com/danmarauda/hausvoice/internal/session"
	"github.com/danmarauda/hausvoice/internal/transcript"
)

func (c *Config) ToOracleConfig() oracle.Config {
	return oracle.Config{
		Provider:    c.Oracle.Provider,
		APIKey:      c.ResolveAPIKey(c.Oracle.Provider),
		BaseURL:     c.Oracle.BaseURL,
		Model:       c.Oracle.Model,
		Temperature: c.Oracle.Temperature,
	}
}

func (c *Config) ToCaptureConfig() transcript.DeepgramConfig {
	return transcript.DeepgramConfig{
		APIKey:     c.ResolveAPIKey("deepgram"),
		BaseURL:    c.Transcription.BaseURL,
		Model:      c.Transcription.Model,
		Language:   c.Transcription.Language,
		Device:     c.Capture.Device,
		SampleRate: c.Capture.SampleRate,
		BufferSize: c.Capture.BufferSize,
	}
}

func (c *Config) ToSessionConfig() session.Config {
	return session.Config{
		MinFragmentRunes: c.Session.MinFragmentRunes,
		ExtractTimeout:   c.Session.ExtractTimeout,
		GlowTTL:          c.Session.GlowTTL,
		StartInDemo:      c.Session.StartInDemo,
	}
}

// ToNotifier builds the notifier selected by notifications.type.
func (c *Config) ToNotifier() notify.Notifier {
	if !c.Notifications.Enabled {
		return notify.Nop{}
	}
	switch c.Notifications.Type {
	case "desktop":
		return notify.Desktop{}
	case "log":
		return notify.Log{}
	default:
		return notify.Nop{}
	}
}

// ResolveAPIKey returns the API key for a provider from the providers table,
// falling back to the provider's environment variable.
func (c *Config) ResolveAPIKey(providerName string) string {
	if c.Providers != nil {
		if pc, ok := c.Providers[providerName]; ok && pc.APIKey != "" {
			return pc.APIKey
		}
	}
	if envVar := provider.EnvVarForProvider(providerName); envVar != "" {
		return os.Getenv(envVar)
	}
	return ""
}
