package config

import "fmt"

func (c *Config) Validate() error {
	if c.Capture.SampleRate <= 0 {
		return fmt.Errorf("invalid capture.sample_rate: %d", c.Capture.SampleRate)
	}
	if c.Capture.BufferSize <= 0 {
		return fmt.Errorf("invalid capture.buffer_size: %d", c.Capture.BufferSize)
	}

	switch c.Transcription.Provider {
	case "deepgram":
		if c.ResolveAPIKey("deepgram") == "" {
			return fmt.Errorf("Deepgram API key required: not found in config (providers.deepgram.api_key) or environment variable (DEEPGRAM_API_KEY)")
		}
	case "none":
		// typed input only, no capture backend
	default:
		return fmt.Errorf("unsupported transcription.provider: %s (must be deepgram or none)", c.Transcription.Provider)
	}

	switch c.Oracle.Provider {
	case "openai":
		if c.ResolveAPIKey("openai") == "" {
			return fmt.Errorf("OpenAI API key required: not found in config (providers.openai.api_key) or environment variable (OPENAI_API_KEY)")
		}
	default:
		return fmt.Errorf("unsupported oracle.provider: %s (must be openai)", c.Oracle.Provider)
	}
	if c.Oracle.Model == "" {
		return fmt.Errorf("invalid oracle.model: empty")
	}
	if c.Oracle.Temperature < 0 || c.Oracle.Temperature > 2 {
		return fmt.Errorf("invalid oracle.temperature: %v (must be between 0 and 2)", c.Oracle.Temperature)
	}

	if c.Session.MinFragmentRunes <= 0 {
		return fmt.Errorf("invalid session.min_fragment_runes: %d", c.Session.MinFragmentRunes)
	}
	if c.Session.ExtractTimeout <= 0 {
		return fmt.Errorf("invalid session.extract_timeout: %v", c.Session.ExtractTimeout)
	}
	if c.Session.GlowTTL <= 0 {
		return fmt.Errorf("invalid session.glow_ttl: %v", c.Session.GlowTTL)
	}

	validTypes := map[string]bool{"desktop": true, "log": true, "none": true}
	if !validTypes[c.Notifications.Type] {
		return fmt.Errorf("invalid notifications.type: %s (must be desktop, log, or none)", c.Notifications.Type)
	}

	return nil
}
