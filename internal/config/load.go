package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

var ErrConfigNotFound = errors.New("config not found")

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	hausvoiceDir := filepath.Join(configDir, "hausvoice")
	if err := os.MkdirAll(hausvoiceDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(hausvoiceDir, "config.toml"), nil
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: run hausvoice configure", ErrConfigNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat config file %s: %w", configPath, err)
	}

	log.Printf("Config: loading configuration from %s", configPath)
	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if config.Providers == nil {
		config.Providers = make(map[string]ProviderConfig)
	}
	config.applyDefaults()

	log.Printf("Config: configuration loaded successfully")
	return &config, nil
}

// Save writes the configuration to the user config path. Used by the
// configure wizard.
func Save(c *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file %s: %w", configPath, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Capture.SampleRate == 0 {
		c.Capture.SampleRate = d.Capture.SampleRate
	}
	if c.Capture.BufferSize == 0 {
		c.Capture.BufferSize = d.Capture.BufferSize
	}
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = d.Transcription.Provider
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = d.Transcription.Model
	}
	if c.Oracle.Provider == "" {
		c.Oracle.Provider = d.Oracle.Provider
	}
	if c.Oracle.Model == "" {
		c.Oracle.Model = d.Oracle.Model
	}
	if c.Oracle.Temperature == 0 {
		c.Oracle.Temperature = d.Oracle.Temperature
	}
	if c.Session.MinFragmentRunes == 0 {
		c.Session.MinFragmentRunes = d.Session.MinFragmentRunes
	}
	if c.Session.ExtractTimeout == 0 {
		c.Session.ExtractTimeout = d.Session.ExtractTimeout
	}
	if c.Session.GlowTTL == 0 {
		c.Session.GlowTTL = d.Session.GlowTTL
	}
	if c.Notifications.Type == "" {
		c.Notifications.Type = d.Notifications.Type
	}
}
