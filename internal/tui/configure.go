package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/danmarauda/hausvoice/internal/config"
	"github.com/danmarauda/hausvoice/internal/provider"
)

// ConfigureResult holds the configuration result from the TUI
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// ConfigSection represents a configuration section in the menu
type ConfigSection string

const (
	SectionProviders     ConfigSection = "providers"
	SectionTranscription ConfigSection = "transcription"
	SectionOracle        ConfigSection = "oracle"
	SectionSession       ConfigSection = "session"
	SectionNotifications ConfigSection = "notifications"
	SectionSaveExit      ConfigSection = "save_exit"
	SectionDiscardExit   ConfigSection = "discard_exit"
)

// Run starts the configuration wizard. A fresh install walks through every
// section; an existing config opens the section menu.
func Run(existingConfig *config.Config) (*ConfigureResult, error) {
	if existingConfig == nil {
		existingConfig = config.DefaultConfig()
	}
	cfg := *existingConfig
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]config.ProviderConfig)
	}

	clearScreen()
	fmt.Println(Logo())

	if !hasUserChanges(&cfg) {
		return runFreshInstall(&cfg)
	}
	return runEditExisting(&cfg)
}

// hasUserChanges detects if the config has user modifications
func hasUserChanges(cfg *config.Config) bool {
	for _, pc := range cfg.Providers {
		if pc.APIKey != "" {
			return true
		}
	}
	return false
}

func runFreshInstall(cfg *config.Config) (*ConfigureResult, error) {
	sections := []ConfigSection{
		SectionProviders, SectionTranscription, SectionOracle,
		SectionSession, SectionNotifications,
	}
	for _, s := range sections {
		if err := runSection(cfg, s); err != nil {
			if err == huh.ErrUserAborted {
				return &ConfigureResult{Cancelled: true}, nil
			}
			return nil, err
		}
	}
	return &ConfigureResult{Config: cfg}, nil
}

func runEditExisting(cfg *config.Config) (*ConfigureResult, error) {
	for {
		section, err := runMenu(cfg)
		if err != nil {
			if err == huh.ErrUserAborted {
				return &ConfigureResult{Cancelled: true}, nil
			}
			return nil, err
		}
		switch section {
		case SectionSaveExit:
			return &ConfigureResult{Config: cfg}, nil
		case SectionDiscardExit:
			return &ConfigureResult{Cancelled: true}, nil
		default:
			if err := runSection(cfg, section); err != nil && err != huh.ErrUserAborted {
				return nil, err
			}
		}
	}
}

func runMenu(cfg *config.Config) (ConfigSection, error) {
	options := []huh.Option[ConfigSection]{
		huh.NewOption(fmt.Sprintf("Provider Keys (%s)", providerSummary(cfg)), SectionProviders),
		huh.NewOption(fmt.Sprintf("Speech Capture (%s)", cfg.Transcription.Provider), SectionTranscription),
		huh.NewOption(fmt.Sprintf("Extraction Oracle (%s)", cfg.Oracle.Model), SectionOracle),
		huh.NewOption("Session Behavior", SectionSession),
		huh.NewOption(fmt.Sprintf("Notifications (%s)", cfg.Notifications.Type), SectionNotifications),
		huh.NewOption("Save & Exit", SectionSaveExit),
		huh.NewOption("Discard & Exit", SectionDiscardExit),
	}

	var selected ConfigSection
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ConfigSection]().
				Title("Configuration Menu").
				Description("↑/↓ navigate • enter select • esc cancel").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}
	return selected, nil
}

func runSection(cfg *config.Config, section ConfigSection) error {
	switch section {
	case SectionProviders:
		return runProviders(cfg)
	case SectionTranscription:
		return runTranscription(cfg)
	case SectionOracle:
		return runOracle(cfg)
	case SectionSession:
		return runSession(cfg)
	case SectionNotifications:
		return runNotifications(cfg)
	}
	return nil
}

func runProviders(cfg *config.Config) error {
	openaiKey := cfg.Providers["openai"].APIKey
	deepgramKey := cfg.Providers["deepgram"].APIKey

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API key").
				Description("Used by the extraction oracle · "+providerKeyURL("openai")).
				EchoMode(huh.EchoModePassword).
				Placeholder(maskAPIKey(openaiKey)).
				Value(&openaiKey),
			huh.NewInput().
				Title("Deepgram API key").
				Description("Used for live speech capture · "+providerKeyURL("deepgram")).
				EchoMode(huh.EchoModePassword).
				Placeholder(maskAPIKey(deepgramKey)).
				Value(&deepgramKey),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}
	if openaiKey != "" {
		cfg.Providers["openai"] = config.ProviderConfig{APIKey: openaiKey}
	}
	if deepgramKey != "" {
		cfg.Providers["deepgram"] = config.ProviderConfig{APIKey: deepgramKey}
	}
	return nil
}

func runTranscription(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Speech capture provider").
				Options(
					huh.NewOption("Deepgram (live streaming)", "deepgram"),
					huh.NewOption("None (typed input only)", "none"),
				).
				Value(&cfg.Transcription.Provider),
			huh.NewSelect[string]().
				Title("Deepgram model").
				Options(modelOptions("deepgram")...).
				Value(&cfg.Transcription.Model),
			huh.NewInput().
				Title("Language").
				Description("BCP-47 code, e.g. en, en-AU").
				Value(&cfg.Transcription.Language),
		),
	).WithTheme(getTheme())
	return form.Run()
}

func runOracle(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Extraction model").
				Description("Turns finalized speech fragments into search criteria").
				Options(modelOptions("openai")...).
				Value(&cfg.Oracle.Model),
		),
	).WithTheme(getTheme())
	return form.Run()
}

func runSession(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Start in demo mode?").
				Description("Plays example searches until you start a real one").
				Value(&cfg.Session.StartInDemo),
		),
	).WithTheme(getTheme())
	return form.Run()
}

func runNotifications(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable notifications?").
				Value(&cfg.Notifications.Enabled),
			huh.NewSelect[string]().
				Title("Notification type").
				Options(
					huh.NewOption("Desktop (notify-send)", "desktop"),
					huh.NewOption("Log only", "log"),
					huh.NewOption("None", "none"),
				).
				Value(&cfg.Notifications.Type),
		),
	).WithTheme(getTheme())
	return form.Run()
}

func providerKeyURL(name string) string {
	if p := provider.Get(name); p != nil {
		return p.APIKeyURL
	}
	return ""
}

func modelOptions(providerName string) []huh.Option[string] {
	p := provider.Get(providerName)
	if p == nil {
		return nil
	}
	opts := make([]huh.Option[string], 0, len(p.Models))
	for _, m := range p.Models {
		label := m.Name
		if m.Description != "" {
			label = fmt.Sprintf("%s (%s)", m.Name, m.Description)
		}
		opts = append(opts, huh.NewOption(label, m.ID))
	}
	return opts
}

func providerSummary(cfg *config.Config) string {
	var names []string
	for _, name := range []string{"openai", "deepgram"} {
		if cfg.Providers[name].APIKey != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none configured"
	}
	return strings.Join(names, ", ")
}

func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

// clearScreen clears the terminal screen
func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}
