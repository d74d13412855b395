package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmarauda/hausvoice/internal/bus"
	"github.com/danmarauda/hausvoice/internal/config"
	"github.com/danmarauda/hausvoice/internal/daemon"
	"github.com/danmarauda/hausvoice/internal/deps"
	"github.com/danmarauda/hausvoice/internal/filter"
	"github.com/danmarauda/hausvoice/internal/provider"
	"github.com/danmarauda/hausvoice/internal/tui"
)

func main() {
	_ = rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "hausvoice",
	Short: "Voice-driven property search for the terminal",
}

func init() {
	rootCmd.AddCommand(
		serveCmd(),
		listenCmd(),
		stopCmd(),
		cancelCmd(),
		findCmd(),
		sayCmd(),
		tagCmd(),
		statusCmd(),
		watchCmd(),
		configureCmd(),
		doctorCmd(),
		versionCmd(),
		shutdownCmd(),
	)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := config.NewManager()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			d, err := daemon.New(manager)
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}
			return d.Run()
		},
	}
}

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Start voice capture",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdListen, "")
			if err != nil {
				return fmt.Errorf("failed to start listening: %w", err)
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "End voice capture",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdStop, "")
			if err != nil {
				return fmt.Errorf("failed to stop listening: %w", err)
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the current search session",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdCancel, "")
			if err != nil {
				return fmt.Errorf("failed to cancel session: %w", err)
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find",
		Short: "Submit the current criteria and show results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bus.SendCommand(bus.CmdFind, ""); err != nil {
				return fmt.Errorf("failed to submit search: %w", err)
			}
			snap, err := fetchSnapshot()
			if err != nil {
				return err
			}
			fmt.Println(tui.RenderListings(snap.Results))
			return nil
		},
	}
}

func sayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "say <text>",
		Short: "Feed a typed utterance into the session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdSay, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to send text: %w", err)
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func tagCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "tag <name>",
		Short:     "Toggle a permanent listing tag",
		Args:      cobra.ExactArgs(1),
		ValidArgs: tagNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdTag, args[0])
			if err != nil {
				return fmt.Errorf("failed to toggle tag: %w", err)
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func tagNames() []string {
	names := make([]string, len(filter.Tags))
	for i, t := range filter.Tags {
		names[i] = string(t)
	}
	return names
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session status and recognized criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := fetchSnapshot()
			if err != nil {
				return err
			}
			fmt.Println(tui.RenderStatus(snap.Status))
			fmt.Println(tui.RenderTranscript(snap.Transcript, snap.Highlights))
			fmt.Println(tui.RenderCriteria(snap.Criteria, snap.Glowing))
			if len(snap.Results) > 0 {
				fmt.Println(tui.RenderListings(snap.Results))
			}
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Open the live search dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunDashboard(busClient{})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Get protocol version",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdVersion, "")
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func shutdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown",
		Short: "Stop the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdQuit, "")
			if err != nil {
				return fmt.Errorf("failed to stop daemon: %w", err)
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration wizard for hausvoice.
This will guide you through setting up:
- Provider API keys (OpenAI, Deepgram)
- Speech capture and extraction models
- Session and notification preferences`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check system dependencies and API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("System dependencies:")
			printDepStatus("pw-record", deps.CheckPwRecord())
			printDepStatus("notify-send", deps.CheckNotifySend())

			cfg, err := config.Load()
			if err != nil {
				if errors.Is(err, config.ErrConfigNotFound) {
					cfg = config.DefaultConfig()
				} else {
					return fmt.Errorf("failed to load config: %w", err)
				}
			}

			fmt.Println()
			fmt.Println("API keys:")
			for _, name := range []string{"openai", "deepgram"} {
				key := cfg.ResolveAPIKey(name)
				switch {
				case key == "":
					fmt.Printf("  %-12s missing (set via hausvoice configure or %s)\n",
						name, provider.EnvVarForProvider(name))
				case !provider.Get(name).ValidAPIKey(key):
					fmt.Printf("  %-12s present but malformed\n", name)
				default:
					fmt.Printf("  %-12s ok\n", name)
				}
			}
			return nil
		},
	}
}

func printDepStatus(name string, status deps.Status) {
	if !status.Installed {
		fmt.Printf("  %-12s not found\n", name)
		return
	}
	if status.Version != "" {
		fmt.Printf("  %-12s %s (%s)\n", name, status.Path, status.Version)
		return
	}
	fmt.Printf("  %-12s %s\n", name, status.Path)
}

func runConfigure() error {
	cfg, err := config.Load()
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = config.DefaultConfig()
	}

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration wizard error: %w", err)
	}
	if result.Cancelled {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := result.Config.Validate(); err != nil {
		fmt.Printf("Configuration validation failed: %v\n", err)
		return err
	}
	if err := config.Save(result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("Configuration saved successfully!")
	fmt.Println()
	showNextSteps()
	return nil
}

func showNextSteps() {
	fmt.Println("Next Steps:")
	fmt.Println("1. Start the daemon: hausvoice serve")
	fmt.Println("2. Open the dashboard: hausvoice watch")
	fmt.Println("3. Or drive it directly: hausvoice listen, then speak")
	fmt.Println()

	configPath, _ := config.GetConfigPath()
	fmt.Printf("Config file location: %s\n", configPath)
}

// busClient adapts the control socket to the dashboard's client interface.
type busClient struct{}

func (busClient) Snapshot() (daemon.Snapshot, error) {
	return fetchSnapshot()
}

func (busClient) Send(cmd byte, payload string) (string, error) {
	return bus.SendCommand(cmd, payload)
}

func fetchSnapshot() (daemon.Snapshot, error) {
	line, err := bus.SendCommand(bus.CmdSnapshot, "")
	if err != nil {
		return daemon.Snapshot{}, fmt.Errorf("failed to fetch session snapshot: %w", err)
	}
	if strings.HasPrefix(line, "ERR") {
		return daemon.Snapshot{}, fmt.Errorf("snapshot request failed: %s", line)
	}
	var snap daemon.Snapshot
	if err := json.Unmarshal([]byte(line), &snap); err != nil {
		return daemon.Snapshot{}, fmt.Errorf("failed to decode session snapshot: %w", err)
	}
	return snap, nil
}
