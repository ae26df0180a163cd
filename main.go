package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"smartdash/internal/app"
	"smartdash/internal/config"
	"smartdash/internal/logging"
	"smartdash/internal/server"
	"smartdash/internal/settings"
	"smartdash/internal/ui"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgPath string
	verbose bool
	addr    string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "smartdash",
	Short: "Smart Utility Dashboard",
	Long: `Smart Utility Dashboard offers four assistant tools in the terminal:
a text summarizer, an English to Hindi translator, an email generator and a
general assistant. Language and tone preferences are remembered between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Enabled = true
			cfg.Log.Level = "debug"
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard as a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr != "" {
			cfg.Server.Addr = addr
		}
		return runServer()
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show saved language and tone",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := build()
		if err != nil {
			return err
		}
		defer a.Close()

		printSettings(cmd, a)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting (language or tone)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := build()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.DBErr != nil {
			return fmt.Errorf("settings database unavailable: %w", a.DBErr)
		}
		ctx := cmd.Context()
		if _, err := a.Settings.Set(ctx, a.Settings.Load(ctx), args[0], args[1]); err != nil {
			return err
		}
		printSettings(cmd, a)
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default language and tone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := build()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.DBErr != nil {
			return fmt.Errorf("settings database unavailable: %w", a.DBErr)
		}
		if _, err := a.Settings.Reset(cmd.Context()); err != nil {
			return err
		}
		printSettings(cmd, a)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default: <user config dir>/smartdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")

	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(settingsCmd)
}

func build(outputs ...string) (*app.App, error) {
	logger, err := logging.New(cfg.Log, outputs...)
	if err != nil {
		return nil, err
	}
	return app.Build(cfg, logger)
}

func runDashboard() error {
	// stdout belongs to the TUI, so logs only go to the file
	a, err := build()
	if err != nil {
		return err
	}
	defer a.Close()

	a.Logger.Info("dashboard starting", zap.String("data_dir", cfg.DataDir))
	_, err = ui.NewProgram(a).Run()
	return err
}

func runServer() error {
	a, err := build("stderr")
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.NewSession(), a.Settings, a.Logger.Named("server"))
	return srv.Run(ctx, cfg.Server.Addr)
}

func printSettings(cmd *cobra.Command, a *app.App) {
	s := a.Settings.Load(cmd.Context())
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "language: %s (%s)\n", s.Language, settings.Label(settings.Languages, s.Language))
	fmt.Fprintf(out, "tone:     %s\n", s.Tone)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
