package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shonendev/portfolio/internal/codeforces"
	"github.com/shonendev/portfolio/internal/config"
	"github.com/shonendev/portfolio/internal/msgcat"
	"github.com/shonendev/portfolio/internal/obslog"
	"github.com/shonendev/portfolio/internal/tui"
)

var (
	configPath string
	handleFlag string
	plain      bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Show competitive-programming profile stats",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		path := configPath
		if path == "" {
			path = config.Path()
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/portfolio/config.toml)")
	rootCmd.Flags().StringVar(&handleFlag, "handle", "", "Codeforces handle to show")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "fetch once and print without the interactive UI")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if handleFlag != "" {
		cfg.Profile.Handle = handleFlag
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closeLog, err := obslog.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	msgs, err := msgcat.New(cfg.UI.MessagesDir)
	if err != nil {
		return fmt.Errorf("messages: %w", err)
	}

	client := codeforces.NewClient(
		codeforces.WithBaseURL(cfg.API.BaseURL),
		codeforces.WithTimeout(cfg.API.Timeout),
		codeforces.WithCheckHistoricHandles(cfg.API.CheckHistoricHandles),
		codeforces.WithLogger(logger.Named("codeforces")),
	)
	widget := tui.NewWidget(ctx, tui.WidgetConfig{
		Handle:  cfg.Profile.Handle,
		Fetcher: client,
		Catalog: msgs,
		Logger:  logger,
		Plain:   plain,
	})

	logger.Info("start", zap.String("handle", cfg.Profile.Handle), zap.Bool("plain", plain))
	if plain {
		out, err := tui.RunOnce(widget)
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}
	return tui.Run(tui.New(widget, msgs), tea.WithAltScreen(), tea.WithContext(ctx))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
