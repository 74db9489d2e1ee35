package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/td0m/taskboard/internal/config"
	"github.com/td0m/taskboard/pkg/notify"
	"github.com/td0m/taskboard/pkg/reminder"
	"github.com/td0m/taskboard/pkg/task"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logFile    string
		logLevel   string
	)
	cmd := &cobra.Command{
		Use:          "taskman",
		Short:        "Hierarchical task list with tags, colors and reminders",
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = config.ResolveConfigPath()
			}
			cfg, err := config.LoadOrCreate(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-file") {
				cfg.Log.File = logFile
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			return run(cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the config file (default $"+config.EnvConfigPath+" or the user config dir)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file, the terminal belongs to the UI")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	return cmd
}

func newLogger(cfg config.Log) (*log.Logger, func(), error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		var err error
		if level, err = log.ParseLevel(cfg.Level); err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
	}
	var w io.Writer = io.Discard
	closer := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "taskman",
	})
	return logger, closer, nil
}

func run(cfg config.Config) error {
	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	interval, err := cfg.Interval()
	if err != nil {
		return fmt.Errorf("reminder.interval: %w", err)
	}
	window, err := cfg.Window()
	if err != nil {
		return fmt.Errorf("reminder.window: %w", err)
	}

	store := task.NewStore(task.WithDeletePolicy(cfg.Policy()))
	unsubscribe := store.Subscribe(func(s task.Snapshot) {
		logger.Debug("store changed", "version", s.Version, "tasks", s.Len())
	})
	defer unsubscribe()

	notifier, err := notify.New(cfg.Reminder.Notifier, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newApp(store, cfg, logger, time.Now), tea.WithAltScreen())

	scheduler := reminder.NewScheduler(store, notifier, interval, window, logger)
	scheduler.OnTick = func(sent []task.Task) {
		p.Send(remindedMsg{sent: sent})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Run(ctx)

	logger.Info("starting", "version", Version, "delete_policy", cfg.DeletePolicy, "notifier", cfg.Reminder.Notifier)
	_, err = p.Run()
	return err
}
