package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nteract/mythic-rtc/internal/config"
	"github.com/nteract/mythic-rtc/internal/logging"
	"github.com/nteract/mythic-rtc/internal/server"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		override   config.ServerConfig
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:          "mythic-server",
		Short:        "Collaboration backend for Jupyter notebooks",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Server.Addr = override.Addr
			}
			if flags.Changed("db") {
				cfg.Server.DBPath = override.DBPath
			}
			if flags.Changed("session-ttl") {
				cfg.Server.SessionTTL = override.SessionTTL
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = logLevel
			}

			logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx, server.Config{
				Addr:             cfg.Server.Addr,
				DBPath:           cfg.Server.DBPath,
				JWTSecret:        cfg.Server.JWTSecret,
				Version:          Version,
				SessionTTL:       cfg.Server.SessionTTL,
				ShutdownTimeout:  cfg.Server.ShutdownTimeout,
				RateWindow:       cfg.Server.RateWindow,
				RateLimit:        cfg.Server.RateLimit,
				SessionRateLimit: cfg.Server.SessionRateLimit,
				SubscriberBuffer: cfg.Server.SubscriberBuffer,
			}, logger)
			if err != nil {
				return err
			}

			logger.Info("Starting mythic server", "version", Version, "db_path", cfg.Server.DBPath)
			return srv.Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	flags.StringVar(&override.Addr, "addr", "", "listen address (overrides config)")
	flags.StringVar(&override.DBPath, "db", "", "path to SQLite database (overrides config)")
	flags.DurationVar(&override.SessionTTL, "session-ttl", 0, "session token lifetime (overrides config)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd)
		},
	})

	return cmd
}

func printVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Mythic Server\n")
	_, _ = fmt.Fprintf(out, "Version:    %s\n", Version)
	_, _ = fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
	_, _ = fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
}
