package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nteract/mythic-rtc/internal/client/api"
	"github.com/nteract/mythic-rtc/internal/client/cli"
	"github.com/nteract/mythic-rtc/internal/client/iocli"
	"github.com/nteract/mythic-rtc/internal/client/metrics"
	"github.com/nteract/mythic-rtc/internal/client/storage/boltdb"
	"github.com/nteract/mythic-rtc/internal/config"
	"github.com/nteract/mythic-rtc/internal/logging"
)

const clientDBName = "client.db"

// globalFlags флаги, общие для всех команд
type globalFlags struct {
	configPath string
	serverURL  string
	dataDir    string
	logLevel   string
}

// app зависимости одной команды; закрывается после выполнения
type app struct {
	cli     *cli.Cli
	storage *boltdb.Storage
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:          "mythic",
		Short:        "Real-time collaboration client for Jupyter notebooks",
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "path to YAML config file")
	pf.StringVar(&g.serverURL, "server", "", "backend URL (overrides config)")
	pf.StringVar(&g.dataDir, "data-dir", "", "directory for the local journal (overrides config)")
	pf.StringVar(&g.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	cmd.AddCommand(newJoinCmd(g), newPendingCmd(g), newStatusCmd(g), newVersionCmd())
	return cmd
}

// setup загружает конфигурацию и открывает локальное хранилище
func setup(ctx context.Context, cmd *cobra.Command, g *globalFlags) (*app, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.Client.ServerURL = g.serverURL
	}
	if flags.Changed("data-dir") {
		cfg.Client.DataDir = g.dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Client.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	st, err := boltdb.New(ctx, filepath.Join(cfg.Client.DataDir, clientDBName))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	gateway := api.NewClient(cfg.Client.ServerURL, logger.With("component", "gateway"),
		api.WithSubscriptionBuffer(cfg.Client.SubscriptionBuffer))

	return &app{
		cli: cli.New(iocli.NewStdio(), cli.Deps{
			Gateway:  gateway,
			Journal:  st,
			Sessions: st,
			Metrics:  newMetrics(ctx, cfg.Client.MetricsAddr, logger),
			Logger:   logger,
		}),
		storage: st,
		logger:  logger,
	}, nil
}

func (a *app) close() {
	if err := a.storage.Close(); err != nil {
		a.logger.Error("Failed to close database", "error", err)
	}
}

// newMetrics отдает метрики клиента на addr, пока жив ctx. Пустой addr выключает экспорт.
func newMetrics(ctx context.Context, addr string, logger *slog.Logger) *metrics.Metrics {
	if addr == "" {
		return metrics.New(nil)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Metrics server stopped", "addr", addr, "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	return m
}

func newJoinCmd(g *globalFlags) *cobra.Command {
	var opts cli.JoinOptions

	cmd := &cobra.Command{
		Use:   "join <notebook.ipynb>",
		Short: "Join the collaboration session of a notebook and keep the file in sync",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := setup(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			return a.cli.Join(ctx, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.RemotePath, "as", "", "notebook path on the backend (defaults to the file path)")
	flags.DurationVar(&opts.PollInterval, "poll", time.Second, "how often remote edits are written to the file")
	flags.DurationVar(&opts.JoinTimeout, "join-timeout", 30*time.Second, "how long to wait for the backend")
	return cmd
}

func newPendingCmd(g *globalFlags) *cobra.Command {
	var opts cli.PendingOptions

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List edits the backend did not record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			return a.cli.Pending(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "clear the journal after listing")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newStatusCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status <notebook.ipynb>",
		Short: "Show the last session of a notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			return a.cli.Status(cmd.Context(), args[0])
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Mythic Client\n")
			_, _ = fmt.Fprintf(out, "Version:    %s\n", Version)
			_, _ = fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			_, _ = fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		},
	}
}
