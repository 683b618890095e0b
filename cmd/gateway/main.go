// Package main is the entry point for the TAIFEX order gateway.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chiehlin/taifex-gateway/internal/alerting"
	"github.com/chiehlin/taifex-gateway/internal/api"
	"github.com/chiehlin/taifex-gateway/internal/audit"
	"github.com/chiehlin/taifex-gateway/internal/config"
	"github.com/chiehlin/taifex-gateway/internal/engine"
	"github.com/chiehlin/taifex-gateway/internal/metrics"
	"github.com/chiehlin/taifex-gateway/internal/session"
	"github.com/chiehlin/taifex-gateway/internal/session/bridge"
	"github.com/chiehlin/taifex-gateway/internal/session/paper"
)

// Version information (set by build flags).
var (
	Version   = "0.2.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	case "run":
		cmdRun(os.Args[2:])
	case "validate":
		cmdValidate(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`TAIFEX Gateway - position-aware futures order execution

Usage:
  gateway <command> [options]

Commands:
  run        Start the gateway (paper or bridge session)
  validate   Validate configuration file
  version    Show version information
  help       Show this help message

Examples:
  gateway run --config config.yaml
  gateway validate --config config.yaml`)
}

func cmdVersion() {
	fmt.Printf("gateway version %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid!")
	fmt.Printf("  Session mode: %s\n", cfg.Session.Mode)
	fmt.Printf("  Families: %v\n", cfg.Trading.SupportedFamilies)
	fmt.Printf("  Server port: %d\n", cfg.Server.Port)
	fmt.Printf("  Audit store: %s\n", cfg.Persistence.Path)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("gateway starting",
		"version", Version,
		"mode", cfg.Session.Mode,
		"families", cfg.Trading.SupportedFamilies,
	)

	store, err := audit.NewSQLiteStore(cfg.Persistence.Path)
	if err != nil {
		logger.Error("failed to open audit store", "path", cfg.Persistence.Path, "err", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	alerter := buildAlerter(cfg, logger)

	sess, err := openSession(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open session", "mode", cfg.Session.Mode, "err", err)
		os.Exit(1)
	}
	defer func() { _ = sess.Close() }()

	recorder := metrics.NewRecorder()
	eng := engine.New(engine.Config{
		Session:  sess,
		Families: cfg.Trading.SupportedFamilies,
		Logger:   logger,
		Recorder: recorder,
		Alerter:  alerter,
		AlertGate: func(event alerting.AlertEvent) bool {
			return cfg.IsAlertEventEnabled(string(event))
		},
	})

	server := api.NewServer(cfg.Server, eng, store, logger, recorder)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	server.SetReady(true)

	notify(ctx, cfg, alerter, alerting.EventGatewayStarted,
		fmt.Sprintf("gateway started in %s mode on port %d", cfg.Session.Mode, cfg.Server.Port))

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "err", err)
	}

	notify(shutdownCtx, cfg, alerter, alerting.EventGatewayStopped, "gateway stopped")

	// allow final log messages to flush
	time.Sleep(100 * time.Millisecond)
	logger.Info("gateway shutdown complete")
}

func openSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Session, error) {
	switch cfg.Session.Mode {
	case config.SessionModeBridge:
		return bridge.Dial(ctx, bridge.Config{
			Host:               cfg.Session.Bridge.Host,
			Port:               cfg.Session.Bridge.Port,
			APIKey:             cfg.Session.APIKey,
			SecretKey:          cfg.Session.SecretKey,
			Simulation:         cfg.Session.Simulation,
			CAPath:             cfg.Session.CAPath,
			CAPassword:         cfg.Session.CAPassword,
			Timeout:            cfg.BridgeTimeout(),
			RateLimitPerSecond: cfg.Session.Bridge.RateLimitPerSecond,
		}, logger)
	default:
		return paper.NewSession(paper.DefaultConfig(), logger), nil
	}
}

func buildAlerter(cfg *config.Config, logger *slog.Logger) alerting.Alerter {
	if !cfg.Alerting.Enabled {
		return nil
	}

	var alerters []alerting.Alerter
	for _, ch := range cfg.Alerting.Channels {
		switch ch.Type {
		case "console":
			alerters = append(alerters, alerting.NewConsoleAlerter())
		case "telegram":
			alerters = append(alerters, alerting.NewTelegramAlerter(ch.BotToken, ch.ChatID))
		}
	}

	switch len(alerters) {
	case 0:
		return nil
	case 1:
		return alerters[0]
	default:
		return alerting.NewMultiAlerter(alerters...)
	}
}

func notify(ctx context.Context, cfg *config.Config, alerter alerting.Alerter, event alerting.AlertEvent, message string) {
	if alerter == nil || !cfg.IsAlertEventEnabled(string(event)) {
		return
	}
	if err := alerter.Alert(ctx, alerting.EventSeverity(event), message); err != nil {
		slog.Warn("alert delivery failed", "event", string(event), "err", err)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
