package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hubwatch/hubwatch/internal/bot"
	"github.com/hubwatch/hubwatch/internal/config"
	"github.com/hubwatch/hubwatch/internal/digest"
	"github.com/hubwatch/hubwatch/internal/notify"
	"github.com/hubwatch/hubwatch/internal/repository"
	"github.com/hubwatch/hubwatch/internal/telegram"
	"github.com/hubwatch/hubwatch/internal/webhook"
	"github.com/spf13/cobra"
)

var servePort int
var serveLogDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the webhook listener",
	Long: `Starts both halves of hubwatch as one long-running process:

  • The Telegram bot long-polls for chat commands (/repo, /commits,
    /issues, /search, ...) and answers with repository data.
  • The webhook listener accepts signed GitHub webhook deliveries on
    POST /webhook and turns them into chat notifications.

Point your repository's webhook at http://<host>:<port>/webhook with
content type application/json and the secret from your config. A
GET /health endpoint is exposed for liveness checks.

If a digest schedule is configured, a periodic summary of the watched
repositories is sent to the chat as well. Example schedules:
  "0 9 * * *"   — every morning at 09:00
  "@every 6h"   — every 6 hours
  "@daily"      — once per day at midnight`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"webhook port to listen on (default 8000, overrides config)")
	serveCmd.Flags().StringVar(&serveLogDir, "log-dir", "",
		"directory to write serve logs for later inspection (empty: stdout only)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		fmt.Println("\nShutting down gracefully...")
		cancel()
	}()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if servePort > 0 {
		cfg.Webhook.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w (run 'hubwatch onboard' to fix)", err)
	}

	closeLog, err := setupServeLogger(serveLogDir)
	if err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	defer closeLog()

	provider, err := repository.New(cfg)
	if err != nil {
		return fmt.Errorf("creating repository provider: %w", err)
	}
	tg := telegram.NewClient(cfg.Telegram.Token)
	dispatcher := notify.NewDispatcher(cfg.Notify, notify.NewTelegram(tg, cfg.Telegram.ChatID))

	fmt.Printf("hubwatch starting\n")
	fmt.Printf("  Provider   : %s\n", provider.Name())
	fmt.Printf("  Webhook    : http://%s:%d/webhook\n", cfg.Webhook.Host, cfg.Webhook.Port)
	fmt.Printf("  Health     : http://%s:%d/health\n", cfg.Webhook.Host, cfg.Webhook.Port)
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop gracefully.")
	fmt.Println()

	dg := digest.New(cfg.Digest, provider, dispatcher)
	if err := dg.Start(ctx); err != nil {
		return err
	}
	defer dg.Stop()

	errs := make(chan error, 2)
	go func() {
		errs <- webhook.New(cfg.Webhook, dispatcher).Start(ctx)
	}()
	go func() {
		errs <- bot.New(cfg, tg, provider).Run(ctx)
	}()

	// First failure (or a clean ctx shutdown) takes everything down.
	err = <-errs
	cancel()
	if second := <-errs; err == nil {
		err = second
	}
	return err
}

// setupServeLogger points slog at stdout, and additionally at a
// timestamped file plus a stable serve.log when logDir is set.
func setupServeLogger(logDir string) (func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	out := io.Writer(os.Stdout)
	cleanup := func() {}

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log dir %s: %w", logDir, err)
		}
		ts := time.Now().UTC().Format("20060102-150405")
		runFile, err := os.OpenFile(filepath.Join(logDir, fmt.Sprintf("serve-%s.log", ts)),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening run log file: %w", err)
		}
		latestFile, err := os.OpenFile(filepath.Join(logDir, "serve.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			_ = runFile.Close()
			return nil, fmt.Errorf("opening latest log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, runFile, latestFile)
		cleanup = func() {
			_ = latestFile.Close()
			_ = runFile.Close()
		}
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose,
	})
	slog.SetDefault(slog.New(handler))
	slog.SetLogLoggerLevel(level)
	return cleanup, nil
}
