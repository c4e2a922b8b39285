package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"PriceForecaster/internal/notifier"
	"PriceForecaster/internal/scheduler"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the forecast on a cron schedule and answer Telegram commands",
	RunE:  serve,
}

func serve(_ *cobra.Command, _ []string) error {
	log.Println("[INFO] forecaster starting...")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := newRecorder(cfg)
	defer rec.Close()

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	p := newPipeline(cfg, rec, os.Stdout)
	p.Notifier = &scheduler.RetryingNotifier{Ctx: ctx, Telegram: tn, MaxRetries: 3}

	sched := scheduler.NewScheduler(ctx, p, cfg.Ticker)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.Commands().Handler())
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing forecast now")
		go sched.RunNow()
	}

	log.Printf("[INFO] forecaster is running for %s (%s). Press Ctrl+C to stop.", cfg.Ticker, cfg.Schedule.Cron)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] forecaster stopped")
	return nil
}
