package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"PriceForecaster/internal/config"
	"PriceForecaster/internal/notifier"

	"github.com/spf13/cobra"
)

var runFlags struct {
	ticker   string
	source   string
	csvPath  string
	chartDir string
	noCharts bool
	horizon  int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the forecast once and print the report",
	RunE:  runOnce,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.ticker, "ticker", "", "ticker symbol (default from config, GOOG)")
	f.StringVar(&runFlags.source, "source", "", "data source: yahoo, rest, csv or mock")
	f.StringVar(&runFlags.csvPath, "csv", "", "CSV file to read quotes from (implies --source csv)")
	f.StringVar(&runFlags.chartDir, "chart-dir", "", "directory for PNG charts")
	f.BoolVar(&runFlags.noCharts, "no-charts", false, "skip chart rendering")
	f.IntVar(&runFlags.horizon, "horizon", 0, "forecast steps")
}

// applyRunFlags lets command line flags override the loaded configuration.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("ticker") {
		cfg.Ticker = strings.ToUpper(runFlags.ticker)
	}
	if flags.Changed("source") {
		cfg.DataSource.Type = strings.ToLower(runFlags.source)
	}
	if flags.Changed("csv") {
		cfg.DataSource.CSVPath = runFlags.csvPath
		if !flags.Changed("source") {
			cfg.DataSource.Type = config.SourceCSV
		}
	}
	if flags.Changed("chart-dir") {
		cfg.Output.ChartDir = runFlags.chartDir
	}
	if runFlags.noCharts {
		cfg.Output.Render = false
	}
	if flags.Changed("horizon") {
		cfg.Forecast.Horizon = runFlags.horizon
	}
}

func runOnce(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rec := newRecorder(cfg)
	defer rec.Close()

	p := newPipeline(cfg, rec, os.Stdout)
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		p.Notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}
	_, err = p.Run(ctx)
	return err
}
