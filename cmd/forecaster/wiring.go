package main

import (
	"io"
	"log"
	"os"

	"PriceForecaster/internal/arima"
	"PriceForecaster/internal/chart"
	"PriceForecaster/internal/collector"
	"PriceForecaster/internal/config"
	"PriceForecaster/internal/pipeline"
	"PriceForecaster/internal/recorder"
)

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	return config.Load(path)
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Type {
	case config.SourceREST:
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case config.SourceCSV:
		return collector.NewCSVFetcher(cfg.DataSource.CSVPath)
	case config.SourceMock:
		return &collector.MockFetcher{Price: 150, Drift: 0.1, Amplitude: 5, Period: 30, Noise: 1, Seed: 1}
	default:
		return collector.NewYahooFetcher(cfg.Proxy)
	}
}

// newRecorder falls back to the noop recorder when SQLite is not configured or fails to open.
func newRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func pipelineOptions(cfg *config.Config) pipeline.Options {
	a, s := cfg.ARIMA.Order, cfg.SARIMA
	return pipeline.Options{
		DecompositionPeriod: cfg.Decomposition.Period,
		DecompositionModel:  cfg.Decomposition.Model,
		ACFLags:             cfg.Diagnostics.ACFLags,
		PACFLags:            cfg.Diagnostics.PACFLags,
		ARIMA:               arima.Spec{Order: arima.Order{P: a.P, D: a.D, Q: a.Q}},
		SARIMA: arima.Spec{
			Order:    arima.Order{P: s.Order.P, D: s.Order.D, Q: s.Order.Q},
			Seasonal: arima.SeasonalOrder{P: s.Seasonal.P, D: s.Seasonal.D, Q: s.Seasonal.Q, Period: s.Seasonal.Period},
		},
		Horizon: cfg.Forecast.Horizon,
		Fit: arima.Options{
			MaxEvaluations: cfg.Fit.MaxEvaluations,
			Alpha:          cfg.Forecast.Alpha,
		},
	}
}

func newPipeline(cfg *config.Config, rec recorder.Recorder, out io.Writer) *pipeline.Pipeline {
	fetcher := newFetcher(cfg)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	p := &pipeline.Pipeline{
		Collector: collector.NewCollector(fetcher, cfg.Ticker, cfg.WindowDays),
		Opts:      pipelineOptions(cfg),
		Recorder:  rec,
		Out:       out,
	}
	if cfg.Output.Render {
		p.Renderer = chart.NewRenderer(cfg.Output.ChartDir)
	}
	return p
}
