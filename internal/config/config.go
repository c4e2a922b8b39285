package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Data source types.
const (
	SourceYahoo = "yahoo"
	SourceREST  = "rest"
	SourceCSV   = "csv"
	SourceMock  = "mock"
)

// OrderConfig is a (p, d, q) triple.
type OrderConfig struct {
	P int `yaml:"p"`
	D int `yaml:"d"`
	Q int `yaml:"q"`
}

// SeasonalConfig is a (P, D, Q, s) quadruple.
type SeasonalConfig struct {
	P      int `yaml:"p"`
	D      int `yaml:"d"`
	Q      int `yaml:"q"`
	Period int `yaml:"period"`
}

// Config holds all application configuration.
type Config struct {
	Ticker     string `yaml:"ticker"`
	WindowDays int    `yaml:"window_days"`
	DataSource struct {
		Type    string `yaml:"type"`
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		CSVPath string `yaml:"csv_path"`
	} `yaml:"data_source"`
	Decomposition struct {
		Period int    `yaml:"period"`
		Model  string `yaml:"model"`
	} `yaml:"decomposition"`
	Diagnostics struct {
		ACFLags  int `yaml:"acf_lags"` // 0 means every lag
		PACFLags int `yaml:"pacf_lags"`
	} `yaml:"diagnostics"`
	ARIMA struct {
		Order OrderConfig `yaml:"order"`
	} `yaml:"arima"`
	SARIMA struct {
		Order    OrderConfig    `yaml:"order"`
		Seasonal SeasonalConfig `yaml:"seasonal"`
	} `yaml:"sarima"`
	Forecast struct {
		Horizon int     `yaml:"horizon"`
		Alpha   float64 `yaml:"alpha"`
	} `yaml:"forecast"`
	Fit struct {
		MaxEvaluations int `yaml:"max_evaluations"`
	} `yaml:"fit"`
	Output struct {
		ChartDir string `yaml:"chart_dir"`
		Render   bool   `yaml:"render"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	cfg := &Config{Ticker: "GOOG", WindowDays: 365}
	cfg.DataSource.Type = SourceYahoo
	cfg.Decomposition.Period = 30
	cfg.Decomposition.Model = "multiplicative"
	cfg.Diagnostics.PACFLags = 30
	cfg.ARIMA.Order = OrderConfig{P: 5, D: 1, Q: 2}
	cfg.SARIMA.Order = OrderConfig{P: 5, D: 1, Q: 2}
	cfg.SARIMA.Seasonal = SeasonalConfig{P: 5, D: 1, Q: 2, Period: 12}
	cfg.Forecast.Horizon = 11
	cfg.Forecast.Alpha = 0.05
	cfg.Fit.MaxEvaluations = 40000
	cfg.Output.ChartDir = "charts"
	cfg.Output.Render = true
	return cfg
}

// Load reads config from a YAML file on top of the defaults, then applies
// .env and environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] load .env: %v", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TICKER"); v != "" {
		c.Ticker = strings.ToUpper(v)
	}
	if v := os.Getenv("WINDOW_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse WINDOW_DAYS: %w", err)
		}
		c.WindowDays = days
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		c.DataSource.Type = strings.ToLower(v)
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("CSV_PATH"); v != "" {
		c.DataSource.CSVPath = v
	}
	if v := os.Getenv("CHART_DIR"); v != "" {
		c.Output.ChartDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		c.Schedule.Cron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	return nil
}

// Validate checks the configuration for a one-shot run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Ticker) == "" {
		return fmt.Errorf("ticker is required")
	}
	if c.WindowDays <= 0 {
		return fmt.Errorf("window_days must be positive, got %d", c.WindowDays)
	}

	switch c.DataSource.Type {
	case SourceYahoo, SourceMock:
	case SourceREST:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest source")
		}
	case SourceCSV:
		if c.DataSource.CSVPath == "" {
			return fmt.Errorf("data_source.csv_path is required for the csv source")
		}
	default:
		return fmt.Errorf("unknown data_source.type %q", c.DataSource.Type)
	}

	if c.Decomposition.Period < 2 {
		return fmt.Errorf("decomposition.period must be >= 2, got %d", c.Decomposition.Period)
	}
	switch c.Decomposition.Model {
	case "multiplicative", "additive":
	default:
		return fmt.Errorf("unknown decomposition.model %q", c.Decomposition.Model)
	}
	if c.Diagnostics.ACFLags < 0 || c.Diagnostics.PACFLags < 0 {
		return fmt.Errorf("diagnostics lags must not be negative")
	}

	if err := c.ARIMA.Order.validate("arima.order"); err != nil {
		return err
	}
	if err := c.SARIMA.Order.validate("sarima.order"); err != nil {
		return err
	}
	s := c.SARIMA.Seasonal
	if s.P < 0 || s.D < 0 || s.Q < 0 {
		return fmt.Errorf("sarima.seasonal has a negative order")
	}
	if s.P+s.D+s.Q > 0 && s.Period < 2 {
		return fmt.Errorf("sarima.seasonal.period must be >= 2, got %d", s.Period)
	}

	if c.Forecast.Horizon < 1 {
		return fmt.Errorf("forecast.horizon must be at least 1, got %d", c.Forecast.Horizon)
	}
	if c.Forecast.Alpha <= 0 || c.Forecast.Alpha >= 1 {
		return fmt.Errorf("forecast.alpha must be in (0, 1), got %g", c.Forecast.Alpha)
	}
	if c.Fit.MaxEvaluations < 0 {
		return fmt.Errorf("fit.max_evaluations must not be negative")
	}
	return nil
}

// ValidateServe adds the requirements of the scheduled mode.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Schedule.Cron == "" {
		return fmt.Errorf("schedule.cron is required")
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

func (o OrderConfig) validate(name string) error {
	if o.P < 0 || o.D < 0 || o.Q < 0 {
		return fmt.Errorf("%s has a negative order", name)
	}
	return nil
}
