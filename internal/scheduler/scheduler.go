package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"PriceForecaster/internal/notifier"
	"PriceForecaster/internal/pipeline"
	"PriceForecaster/internal/report"

	"github.com/robfig/cron/v3"
)

// Runner executes one forecast run.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// Scheduler runs the forecast on a cron schedule and answers bot commands.
type Scheduler struct {
	Cron   *cron.Cron
	Runner Runner
	Symbol string
	Ctx    context.Context

	runMu   sync.Mutex // held for the duration of a run
	stopped bool       // guarded by runMu
	mu      sync.Mutex
	last    *pipeline.Result
	lastErr error
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner Runner, symbol string) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Runner: runner,
		Symbol: symbol,
		Ctx:    ctx,
	}
}

// Register adds the forecast task on spec (six fields, seconds first).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.forecastTask); err != nil {
		return fmt.Errorf("register forecast task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a run in progress, including
// one started by RunNow or /forecast. No run starts afterwards.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.runMu.Lock()
	s.stopped = true
	s.runMu.Unlock()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the forecast task immediately (for manual trigger / RUN_ON_START).
// It reports false when a run is already in progress or the scheduler is stopped.
func (s *Scheduler) RunNow() bool {
	return s.forecast()
}

func (s *Scheduler) forecastTask() {
	if !s.forecast() {
		log.Println("[WARN] previous forecast still running, skipping")
	}
}

func (s *Scheduler) forecast() bool {
	if !s.runMu.TryLock() {
		return false
	}
	defer s.runMu.Unlock()
	if s.stopped {
		return false
	}

	log.Println("[INFO] running forecast task")
	res, err := s.Runner.Run(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] forecast task: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err == nil {
		s.last = res
	}
	return true
}

// Last returns the latest successful result and the error of the latest run.
func (s *Scheduler) Last() (*pipeline.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.lastErr
}

// Commands returns the bot commands served by the scheduler.
func (s *Scheduler) Commands() notifier.Commands {
	return notifier.Commands{
		"/forecast": func() string {
			go func() {
				if !s.forecast() {
					log.Println("[WARN] /forecast ignored, a run is in progress")
				}
			}()
			return fmt.Sprintf("⏳ Forecasting %s, results follow shortly.", s.Symbol)
		},
		"/last": s.lastReply,
	}
}

func (s *Scheduler) lastReply() string {
	res, err := s.Last()
	if res == nil {
		if err != nil {
			return report.FormatFailure(s.Symbol, err)
		}
		return "No forecast has run yet."
	}
	msg := report.FormatForecastMessage(res.Report())
	if err != nil {
		msg += "\n\n" + report.FormatFailure(s.Symbol, err)
	}
	return msg
}

// RetryingNotifier sends through Telegram with exponential backoff.
type RetryingNotifier struct {
	Ctx        context.Context
	Telegram   *notifier.TelegramNotifier
	MaxRetries int
}

func (r *RetryingNotifier) Send(text string) error {
	return r.Telegram.SendWithRetry(r.Ctx, text, r.MaxRetries)
}
