// Package pipeline runs fetch, preparation, diagnostics, model fitting,
// forecasting and presentation for one ticker.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"PriceForecaster/internal/arima"
	"PriceForecaster/internal/calculator"
	"PriceForecaster/internal/chart"
	"PriceForecaster/internal/collector"
	"PriceForecaster/internal/model"
	"PriceForecaster/internal/recorder"
	"PriceForecaster/internal/report"
	"PriceForecaster/internal/stats"

	"github.com/google/uuid"
)

// bandWidth is k in the last ± k·σ·√h plausibility band.
const bandWidth = 3.0

// Options are the analysis knobs of a run.
type Options struct {
	DecompositionPeriod int
	DecompositionModel  string
	ACFLags             int // 0 means every lag
	PACFLags            int
	ARIMA               arima.Spec
	SARIMA              arima.Spec
	Horizon             int
	Fit                 arima.Options
}

// DefaultOptions mirrors the default configuration.
func DefaultOptions() Options {
	return Options{
		DecompositionPeriod: 30,
		DecompositionModel:  stats.Multiplicative,
		PACFLags:            30,
		ARIMA:               arima.Spec{Order: arima.Order{P: 5, D: 1, Q: 2}},
		SARIMA: arima.Spec{
			Order:    arima.Order{P: 5, D: 1, Q: 2},
			Seasonal: arima.SeasonalOrder{P: 5, D: 1, Q: 2, Period: 12},
		},
		Horizon: 11,
	}
}

// Notifier delivers the run summary.
type Notifier interface {
	Send(text string) error
}

// Pipeline wires the stages together. Renderer, Recorder, Notifier and Out
// are optional.
type Pipeline struct {
	Collector *collector.Collector
	Opts      Options
	Renderer  *chart.Renderer
	Recorder  recorder.Recorder
	Notifier  Notifier
	Out       io.Writer
}

// Result holds everything a run produced.
type Result struct {
	RunID          string
	Symbol         string
	Source         string
	StartedAt      time.Time
	Bars           []model.OHLCV
	Series         *model.PriceSeries
	Stats          *model.SeriesStats
	Decomposition  *stats.DecompositionResult
	ACF            *stats.Correlogram
	PACF           *stats.Correlogram
	ARIMA          *arima.Model
	ARIMAForecast  *arima.Forecast
	SARIMA         *arima.Model
	SARIMAForecast *arima.Forecast
	Charts         []string
	Warnings       []string
}

// Report converts the result for the report formatters.
func (r *Result) Report() *report.RunReport {
	rr := &report.RunReport{
		RunID:     r.RunID,
		Symbol:    r.Symbol,
		Source:    r.Source,
		StartedAt: r.StartedAt,
		Series:    r.Series,
		Stats:     r.Stats,
		ACF:       r.ACF,
		PACF:      r.PACF,
		Warnings:  r.Warnings,
		Charts:    r.Charts,
	}
	if r.ARIMA != nil {
		rr.Models = append(rr.Models, report.ModelResult{Name: "ARIMA", Summary: r.ARIMA.Summary(), Forecast: r.ARIMAForecast})
	}
	if r.SARIMA != nil {
		rr.Models = append(rr.Models, report.ModelResult{Name: "SARIMA", Summary: r.SARIMA.Summary(), Forecast: r.SARIMAForecast})
	}
	return rr
}

// Run executes every stage in order and stops at the first failure, which is
// returned as a *StageError.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		Symbol:    p.Collector.Symbol,
		Source:    p.Collector.Fetcher.Name(),
		StartedAt: time.Now(),
	}
	log.Printf("[INFO] run %s: %s from %s", res.RunID, res.Symbol, res.Source)

	stage, err := p.run(ctx, res)
	p.console().Run(res.Report(), res.Bars)
	if err != nil {
		serr := &StageError{Stage: stage, Err: err}
		log.Printf("[ERROR] run %s failed: %v", res.RunID, serr)
		p.record(res, serr)
		p.notify(report.FormatFailure(res.Symbol, serr))
		return res, serr
	}

	p.record(res, nil)
	p.notify(report.FormatForecastMessage(res.Report()))
	log.Printf("[INFO] run %s done", res.RunID)
	return res, nil
}

func (p *Pipeline) console() *report.Console {
	if p.Out == nil {
		return report.NewConsole(io.Discard)
	}
	return report.NewConsole(p.Out)
}

func (p *Pipeline) run(ctx context.Context, res *Result) (Stage, error) {
	o := p.Opts

	bars, err := p.Collector.Collect(ctx)
	if err != nil {
		return StageFetch, err
	}
	res.Bars = bars

	series, err := collector.Prepare(res.Symbol, bars)
	if err != nil {
		return StagePrepare, err
	}
	res.Series = series
	res.Stats = calculator.Summarize(series.Closes)

	if err := ctx.Err(); err != nil {
		return StageDecompose, err
	}
	dec, err := stats.Decompose(series.Closes, o.DecompositionPeriod, o.DecompositionModel)
	if err != nil {
		return StageDecompose, err
	}
	res.Decomposition = dec

	res.ACF = stats.AutocorrelationPlot(series.Closes, o.ACFLags)
	res.PACF = stats.PartialAutocorrelationPlot(series.Closes, o.PACFLags)
	if res.ACF == nil || res.PACF == nil {
		return StageCorrelate, errors.New("autocorrelation is undefined for a constant series")
	}

	steps := []struct {
		fitStage, forecastStage Stage
		name                    string
		spec                    arima.Spec
		model                   **arima.Model
		forecast                **arima.Forecast
	}{
		{StageFitARIMA, StageForecastARIMA, "ARIMA", o.ARIMA, &res.ARIMA, &res.ARIMAForecast},
		{StageFitSARIMA, StageForecastSARIMA, "SARIMA", o.SARIMA, &res.SARIMA, &res.SARIMAForecast},
	}
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return st.fitStage, err
		}
		began := time.Now()
		m := arima.New(st.spec, o.Fit)
		if err := m.Fit(series.Closes); err != nil {
			return st.fitStage, err
		}
		log.Printf("[INFO] fitted %s in %s (%d evaluations)", st.spec, time.Since(began).Round(time.Millisecond), m.Evaluations)
		*st.model = m

		fc, err := m.Predict(o.Horizon)
		if err != nil {
			return st.forecastStage, err
		}
		*st.forecast = fc
		p.checkBand(res, st.name, fc)
	}
	if p.Renderer != nil {
		if err := p.render(res); err != nil {
			return StageRender, err
		}
	}
	return "", nil
}

// checkBand warns when a forecast leaves last ± k·σ·√h.
func (p *Pipeline) checkBand(res *Result, name string, fc *arima.Forecast) {
	_, last := res.Series.Last()
	vol, err := calculator.CalculateVolatility(res.Series.Closes, 30)
	if err != nil || vol == 0 {
		return
	}
	if steps := calculator.OutsideBand(fc.Mean, last, vol, bandWidth); len(steps) > 0 {
		msg := fmt.Sprintf("%s forecast leaves the %.0fσ volatility band at steps %v", name, bandWidth, steps)
		log.Printf("[WARN] %s", msg)
		res.Warnings = append(res.Warnings, msg)
	}
}

func (p *Pipeline) render(res *Result) error {
	r := p.Renderer
	path, err := r.Decomposition(res.Decomposition, res.Symbol)
	if err != nil {
		return err
	}
	res.Charts = append(res.Charts, path)

	if path, err = r.Correlogram(res.ACF, fmt.Sprintf("%s autocorrelation", res.Symbol), "acf.png"); err != nil {
		return err
	}
	res.Charts = append(res.Charts, path)

	if path, err = r.Correlogram(res.PACF, fmt.Sprintf("%s partial autocorrelation", res.Symbol), "pacf.png"); err != nil {
		return err
	}
	res.Charts = append(res.Charts, path)

	path, err = r.Forecasts(res.Series.Closes, res.Symbol, []chart.NamedForecast{
		{Name: res.ARIMA.Spec.String(), Forecast: res.ARIMAForecast},
		{Name: res.SARIMA.Spec.String(), Forecast: res.SARIMAForecast},
	})
	if err != nil {
		return err
	}
	res.Charts = append(res.Charts, path)
	return nil
}

// record persists the run. Failures are logged only.
func (p *Pipeline) record(res *Result, runErr *StageError) {
	if p.Recorder == nil {
		return
	}
	rec := &recorder.RunRecord{
		ID:        res.RunID,
		Symbol:    res.Symbol,
		Source:    res.Source,
		StartedAt: res.StartedAt,
		Status:    recorder.StatusOK,
		Series:    res.Series,
	}
	if runErr != nil {
		rec.Status = recorder.StatusFailed
		rec.FailedStage = string(runErr.Stage)
		rec.Error = runErr.Err.Error()
	}
	if res.ARIMA != nil {
		rec.Fits = append(rec.Fits, recorder.FitRecord{Model: "ARIMA", Summary: res.ARIMA.Summary(), Forecast: res.ARIMAForecast})
	}
	if res.SARIMA != nil {
		rec.Fits = append(rec.Fits, recorder.FitRecord{Model: "SARIMA", Summary: res.SARIMA.Summary(), Forecast: res.SARIMAForecast})
	}
	if err := p.Recorder.RecordRun(rec); err != nil {
		log.Printf("[WARN] %v", &StageError{Stage: StageRecord, Err: err})
	}
}

// notify sends text when a notifier is configured. Failures are logged only.
func (p *Pipeline) notify(text string) {
	if p.Notifier == nil {
		return
	}
	if err := p.Notifier.Send(text); err != nil {
		log.Printf("[WARN] send notification: %v", err)
	}
}
