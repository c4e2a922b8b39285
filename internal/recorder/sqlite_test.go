package recorder

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"PriceForecaster/internal/arima"
	"PriceForecaster/internal/model"
	"PriceForecaster/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *RunRecord {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := &model.PriceSeries{Symbol: "GOOG", FetchedAt: start.Add(time.Hour)}
	for i := 0; i < 5; i++ {
		series.Dates = append(series.Dates, start.AddDate(0, 0, i))
		series.Closes = append(series.Closes, 100+float64(i))
	}
	return &RunRecord{
		Symbol:    "GOOG",
		Source:    "mock",
		StartedAt: start,
		Status:    StatusOK,
		Series:    series,
		Fits: []FitRecord{{
			Model: "ARIMA",
			Summary: &arima.Summary{
				Spec: arima.Spec{Order: arima.Order{P: 5, D: 1, Q: 2}},
				NObs: 5, LogLik: -3, AIC: 22, BIC: 23, HQIC: 22.5, Sigma2: 0.4,
				LjungBox: &stats.LjungBoxResult{Statistic: 1, PValue: 0.8, Lags: 10},
				Warnings: []string{"a", "b"},
			},
			Forecast: &arima.Forecast{
				Start: 5, Alpha: 0.05,
				Mean:   []float64{105, 106},
				StdErr: []float64{1, 2},
				Lower:  []float64{103, 102},
				Upper:  []float64{107, 110},
			},
		}},
	}
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer r.Close()

	run := sampleRun()
	require.NoError(t, r.RecordRun(run))
	assert.NotEmpty(t, run.ID)

	var status string
	var nobs int
	require.NoError(t, r.db.QueryRow(`SELECT status, observations FROM runs WHERE id = ?`, run.ID).Scan(&status, &nobs))
	assert.Equal(t, StatusOK, status)
	assert.Equal(t, 5, nobs)

	var fetchedAt int64
	require.NoError(t, r.db.QueryRow(`SELECT fetched_at FROM runs WHERE id = ?`, run.ID).Scan(&fetchedAt))
	assert.Equal(t, run.StartedAt.Add(time.Hour).Unix(), fetchedAt)

	var quotes, forecasts int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM quotes WHERE run_id = ?`, run.ID).Scan(&quotes))
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM forecasts WHERE run_id = ?`, run.ID).Scan(&forecasts))
	assert.Equal(t, 5, quotes)
	assert.Equal(t, 2, forecasts)

	var spec, warnings string
	require.NoError(t, r.db.QueryRow(`SELECT spec, warnings FROM model_fits WHERE run_id = ?`, run.ID).Scan(&spec, &warnings))
	assert.Equal(t, "ARIMA(5, 1, 2)", spec)
	assert.Equal(t, "a; b", warnings)

	var position int
	var upper float64
	require.NoError(t, r.db.QueryRow(`SELECT position, upper FROM forecasts WHERE run_id = ? AND step = 2`, run.ID).Scan(&position, &upper))
	assert.Equal(t, 6, position)
	assert.Equal(t, 110.0, upper)
}

func TestSQLiteRecorder_FailedRun(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer r.Close()

	run := &RunRecord{ID: "fixed", Symbol: "GOOG", StartedAt: time.Now(), Status: StatusFailed,
		FailedStage: "fetch", Error: "no data"}
	require.NoError(t, r.RecordRun(run))
	assert.Equal(t, "fixed", run.ID)

	var stage string
	require.NoError(t, r.db.QueryRow(`SELECT failed_stage FROM runs WHERE id = 'fixed'`).Scan(&stage))
	assert.Equal(t, "fetch", stage)

	var fetchedAt sql.NullInt64
	require.NoError(t, r.db.QueryRow(`SELECT fetched_at FROM runs WHERE id = 'fixed'`).Scan(&fetchedAt))
	assert.False(t, fetchedAt.Valid, "a run that never fetched has no fetch time")

	// duplicate id violates the primary key
	assert.Error(t, r.RecordRun(run))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(sampleRun()))
	assert.NoError(t, r.Close())
}
