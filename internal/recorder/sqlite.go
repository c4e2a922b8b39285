package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers are not blocked while a run is written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id           TEXT PRIMARY KEY,
			symbol       TEXT NOT NULL,
			source       TEXT,
			started_at   INTEGER NOT NULL,
			finished_at  INTEGER,
			fetched_at   INTEGER,
			status       TEXT NOT NULL,
			failed_stage TEXT,
			error        TEXT,
			observations INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON runs(symbol, started_at)`,

		`CREATE TABLE IF NOT EXISTS quotes (
			run_id TEXT NOT NULL,
			date   TEXT NOT NULL,
			close  REAL,
			PRIMARY KEY (run_id, date)
		)`,

		`CREATE TABLE IF NOT EXISTS model_fits (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			model       TEXT NOT NULL,
			spec        TEXT,
			nobs        INTEGER,
			loglik      REAL,
			aic         REAL,
			bic         REAL,
			hqic        REAL,
			sigma2      REAL,
			ljungbox_q  REAL,
			ljungbox_p  REAL,
			evaluations INTEGER,
			warnings    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fits_run ON model_fits(run_id)`,

		`CREATE TABLE IF NOT EXISTS forecasts (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id   TEXT NOT NULL,
			model    TEXT NOT NULL,
			step     INTEGER NOT NULL,
			position INTEGER NOT NULL,
			mean     REAL,
			std_err  REAL,
			lower    REAL,
			upper    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forecasts_run ON forecasts(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable maps NaN and Inf to SQL NULL.
func nullable(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// RecordRun writes the run and its children in one transaction.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	nobs := 0
	var fetchedAt any
	if run.Series != nil {
		nobs = run.Series.Len()
		if !run.Series.FetchedAt.IsZero() {
			fetchedAt = run.Series.FetchedAt.Unix()
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs
		(id, symbol, source, started_at, finished_at, fetched_at, status, failed_stage, error, observations)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.Symbol, run.Source, run.StartedAt.Unix(), run.FinishedAt.Unix(), fetchedAt,
		run.Status, run.FailedStage, run.Error, nobs,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if run.Series != nil {
		for i, d := range run.Series.Dates {
			if _, err := tx.Exec(`INSERT OR REPLACE INTO quotes (run_id, date, close) VALUES (?,?,?)`,
				run.ID, d.Format("2006-01-02"), run.Series.Closes[i]); err != nil {
				return fmt.Errorf("insert quote: %w", err)
			}
		}
	}

	for _, fit := range run.Fits {
		if s := fit.Summary; s != nil {
			var q, p any
			if s.LjungBox != nil {
				q, p = nullable(s.LjungBox.Statistic), nullable(s.LjungBox.PValue)
			}
			if _, err := tx.Exec(`INSERT INTO model_fits
				(run_id, model, spec, nobs, loglik, aic, bic, hqic, sigma2, ljungbox_q, ljungbox_p, evaluations, warnings)
				VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
				run.ID, fit.Model, s.Spec.String(), s.NObs,
				nullable(s.LogLik), nullable(s.AIC), nullable(s.BIC), nullable(s.HQIC), nullable(s.Sigma2),
				q, p, s.Evals, strings.Join(s.Warnings, "; "),
			); err != nil {
				return fmt.Errorf("insert model fit: %w", err)
			}
		}
		if fc := fit.Forecast; fc != nil {
			for h := 0; h < fc.Len(); h++ {
				if _, err := tx.Exec(`INSERT INTO forecasts
					(run_id, model, step, position, mean, std_err, lower, upper)
					VALUES (?,?,?,?,?,?,?,?)`,
					run.ID, fit.Model, h+1, fc.Start+h,
					nullable(fc.Mean[h]), nullable(fc.StdErr[h]), nullable(fc.Lower[h]), nullable(fc.Upper[h]),
				); err != nil {
					return fmt.Errorf("insert forecast: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
