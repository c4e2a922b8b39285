package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"PriceForecaster/internal/model"
)

// CSVFetcher reads daily bars from a file in the common
// Date,Open,High,Low,Close,Adj Close,Volume export layout.
type CSVFetcher struct {
	Path string
}

// NewCSVFetcher creates a fetcher reading path.
func NewCSVFetcher(path string) *CSVFetcher {
	return &CSVFetcher{Path: path}
}

func (f *CSVFetcher) Name() string { return "csv" }

// FetchDailyBars ignores symbol; the file holds a single ticker.
func (f *CSVFetcher) FetchDailyBars(ctx context.Context, _ string, start, end time.Time) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	bars, err := ParseBarsCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	out := bars[:0]
	for _, b := range bars {
		if inWindow(b.Time, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

// ParseBarsCSV parses bars from r. Columns are matched by header name,
// case-insensitively; Date and Close are required.
func ParseBarsCSV(r io.Reader) ([]model.OHLCV, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	dateIdx, ok := cols["date"]
	if !ok {
		return nil, errors.New("missing Date column")
	}
	closeIdx, ok := cols["close"]
	if !ok {
		return nil, errors.New("missing Close column")
	}

	var bars []model.OHLCV
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		t, err := parseDate(rec[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c, err := strconv.ParseFloat(strings.TrimSpace(rec[closeIdx]), 64)
		if err != nil {
			// yfinance writes empty cells for halted days
			continue
		}
		bar := model.OHLCV{Time: t, Close: c, AdjClose: c}
		optional := func(name string, dst *float64) {
			if i, ok := cols[name]; ok && i < len(rec) {
				if v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64); err == nil {
					*dst = v
				}
			}
		}
		optional("open", &bar.Open)
		optional("high", &bar.High)
		optional("low", &bar.Low)
		optional("adj close", &bar.AdjClose)
		optional("volume", &bar.Volume)
		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// "2024-01-02 00:00:00-05:00" from newer exports
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
