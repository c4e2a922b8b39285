package collector

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"PriceForecaster/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

const yahooResponse = `{"chart":{"result":[{
  "meta":{"symbol":"GOOG","gmtoffset":-14400},
  "timestamp":[1704205800,1704292200,1704378600],
  "indicators":{
    "quote":[{"open":[139.6,null,138.1],"high":[140.6,null,139.2],"low":[137.8,null,136.9],
              "close":[139.56,null,138.04],"volume":[20071900,null,18253300]}],
    "adjclose":[{"adjclose":[139.35,null,137.83]}]}}],"error":null}}`

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/GOOG", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Write([]byte(yahooResponse))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	start, end := day("2024-01-01"), day("2024-01-05")
	bars, err := f.FetchDailyBars(context.Background(), "GOOG", start, end)
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "period1=1704067200")
	assert.Contains(t, gotQuery, "period2=1704412800")

	// null bar skipped
	require.Len(t, bars, 2)
	assert.Equal(t, day("2024-01-02"), bars[0].Time)
	assert.Equal(t, day("2024-01-04"), bars[1].Time)
	assert.Equal(t, 139.56, bars[0].Close)
	assert.Equal(t, 139.35, bars[0].AdjClose)
	assert.Equal(t, 18253300.0, bars[1].Volume)
}

func TestYahooFetcher_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "BAD") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "BAD", day("2024-01-01"), day("2024-02-01"))
	assert.Error(t, err)

	_, err = f.FetchDailyBars(context.Background(), "EMPTY", day("2024-01-01"), day("2024-02-01"))
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
}

func TestRESTFetcher_FetchDailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bars/daily", r.URL.Path)
		assert.Equal(t, "GOOG", r.URL.Query().Get("symbol"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("from"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`[
			{"timestamp":1704326400,"open":1,"high":2,"low":0.5,"close":1.5,"volume":10},
			{"timestamp":1704240000,"open":1,"high":2,"low":0.5,"close":1.4,"adj_close":1.3,"volume":10},
			{"timestamp":1709251200,"open":1,"high":2,"low":0.5,"close":9,"volume":10}
		]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "")
	bars, err := f.FetchDailyBars(context.Background(), "GOOG", day("2024-01-01"), day("2024-02-01"))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, day("2024-01-03"), bars[0].Time)
	assert.Equal(t, 1.3, bars[0].AdjClose)
	assert.Equal(t, 1.5, bars[1].AdjClose)
}

func TestRESTFetcher_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewRESTFetcher(srv.URL, "", "").FetchDailyBars(context.Background(), "GOOG", day("2024-01-01"), day("2024-02-01"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

const csvData = `Date,Open,High,Low,Close,Adj Close,Volume
2024-01-03,138.6,141.0,138.0,140.4,140.2,22000000
2024-01-02,139.6,140.6,137.8,139.6,139.4,20071900
2024-01-04,,,,,,
2023-06-01,120,121,119,120.5,120.3,1000
`

func TestCSVFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goog.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0o644))

	bars, err := NewCSVFetcher(path).FetchDailyBars(context.Background(), "GOOG", day("2024-01-01"), day("2024-02-01"))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, day("2024-01-02"), bars[0].Time)
	assert.Equal(t, 139.4, bars[0].AdjClose)
	assert.Equal(t, 140.4, bars[1].Close)
}

func TestParseBarsCSV_MissingColumns(t *testing.T) {
	_, err := ParseBarsCSV(strings.NewReader("Open,Close\n1,2\n"))
	assert.Error(t, err)
	_, err = ParseBarsCSV(strings.NewReader("Date,Open\n2024-01-02,2\n"))
	assert.Error(t, err)
}

func TestCollect(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 6, 3, 15, 4, 5, 0, time.UTC) }
	c := NewCollector(&MockFetcher{Drift: 0.1, Amplitude: 5}, "GOOG", 365)
	c.Now = now

	start, end := c.Window()
	assert.Equal(t, day("2023-06-04"), start)
	assert.Equal(t, day("2024-06-03"), end)

	bars, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Greater(t, len(bars), 250)
	assert.True(t, bars[len(bars)-1].Time.Before(end))
}

func TestCollect_DataUnavailable(t *testing.T) {
	c := NewCollector(&MockFetcher{DailyData: []model.OHLCV{}}, "GOOG", 365)
	_, err := c.Collect(context.Background())
	assert.ErrorIs(t, err, model.ErrDataUnavailable)

	c = NewCollector(&MockFetcher{Err: errors.New("connection refused")}, "GOOG", 365)
	_, err = c.Collect(context.Background())
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMockFetcher_Deterministic(t *testing.T) {
	f := &MockFetcher{Drift: 0.1, Amplitude: 5, Noise: 0.3, Seed: 1}
	a, _ := f.FetchDailyBars(context.Background(), "X", day("2024-01-01"), day("2024-03-01"))
	b, _ := f.FetchDailyBars(context.Background(), "X", day("2024-01-01"), day("2024-03-01"))
	assert.Equal(t, a, b)
	for _, bar := range a {
		assert.NotEqual(t, time.Saturday, bar.Time.Weekday())
		assert.NotEqual(t, time.Sunday, bar.Time.Weekday())
	}
}

func TestPrepare(t *testing.T) {
	bars := []model.OHLCV{
		{Time: day("2024-01-04"), Close: 3},
		{Time: day("2024-01-02"), Close: 1},
		{Time: day("2024-01-03"), Close: 2},
		{Time: day("2024-01-03").Add(16 * time.Hour), Close: 2.5},
	}
	s, err := Prepare("GOOG", bars)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{1, 2.5, 3}, s.Closes)
	for i := 1; i < s.Len(); i++ {
		assert.True(t, s.Dates[i].After(s.Dates[i-1]))
	}
	d, v := s.Last()
	assert.Equal(t, day("2024-01-04"), d)
	assert.Equal(t, 3.0, v)
}

func TestPrepare_Empty(t *testing.T) {
	_, err := Prepare("GOOG", nil)
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
}

func TestPrepare_NonFiniteClose(t *testing.T) {
	bars := []model.OHLCV{
		{Time: day("2024-01-02"), Close: 1},
		{Time: day("2024-01-03"), Close: math.NaN()},
	}
	_, err := Prepare("GOOG", bars)
	assert.ErrorIs(t, err, model.ErrNonFiniteValues)
	assert.Contains(t, err.Error(), "2024-01-03")

	bars[1].Close = math.Inf(1)
	_, err = Prepare("GOOG", bars)
	assert.ErrorIs(t, err, model.ErrNonFiniteValues)
}
