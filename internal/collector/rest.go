package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"PriceForecaster/internal/model"
)

// RESTFetcher implements Fetcher against a generic JSON bars API.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      float64  `json:"open"`
	High      float64  `json:"high"`
	Low       float64  `json:"low"`
	Close     float64  `json:"close"`
	AdjClose  *float64 `json:"adj_close"`
	Volume    float64  `json:"volume"`
}

func (f *RESTFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", start.Format("2006-01-02"))
	q.Set("to", end.Format("2006-01-02"))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, q.Encode())

	header := http.Header{}
	if f.APIKey != "" {
		header.Set("Authorization", "Bearer "+f.APIKey)
	}
	var raw []restBar
	if err := getJSON(ctx, f.Client, endpoint, header, &raw); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}

	bars := make([]model.OHLCV, 0, len(raw))
	for _, rb := range raw {
		t := time.Unix(rb.Timestamp, 0).UTC()
		if !inWindow(t, start, end) {
			continue
		}
		adj := rb.Close
		if rb.AdjClose != nil {
			adj = *rb.AdjClose
		}
		bars = append(bars, model.OHLCV{
			Time:     truncateDay(t),
			Open:     rb.Open,
			High:     rb.High,
			Low:      rb.Low,
			Close:    rb.Close,
			AdjClose: adj,
			Volume:   rb.Volume,
		})
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
