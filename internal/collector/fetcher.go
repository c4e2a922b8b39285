package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"PriceForecaster/internal/model"
)

// Fetcher defines the interface for fetching daily quotes.
type Fetcher interface {
	// FetchDailyBars returns the daily bars in [start, end), oldest first.
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}

// newHTTPClient builds a client with a 30s timeout and optional proxy.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// inWindow reports whether t falls on a day in [start, end).
func inWindow(t, start, end time.Time) bool {
	day := truncateDay(t)
	return !day.Before(truncateDay(start)) && day.Before(truncateDay(end))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// getJSON issues a GET and decodes a 200 response body into out. Non-200
// responses are returned as errors carrying the body text.
func getJSON(ctx context.Context, client *http.Client, endpoint string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
