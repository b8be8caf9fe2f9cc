package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves raw iCal text from external calendar providers. Each
// sync attempt performs exactly one request, with no caching and no retry;
// retry policy lives in the caller's scheduling.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with a 30 second request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch downloads the feed at url and returns its body as text. Network
// failures, non-2xx statuses and empty bodies each produce a FetchError
// with a distinct cause; the status code appears in the message so it can
// surface in the property's sync error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Cause: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Cause: fmt.Errorf("reading response: %w", err)}
	}
	if len(body) == 0 {
		return "", &FetchError{URL: url, Cause: errors.New("empty response body")}
	}

	return string(body), nil
}
