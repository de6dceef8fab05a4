package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cotsync/internal/application/port"
	"cotsync/internal/domain"
)

const maxErrBody = 512

// APIError is a non-2xx answer from the report API.
type APIError struct {
	StatusCode int
	Body       string // truncated to maxErrBody bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider http %d: %s", e.StatusCode, e.Body)
}

// Client queries the positioning-report API. One GET per instrument, no
// caching, no retries.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a report API client. An empty timeout defaults to 10s.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchLatest fetches the single most recent report for a provider code,
// ordered by report date descending. A successful empty result returns
// port.ErrNoData.
func (c *Client) FetchLatest(ctx context.Context, providerCode string) (*domain.RawReport, error) {
	params := url.Values{}
	params.Set("cot_code", providerCode)
	params.Set("limit", "1")
	params.Set("order", "report_date.desc")

	endpoint := c.baseURL + "/reports?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       truncate(body, maxErrBody),
		}
	}

	var reports []domain.RawReport
	if err := json.Unmarshal(body, &reports); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(reports) == 0 {
		return nil, port.ErrNoData
	}

	return &reports[0], nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

var _ port.ReportFetcher = (*Client)(nil)
