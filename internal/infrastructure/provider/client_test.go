package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cotsync/internal/application/port"
)

func TestFetchLatestQueryShape(t *testing.T) {
	var gotQuery map[string][]string
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("X-Api-Key")
		w.Write([]byte(`[{"cot_code":"088691","report_date":"2024-01-05T00:00:00Z","noncomm_long":"10","noncomm_short":"4","comm_long":"50","comm_short":"60","open_interest":"1000"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second)
	raw, err := c.FetchLatest(context.Background(), "088691")
	if err != nil {
		t.Fatalf("FetchLatest failed: %v", err)
	}

	if got := gotQuery["cot_code"]; len(got) != 1 || got[0] != "088691" {
		t.Errorf("cot_code = %v, want [088691]", got)
	}
	if got := gotQuery["limit"]; len(got) != 1 || got[0] != "1" {
		t.Errorf("limit = %v, want [1]", got)
	}
	if got := gotQuery["order"]; len(got) != 1 || got[0] != "report_date.desc" {
		t.Errorf("order = %v, want [report_date.desc]", got)
	}
	if gotKey != "secret" {
		t.Errorf("X-Api-Key = %q, want %q", gotKey, "secret")
	}

	if raw.ReportDate != "2024-01-05T00:00:00Z" || raw.OpenInterest != "1000" {
		t.Errorf("unexpected raw record: %+v", raw)
	}
}

func TestFetchLatestEmptyResultIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.FetchLatest(context.Background(), "000000")
	if !errors.Is(err, port.ErrNoData) {
		t.Errorf("err = %v, want port.ErrNoData", err)
	}
}

func TestFetchLatestNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.FetchLatest(context.Background(), "088691")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", apiErr.StatusCode)
	}
	if len(apiErr.Body) != maxErrBody {
		t.Errorf("Body length = %d, want truncated to %d", len(apiErr.Body), maxErrBody)
	}
}

func TestFetchLatestMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	if _, err := c.FetchLatest(context.Background(), "088691"); err == nil {
		t.Error("malformed JSON returned no error")
	}
}

func TestFetchLatestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 20*time.Millisecond)
	if _, err := c.FetchLatest(context.Background(), "088691"); err == nil {
		t.Error("slow server returned no error")
	}
}

func TestFetchLatestNoRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	c.FetchLatest(context.Background(), "088691")
	if calls != 1 {
		t.Errorf("server called %d times, want exactly 1 (no retries)", calls)
	}
}
