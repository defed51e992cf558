package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestHTTPClient_Available(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		want    bool
		wantErr bool
	}{
		{"catalog present", http.StatusOK, true, false},
		{"no catalog", http.StatusNotFound, false, false},
		{"maintenance", http.StatusServiceUnavailable, false, false},
		{"server error", http.StatusInternalServerError, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/catalog" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			got, err := NewHTTPClient(srv.URL, time.Second).Available(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Available() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPClient_PricesByIDs(t *testing.T) {
	var gotIDs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIDs = r.URL.Query()["id"]
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"A","price":"7.50"},{"id":"B","price":2.005}]`))
	}))
	defer srv.Close()

	prices, err := NewHTTPClient(srv.URL, time.Second).PricesByIDs(context.Background(), []string{"A", "B", "Z"})
	if err != nil {
		t.Fatalf("PricesByIDs() error = %v", err)
	}

	if !reflect.DeepEqual(gotIDs, []string{"A", "B", "Z"}) {
		t.Errorf("requested ids = %v", gotIDs)
	}
	if len(prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(prices))
	}
	if !prices["A"].Equal(decimal.RequireFromString("7.5")) || !prices["B"].Equal(decimal.RequireFromString("2.005")) {
		t.Errorf("prices = %v", prices)
	}
}

func TestHTTPClient_PricesByIDsEmpty(t *testing.T) {
	prices, err := NewHTTPClient("http://127.0.0.1:1", time.Second).PricesByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("PricesByIDs() error = %v", err)
	}
	if len(prices) != 0 {
		t.Errorf("expected empty map, got %v", prices)
	}
}

func TestHTTPClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, time.Second).PricesByIDs(context.Background(), []string{"A"})

	var rle RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rle.RetryAfter != 3*time.Second {
		t.Errorf("RetryAfter = %v, want 3s", rle.RetryAfter)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != 5*time.Second {
		t.Errorf("parseRetryAfter(\"\") = %v", got)
	}
	if got := parseRetryAfter("10"); got != 10*time.Second {
		t.Errorf("parseRetryAfter(\"10\") = %v", got)
	}
	if got := parseRetryAfter("soon"); got != 5*time.Second {
		t.Errorf("parseRetryAfter(\"soon\") = %v", got)
	}
}
