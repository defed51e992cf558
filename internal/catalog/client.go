// Package catalog - клиент внешнего сервиса цен меню.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// RateLimitError содержит паузу, которую рекомендует сервис.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// PriceEntry - цена позиции в ответе сервиса.
type PriceEntry struct {
	ID    string          `json:"id"`
	Price decimal.Decimal `json:"price"`
}

// HTTPClient читает эталонные цены из внешнего сервиса каталога.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient создаёт HTTP-клиент каталога.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name возвращает адрес сервиса.
func (c *HTTPClient) Name() string {
	return c.baseURL
}

// Available проверяет, что сервис отдаёт каталог.
// 200 - каталог есть, 204/404/503 - каталога нет, остальное - ошибка.
func (c *HTTPClient) Available(ctx context.Context) (bool, error) {
	resp, err := c.get(ctx, "/api/catalog", nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNoContent, http.StatusNotFound, http.StatusServiceUnavailable:
		return false, nil
	case http.StatusTooManyRequests:
		return false, RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		return false, fmt.Errorf("unexpected catalog status: %d", resp.StatusCode)
	}
}

// PricesByIDs получает цены одним запросом. Ненайденные id в результат не попадают.
func (c *HTTPClient) PricesByIDs(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	resp, err := c.get(ctx, "/api/catalog/prices", url.Values{"id": ids})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload []PriceEntry
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode catalog response: %w", err)
		}
		for _, p := range payload {
			prices[p.ID] = p.Price
		}
		return prices, nil
	case http.StatusNoContent:
		return prices, nil
	case http.StatusTooManyRequests:
		return nil, RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		return nil, fmt.Errorf("unexpected catalog status: %d", resp.StatusCode)
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url: %w", err)
	}
	u.Path += path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	return resp, nil
}

func parseRetryAfter(val string) time.Duration {
	if val == "" {
		return 5 * time.Second
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
