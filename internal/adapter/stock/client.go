// internal/adapter/stock/client.go

package stock

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable reports that no price data exists for a ticker. It is
// a valid outcome, distinct from a transport failure.
var ErrUnavailable = errors.New("price data unavailable")

// Quote is one daily closing price
type Quote struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Client fetches daily price history from the Stooq CSV endpoint
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a price client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// DailyCloses returns one close series per ticker. Tickers with no
// data are omitted; an entirely empty result maps to ErrUnavailable.
func (c *Client) DailyCloses(ctx context.Context, tickers []string, days int) (map[string][]Quote, error) {
	result := make(map[string][]Quote, len(tickers))
	for _, ticker := range tickers {
		quotes, err := c.fetchTicker(ctx, ticker, days)
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				continue
			}
			return nil, err
		}
		result[ticker] = quotes
	}

	if len(result) == 0 {
		return nil, ErrUnavailable
	}
	return result, nil
}

func (c *Client) fetchTicker(ctx context.Context, ticker string, days int) ([]Quote, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	params := url.Values{}
	params.Set("s", strings.ToLower(ticker))
	params.Set("d1", start.Format("20060102"))
	params.Set("d2", end.Format("20060102"))
	params.Set("i", "d")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building price request: %w", err)
	}
	req.Header.Set("User-Agent", "brandpulse/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching prices for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price provider returned status %d for %s", resp.StatusCode, ticker)
	}

	return parseCSV(resp.Body)
}

// parseCSV reads the Date,Open,High,Low,Close,Volume layout, keeping
// date and close. A header-only or malformed body means no data.
func parseCSV(r io.Reader) ([]Quote, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing price csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrUnavailable
	}

	quotes := make([]Quote, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 5 {
			continue
		}
		date, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			continue
		}
		closePrice, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			continue
		}
		quotes = append(quotes, Quote{Date: date, Close: closePrice})
	}

	if len(quotes) == 0 {
		return nil, ErrUnavailable
	}
	return quotes, nil
}
