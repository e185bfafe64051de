// internal/adapter/trends/client.go

package trends

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrUnavailable reports that the provider has no series for the
// request. It is a valid outcome, distinct from a transport failure.
var ErrUnavailable = errors.New("search interest unavailable")

// Point is one sample of a search-interest time series
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series is the interest-over-time data for one topic
type Series struct {
	Topic  string  `json:"topic"`
	Points []Point `json:"points"`
}

// Client fetches search-interest time series from an interest-over-time
// JSON endpoint
type Client struct {
	httpClient *http.Client
	baseURL    string
	window     string
}

// NewClient creates a trends client
func NewClient(baseURL, window string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		window:     window,
	}
}

type interestResponse struct {
	Series []Series `json:"series"`
}

// InterestOverTime returns one series per requested topic. Topics the
// provider has no data for are simply missing from the result; a fully
// empty response maps to ErrUnavailable.
func (c *Client) InterestOverTime(ctx context.Context, topics []string, regionCode string) (map[string]Series, error) {
	params := url.Values{}
	for _, topic := range topics {
		params.Add("q", topic)
	}
	params.Set("window", c.window)
	if regionCode != "" {
		params.Set("geo", regionCode)
	}

	endpoint := c.baseURL + "/interest?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building trends request: %w", err)
	}
	req.Header.Set("User-Agent", "brandpulse/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching search interest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends provider returned status %d", resp.StatusCode)
	}

	var decoded interestResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding trends response: %w", err)
	}

	if len(decoded.Series) == 0 {
		return nil, ErrUnavailable
	}

	result := make(map[string]Series, len(decoded.Series))
	for _, s := range decoded.Series {
		result[s.Topic] = s
	}
	return result, nil
}

// Values extracts the numeric samples of a series, for charting
func (s Series) Values() []float64 {
	values := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		values = append(values, p.Value)
	}
	return values
}
