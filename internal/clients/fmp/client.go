// Package fmp provides a client for the Financial Modeling Prep API.
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

const (
	DefaultBaseURL   = "https://financialmodelingprep.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the MarketDataClient interface.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new FMP client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("FMP API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("FMP API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

type quoteResponse struct {
	Symbol           string      `json:"symbol"`
	Name             string      `json:"name"`
	Price            flexFloat64 `json:"price"`
	ChangePercentage flexFloat64 `json:"changesPercentage"`
	MarketCap        flexFloat64 `json:"marketCap"`
	Volume           flexFloat64 `json:"volume"`
}

// LookupSymbol resolves a ticker to a priced asset via the quote endpoint.
// FMP answers an unknown symbol with an empty array, not an error status.
func (c *Client) LookupSymbol(ctx context.Context, symbol string) (*models.ResolvedAsset, error) {
	path := fmt.Sprintf("/api/v3/quote/%s", url.PathEscape(strings.ToUpper(symbol)))

	var quotes []quoteResponse
	if err := c.get(ctx, path, nil, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("quote %s: %w", symbol, common.ErrNotFound)
	}

	q := quotes[0]
	return &models.ResolvedAsset{
		Symbol:     q.Symbol,
		Name:       q.Name,
		Class:      models.AssetClassEquity,
		Price:      float64(q.Price),
		ChangePct:  float64(q.ChangePercentage),
		MarketCap:  float64(q.MarketCap),
		Volume:     float64(q.Volume),
		DataSource: "fmp",
	}, nil
}

type indicatorBar struct {
	Date string `json:"date"`

	RSI  flexFloat64 `json:"rsi"`
	EMA  flexFloat64 `json:"ema"`
	SMA  flexFloat64 `json:"sma"`
	DEMA flexFloat64 `json:"dema"`
}

func (b indicatorBar) valueFor(t models.IndicatorType) float64 {
	switch t {
	case models.IndicatorRSI:
		return float64(b.RSI)
	case models.IndicatorEMA:
		return float64(b.EMA)
	case models.IndicatorSMA:
		return float64(b.SMA)
	case models.IndicatorDEMA:
		return float64(b.DEMA)
	}
	return 0
}

// FetchIndicator retrieves a technical indicator series, most recent first.
func (c *Client) FetchIndicator(ctx context.Context, symbol string, cfg models.IndicatorConfig) (*models.IndicatorSeries, error) {
	path := fmt.Sprintf("/stable/technical-indicators/%s", url.PathEscape(strings.ToLower(string(cfg.Type))))

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("periodLength", strconv.Itoa(cfg.Period))
	params.Set("timeframe", cfg.Timeframe)

	var bars []indicatorBar
	if err := c.get(ctx, path, params, &bars); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("indicator %s for %s: %w", cfg.Type, symbol, common.ErrNotFound)
	}

	series := &models.IndicatorSeries{
		Type:      cfg.Type,
		Symbol:    strings.ToUpper(symbol),
		Timeframe: cfg.Timeframe,
		Period:    cfg.Period,
		Points:    make([]models.IndicatorPoint, 0, len(bars)),
	}
	for _, bar := range bars {
		series.Points = append(series.Points, models.IndicatorPoint{
			Date:      bar.Date,
			Value:     bar.valueFor(cfg.Type),
			Timeframe: cfg.Timeframe,
			Period:    cfg.Period,
		})
	}
	return series, nil
}

type calendarEvent struct {
	Event    string   `json:"event"`
	Country  string   `json:"country"`
	Date     string   `json:"date"`
	Impact   string   `json:"impact"`
	Actual   *float64 `json:"actual"`
	Estimate *float64 `json:"estimate"`
	Previous *float64 `json:"previous"`
}

// GetEconomicCalendar lists scheduled macro releases inside [from, to].
func (c *Client) GetEconomicCalendar(ctx context.Context, from, to time.Time) ([]*models.EconomicEvent, error) {
	params := url.Values{}
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var raw []calendarEvent
	if err := c.get(ctx, "/api/v3/economic_calendar", params, &raw); err != nil {
		return nil, err
	}

	events := make([]*models.EconomicEvent, 0, len(raw))
	for _, ev := range raw {
		date, err := time.Parse("2006-01-02 15:04:05", ev.Date)
		if err != nil {
			date, err = time.Parse("2006-01-02", ev.Date)
			if err != nil {
				continue
			}
		}
		events = append(events, &models.EconomicEvent{
			Event:    ev.Event,
			Country:  ev.Country,
			Date:     date,
			Impact:   ev.Impact,
			Actual:   ev.Actual,
			Estimate: ev.Estimate,
			Previous: ev.Previous,
		})
	}
	return events, nil
}

var _ interfaces.MarketDataClient = (*Client)(nil)
