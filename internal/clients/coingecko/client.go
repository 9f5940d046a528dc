// Package coingecko provides a client for the CoinGecko API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

const (
	DefaultBaseURL   = "https://pro-api.coingecko.com/api/v3"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the CryptoDataClient interface.
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

// NewClient creates a new CoinGecko client
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
	return fmt.Sprintf("CoinGecko API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request. The API key travels in a header,
// not the query string.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-pro-api-key", c.apiKey)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("CoinGecko API request")

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

type marketEntry struct {
	ID               string  `json:"id"`
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	CurrentPrice     float64 `json:"current_price"`
	PriceChangePct24 float64 `json:"price_change_percentage_24h"`
	MarketCap        float64 `json:"market_cap"`
	TotalVolume      float64 `json:"total_volume"`
}

func (m marketEntry) toAsset() *models.ResolvedAsset {
	return &models.ResolvedAsset{
		Symbol:     strings.ToUpper(m.Symbol),
		Name:       m.Name,
		Class:      models.AssetClassCrypto,
		Price:      m.CurrentPrice,
		ChangePct:  m.PriceChangePct24,
		MarketCap:  m.MarketCap,
		Volume:     m.TotalVolume,
		DataSource: "coingecko",
	}
}

// LookupSymbol resolves a bare crypto ticker through the coins list, then
// fetches market data for the highest-ranked match.
func (c *Client) LookupSymbol(ctx context.Context, symbol string) (*models.ResolvedAsset, error) {
	results, err := c.Search(ctx, symbol)
	if err != nil {
		return nil, err
	}

	target := strings.ToUpper(symbol)
	for _, r := range results {
		if strings.EqualFold(r.Symbol, target) {
			return c.AssetByID(ctx, r.ID)
		}
	}
	return nil, fmt.Errorf("coin %s: %w", symbol, common.ErrNotFound)
}

type searchResponse struct {
	Coins []struct {
		ID            string `json:"id"`
		Symbol        string `json:"symbol"`
		Name          string `json:"name"`
		MarketCapRank int    `json:"market_cap_rank"`
	} `json:"coins"`
}

// Search performs a free-text search ranked by the upstream's relevance.
func (c *Client) Search(ctx context.Context, query string) ([]*models.SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)

	var resp searchResponse
	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	results := make([]*models.SearchResult, 0, len(resp.Coins))
	for _, coin := range resp.Coins {
		results = append(results, &models.SearchResult{
			ID:            coin.ID,
			Symbol:        strings.ToUpper(coin.Symbol),
			Name:          coin.Name,
			MarketCapRank: coin.MarketCapRank,
		})
	}
	return results, nil
}

// AssetByID fetches market data for a CoinGecko coin identifier.
func (c *Client) AssetByID(ctx context.Context, id string) (*models.ResolvedAsset, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("ids", id)

	var entries []marketEntry
	if err := c.get(ctx, "/coins/markets", params, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("coin id %s: %w", id, common.ErrNotFound)
	}
	return entries[0].toAsset(), nil
}

var _ interfaces.CryptoDataClient = (*Client)(nil)
