// Package oddsapi is the REST client for The Odds API v4, the upstream feed
// of events, bookmaker odds, and per-sport market catalogs.
package oddsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/arbisport/arbisport/internal/domain"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.the-odds-api.com"

// limiterKey is the rate-limiter bucket all requests share: the provider
// bills the quota per API key, not per endpoint.
const limiterKey = "oddsapi"

// Client implements domain.OddsFeed against The Odds API. A nil limiter
// disables request throttling.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    domain.RateLimiter
}

// NewClient creates a new feed client.
func NewClient(baseURL, apiKey string, limiter domain.RateLimiter) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: limiter,
	}
}

// Odds fetches primary-market odds for every upcoming event of a sport.
func (c *Client) Odds(ctx context.Context, sportKey string, regions, bookmakers, markets []string) (domain.OddsSnapshot, error) {
	path := fmt.Sprintf("/v4/sports/%s/odds", url.PathEscape(sportKey))
	body, usage, err := c.doGet(ctx, path, c.oddsParams(regions, bookmakers, markets))
	if err != nil {
		return domain.OddsSnapshot{}, fmt.Errorf("oddsapi: odds %s: %w", sportKey, err)
	}

	var events []domain.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return domain.OddsSnapshot{}, fmt.Errorf("oddsapi: decode odds %s: %w", sportKey, err)
	}
	return domain.OddsSnapshot{Events: events, Usage: usage}, nil
}

// EventOdds fetches odds for a single event, used for deep markets the bulk
// endpoint does not carry. The endpoint returns one event object; it is
// wrapped in a one-element snapshot for a uniform shape.
func (c *Client) EventOdds(ctx context.Context, sportKey, eventID string, regions, bookmakers, markets []string) (domain.OddsSnapshot, error) {
	path := fmt.Sprintf("/v4/sports/%s/events/%s/odds", url.PathEscape(sportKey), url.PathEscape(eventID))
	body, usage, err := c.doGet(ctx, path, c.oddsParams(regions, bookmakers, markets))
	if err != nil {
		// An unknown event id is a 404; callers see an empty snapshot and
		// resolve it as event-not-found rather than a transport failure.
		if errors.Is(err, domain.ErrNotFound) {
			return domain.OddsSnapshot{Usage: usage}, nil
		}
		return domain.OddsSnapshot{}, fmt.Errorf("oddsapi: event odds %s/%s: %w", sportKey, eventID, err)
	}

	var ev domain.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return domain.OddsSnapshot{}, fmt.Errorf("oddsapi: decode event odds %s/%s: %w", sportKey, eventID, err)
	}
	if ev.ID == "" {
		return domain.OddsSnapshot{Usage: usage}, nil
	}
	return domain.OddsSnapshot{Events: []domain.Event{ev}, Usage: usage}, nil
}

// ListMarkets returns the market catalog for a sport.
func (c *Client) ListMarkets(ctx context.Context, sportKey string) (domain.MarketList, error) {
	path := fmt.Sprintf("/v4/sports/%s/markets", url.PathEscape(sportKey))
	body, usage, err := c.doGet(ctx, path, url.Values{})
	if err != nil {
		return domain.MarketList{}, fmt.Errorf("oddsapi: list markets %s: %w", sportKey, err)
	}

	var entries []struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return domain.MarketList{}, fmt.Errorf("oddsapi: decode markets %s: %w", sportKey, err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Key != "" {
			keys = append(keys, e.Key)
		}
	}
	return domain.MarketList{Markets: keys, Usage: usage}, nil
}

// oddsParams builds the shared query parameters for odds endpoints. List
// parameters are sorted before joining so identical requests always produce
// identical URLs. When bookmakers are given they take precedence over
// regions, matching the provider's own precedence rule.
func (c *Client) oddsParams(regions, bookmakers, markets []string) url.Values {
	params := url.Values{}
	params.Set("oddsFormat", "american")
	params.Set("dateFormat", "iso")
	if len(bookmakers) > 0 {
		params.Set("bookmakers", joinSorted(bookmakers))
	} else if len(regions) > 0 {
		params.Set("regions", joinSorted(regions))
	}
	if len(markets) > 0 {
		params.Set("markets", joinSorted(markets))
	}
	return params
}

func (c *Client) doGet(ctx context.Context, path string, params url.Values) ([]byte, domain.RateUsage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, limiterKey); err != nil {
			return nil, domain.RateUsage{}, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	params.Set("apiKey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, domain.RateUsage{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.RateUsage{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.RateUsage{}, fmt.Errorf("read response: %w", err)
	}

	usage := parseUsage(resp.Header)
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, usage, fmt.Errorf("quota exhausted: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, usage, fmt.Errorf("status 404: %w", domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, usage, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, usage, nil
}

// parseUsage reads the provider's quota headers. Either header may be absent
// or malformed; only values that parse are reported.
func parseUsage(h http.Header) domain.RateUsage {
	var usage domain.RateUsage
	if v := h.Get("x-requests-remaining"); v != "" {
		// Quota headers arrive as decimal strings, occasionally fractional.
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			n := int(f)
			usage.Remaining = &n
		}
	}
	if v := h.Get("x-requests-reset"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			t := time.Unix(secs, 0).UTC()
			usage.Reset = &t
		}
	}
	return usage
}

func joinSorted(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
