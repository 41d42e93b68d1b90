// Package sdk provides typed access to the awardkit HTTP and WebSocket API.
package sdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"awardkit/core"
)

// Option configures the Client.
type Option func(*Client)

// Client provides typed access to the awardkit HTTP + WebSocket API.
type Client struct {
	baseURL    string
	wsURL      string
	httpClient *http.Client
	headers    http.Header
}

// NewClient constructs a new SDK client targeting the given baseURL (e.g., http://localhost:8080/api).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("baseURL is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	c := &Client{
		baseURL:    baseURL,
		wsURL:      deriveWSURL(baseURL),
		httpClient: http.DefaultClient,
		headers:    make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithAuthToken adds an Authorization: Bearer token header to all requests (HTTP + WS).
func WithAuthToken(token string) Option {
	return func(c *Client) {
		if strings.TrimSpace(token) != "" {
			c.headers.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithAPIKey adds an X-API-Key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if strings.TrimSpace(key) != "" {
			c.headers.Set("X-API-Key", key)
		}
	}
}

// WithHeader sets an arbitrary header applied to HTTP and WS calls.
func WithHeader(k, v string) Option {
	return func(c *Client) {
		if k != "" {
			c.headers.Set(k, v)
		}
	}
}

// Catalog lists every award tier published by the server.
func (c *Client) Catalog(ctx context.Context) ([]CatalogEntry, error) {
	var body struct {
		Awards []CatalogEntry `json:"awards"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/catalog", &body); err != nil {
		return nil, err
	}
	return body.Awards, nil
}

// UserAwards fetches the awards a user currently holds.
func (c *Client) UserAwards(ctx context.Context, userID string) ([]UserAward, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrEmptyUserID
	}
	u := fmt.Sprintf("%s/users/%s/awards", c.baseURL, url.PathEscape(userID))
	var body struct {
		Awards []UserAward `json:"awards"`
	}
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}
	return body.Awards, nil
}

// Recheck asks the server to re-evaluate the user's awards and returns the
// resulting held set.
func (c *Client) Recheck(ctx context.Context, userID string) ([]UserAward, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrEmptyUserID
	}
	u := fmt.Sprintf("%s/users/%s/awards/recheck", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, err
	}
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body struct {
		Awards []UserAward `json:"awards"`
	}
	if err := decodeJSON(resp, &body); err != nil {
		return nil, err
	}
	return body.Awards, nil
}

// Recipients pages through the holders of an award tier, most recent first.
func (c *Client) Recipients(ctx context.Context, code string, tier, offset, limit int) ([]UserAward, error) {
	u, err := url.Parse(fmt.Sprintf("%s/awards/%s/%d/recipients", c.baseURL, url.PathEscape(code), tier))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("offset", strconv.Itoa(offset))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u.RawQuery = q.Encode()

	var body struct {
		Recipients []UserAward `json:"recipients"`
	}
	if err := c.getJSON(ctx, u.String(), &body); err != nil {
		return nil, err
	}
	return body.Recipients, nil
}

// Rarity fetches the rarity percentage of an award tier.
func (c *Client) Rarity(ctx context.Context, code string, tier int) (Rarity, error) {
	u := fmt.Sprintf("%s/awards/%s/%d/rarity", c.baseURL, url.PathEscape(code), tier)
	var r Rarity
	if err := c.getJSON(ctx, u, &r); err != nil {
		return Rarity{}, err
	}
	return r, nil
}

// Leaderboard fetches the n most decorated users.
func (c *Client) Leaderboard(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	u, err := url.Parse(c.baseURL + "/leaderboard")
	if err != nil {
		return nil, err
	}
	if n > 0 {
		q := u.Query()
		q.Set("n", strconv.Itoa(n))
		u.RawQuery = q.Encode()
	}
	var body struct {
		Entries []LeaderboardEntry `json:"entries"`
	}
	if err := c.getJSON(ctx, u.String(), &body); err != nil {
		return nil, err
	}
	return body.Entries, nil
}

// Health probes /healthz and returns status + storage check.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var hs HealthStatus
	if err := c.getJSON(ctx, c.baseURL+"/healthz", &hs); err != nil {
		return HealthStatus{}, err
	}
	return hs, nil
}

// SubscribeEvents connects to the WebSocket stream and emits core.Event values.
// The returned channel closes when ctx is done or the connection drops.
func (c *Client) SubscribeEvents(ctx context.Context) (<-chan core.Event, error) {
	if c.wsURL == "" {
		return nil, errors.New("wsURL is not set; ensure baseURL is http/https")
	}
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, c.wsURL, c.headers)
	if err != nil {
		return nil, err
	}

	out := make(chan core.Event, 32)
	go func() {
		defer close(out)
		defer conn.Close()
		for {
			select {
			case <-ctx.Done():
				return
			default:
				var evt core.Event
				if err := conn.ReadJSON(&evt); err != nil {
					return
				}
				select {
				case out <- evt:
				default:
					// drop if consumer is slow
				}
			}
		}
	}()
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp, target)
}

func (c *Client) applyHeaders(r *http.Request) {
	for k, vals := range c.headers {
		for _, v := range vals {
			r.Header.Add(k, v)
		}
	}
}

func deriveWSURL(httpBase string) string {
	u, err := url.Parse(httpBase)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		// leave as-is for custom schemes
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String()
}
