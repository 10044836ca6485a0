package mailchimp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

type Client struct {
	apiKey     string
	audienceID string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

// WithBaseURL points the client at another API root (tests, proxies).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRatePerSecond paces outbound calls; Mailchimp throttles bursts per API key.
func WithRatePerSecond(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
		}
	}
}

func NewClient(apiKey, audienceID, serverPrefix string, opts ...Option) *Client {
	if serverPrefix == "" {
		serverPrefix = "us1"
	}

	c := &Client{
		apiKey:     apiKey,
		audienceID: audienceID,
		baseURL:    fmt.Sprintf("https://%s.api.mailchimp.com/3.0", serverPrefix),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe adds email to the audience as a pending member (double opt-in).
func (c *Client) Subscribe(ctx context.Context, email string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("mailchimp rate limiter: %w", err)
	}

	payload, err := json.Marshal(AddListMemberInput{
		EmailAddress: email,
		Status:       StatusPending,
	})
	if err != nil {
		return fmt.Errorf("encoding mailchimp member: %w", err)
	}

	endpoint := fmt.Sprintf("%s/lists/%s/members", c.baseURL, url.PathEscape(c.audienceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building mailchimp request: %w", err)
	}
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling mailchimp: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Title != "" {
			return fmt.Errorf("mailchimp add member: %d - %s: %s", resp.StatusCode, apiErr.Title, apiErr.Detail)
		}
		return fmt.Errorf("mailchimp add member: %d - %s", resp.StatusCode, string(body))
	}

	return nil
}

func (c *Client) addAuthHeaders(req *http.Request) {
	// Mailchimp aceita qualquer usuário no basic auth, só a API key importa
	req.SetBasicAuth("anystring", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
