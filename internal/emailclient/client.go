// Package emailclient sends transactional email through an HTTP email
// provider. One Client is built at startup and shared by all requests.
package emailclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/NomadCrew/nomad-crew-newsletter/pkg/secret"
	"github.com/NomadCrew/nomad-crew-newsletter/pkg/valueobjects"
)

// AuthHeader carries the provider credential.
const AuthHeader = "X-Provider-Auth-Token"

// Client posts emails to {baseURL}/email.
type Client struct {
	endpoint   string
	sender     valueobjects.SubscriberEmail
	token      secret.String
	httpClient *http.Client
	metrics    *Metrics
}

type options struct {
	metrics *Metrics
}

// Option configures a Client or ResendClient.
type Option func(*options)

// WithMetrics records every dispatch in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		// Redirects are surfaced as a rejected status rather than followed.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewClient validates its inputs once so SendEmail cannot fail on configuration.
func NewClient(baseURL string, sender valueobjects.SubscriberEmail, token secret.String, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be an absolute http(s) URL", ErrInvalidConfig, baseURL)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if sender.IsZero() {
		return nil, fmt.Errorf("%w: sender is required", ErrInvalidConfig)
	}

	o := applyOptions(opts)
	return &Client{
		endpoint:   u.JoinPath("email").String(),
		sender:     sender,
		token:      token,
		httpClient: newHTTPClient(timeout),
		metrics:    o.metrics,
	}, nil
}

// SendEmail makes a single delivery attempt. Failures are *DispatchError.
func (c *Client) SendEmail(ctx context.Context, recipient valueobjects.SubscriberEmail, subject, htmlContent, textContent string) (err error) {
	start := time.Now()
	defer func() { c.metrics.observe(start, err) }()

	body, err := json.Marshal(sendEmailRequest{
		From:     c.sender.String(),
		To:       recipient.String(),
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: textContent,
	})
	if err != nil {
		return transportError(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return transportError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(AuthHeader, c.token.Expose())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rejectedError(resp.StatusCode, nil)
	}
	return nil
}
