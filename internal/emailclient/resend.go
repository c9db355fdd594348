package emailclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/NomadCrew/nomad-crew-newsletter/pkg/secret"
	"github.com/NomadCrew/nomad-crew-newsletter/pkg/valueobjects"
	"github.com/resend/resend-go/v2"
)

// statusKey holds the *int that statusRecorder fills with the provider's
// response status. resend-go drops the status from its errors.
type statusKey struct{}

type statusRecorder struct {
	next http.RoundTripper
}

func (t statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err == nil {
		if status, ok := req.Context().Value(statusKey{}).(*int); ok {
			*status = resp.StatusCode
		}
	}
	return resp, err
}

type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendClient delivers through the Resend API instead of the generic
// provider endpoint. It reports failures with the same DispatchError kinds.
type ResendClient struct {
	sender  valueobjects.SubscriberEmail
	emails  resendEmails
	metrics *Metrics
}

func NewResendClient(sender valueobjects.SubscriberEmail, apiKey secret.String, timeout time.Duration, opts ...Option) (*ResendClient, error) {
	return newResendClient(sender, apiKey, timeout, nil, opts...)
}

// newResendClient overrides the API base URL when baseURL is non-nil.
func newResendClient(sender valueobjects.SubscriberEmail, apiKey secret.String, timeout time.Duration, baseURL *url.URL, opts ...Option) (*ResendClient, error) {
	if apiKey.IsEmpty() {
		return nil, fmt.Errorf("%w: resend API key is required", ErrInvalidConfig)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if sender.IsZero() {
		return nil, fmt.Errorf("%w: sender is required", ErrInvalidConfig)
	}

	o := applyOptions(opts)
	httpClient := newHTTPClient(timeout)
	httpClient.Transport = statusRecorder{next: http.DefaultTransport}
	client := resend.NewCustomClient(httpClient, apiKey.Expose())
	if baseURL != nil {
		client.BaseURL = baseURL
	}
	return &ResendClient{
		sender:  sender,
		emails:  client.Emails,
		metrics: o.metrics,
	}, nil
}

func (c *ResendClient) SendEmail(ctx context.Context, recipient valueobjects.SubscriberEmail, subject, htmlContent, textContent string) (err error) {
	start := time.Now()
	defer func() { c.metrics.observe(start, err) }()

	var status int
	ctx = context.WithValue(ctx, statusKey{}, &status)

	_, sendErr := c.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.sender.String(),
		To:      []string{recipient.String()},
		Subject: subject,
		Html:    htmlContent,
		Text:    textContent,
	})
	if sendErr == nil {
		return nil
	}

	var urlErr *url.Error
	if errors.As(sendErr, &urlErr) || errors.Is(sendErr, context.Canceled) || errors.Is(sendErr, context.DeadlineExceeded) {
		return transportError(sendErr)
	}
	return rejectedError(status, sendErr)
}
