package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultEmailBaseURL   = "https://api.resend.com"
	DefaultEmailTimeout   = 10 * time.Second
	DefaultEmailRateLimit = 2 // requests per second
)

// Email sends messages through an HTTP email API.
type Email struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// EmailOption configures the email client
type EmailOption func(*Email)

func WithBaseURL(baseURL string) EmailOption {
	return func(e *Email) {
		e.baseURL = baseURL
	}
}

// WithRateLimit sets the maximum number of requests per second
func WithRateLimit(requestsPerSecond int) EmailOption {
	return func(e *Email) {
		e.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

func WithTimeout(timeout time.Duration) EmailOption {
	return func(e *Email) {
		e.httpClient.Timeout = timeout
	}
}

func NewEmail(apiKey, from string, opts ...EmailOption) *Email {
	e := &Email{
		baseURL: DefaultEmailBaseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: DefaultEmailTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultEmailRateLimit), DefaultEmailRateLimit),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// APIError is returned when the email API does not accept the message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("email API error: %s (status: %d)", e.Message, e.StatusCode)
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (e *Email) Send(ctx context.Context, message Message) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(emailRequest{
		From:    e.from,
		To:      []string{message.To},
		Subject: message.Subject,
		Text:    message.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	log.Debug().Str("to", message.To).Str("subject", message.Subject).Msg("Email sent")
	return nil
}
