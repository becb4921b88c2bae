// Package resend implements the transactional email collaborator against the
// Resend REST API.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.resend.com"

// Message describes a single notification email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// SendResult carries the provider-assigned message identifier.
type SendResult struct {
	ID string
}

// Sender is the email collaborator consumed by the lead service.
type Sender interface {
	Send(ctx context.Context, msg Message) (SendResult, error)
}

// ProviderError is a structured failure returned by the email provider.
type ProviderError struct {
	StatusCode int
	Name       string
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("resend: %s (status %d): %s", e.Name, e.StatusCode, e.Message)
}

// Transient reports whether a retry is likely to succeed: rate limiting and
// timeouts are transient, everything else is permanent.
func (e *ProviderError) Transient() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	lower := strings.ToLower(e.Message)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "etimedout")
}

// IsTransient classifies any send error. Transport-level timeouts count as
// transient even without a structured provider error.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Transient()
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") || strings.Contains(lower, "etimedout")
}

// Config contains credentials required to talk to Resend.
type Config struct {
	APIKey  string
	BaseURL string
}

// Client implements Sender using the Resend HTTP API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// New constructs a Resend client instance.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("resend api key must be provided")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With().Str("component", "resend").Logger(),
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

// Send delivers a single email. Provider rejections come back as
// *ProviderError so callers can classify transient failures.
func (c *Client) Send(ctx context.Context, msg Message) (SendResult, error) {
	payload, err := json.Marshal(sendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to reach resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		providerErr := &ProviderError{StatusCode: resp.StatusCode, Name: "application_error"}
		var body errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr == nil {
			if body.Name != "" {
				providerErr.Name = body.Name
			}
			providerErr.Message = body.Message
		}
		return SendResult{}, providerErr
	}

	var body sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return SendResult{}, fmt.Errorf("failed to decode resend response: %w", err)
	}

	c.logger.Info().Str("email_id", body.ID).Msg("notification email accepted by provider")

	return SendResult{ID: body.ID}, nil
}
