package resend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := New(Config{APIKey: "re_test_key", BaseURL: server.URL}, zerolog.New(io.Discard))
	require.NoError(t, err)
	return client
}

func TestClientRequiresAPIKey(t *testing.T) {
	_, err := New(Config{}, zerolog.New(io.Discard))
	require.Error(t, err)
}

func TestClientSendSuccess(t *testing.T) {
	var captured struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		ReplyTo string   `json:"reply_to"`
		Subject string   `json:"subject"`
		HTML    string   `json:"html"`
	}
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "email-123"})
	}))
	defer server.Close()

	client := testClient(t, server)
	result, err := client.Send(context.Background(), Message{
		From:    "noreply@example.com",
		To:      "admin@example.com",
		ReplyTo: "lead@example.com",
		Subject: "New Consultation Request",
		HTML:    "<h2>New Consultation Request</h2>",
	})

	require.NoError(t, err)
	require.Equal(t, "email-123", result.ID)
	require.Equal(t, "Bearer re_test_key", authHeader)
	require.Equal(t, "noreply@example.com", captured.From)
	require.Equal(t, []string{"admin@example.com"}, captured.To)
	require.Equal(t, "lead@example.com", captured.ReplyTo)
}

func TestClientSendRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode": 429,
			"name":       "rate_limit_exceeded",
			"message":    "Too many requests",
		})
	}))
	defer server.Close()

	client := testClient(t, server)
	_, err := client.Send(context.Background(), Message{To: "admin@example.com"})

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	require.Equal(t, http.StatusTooManyRequests, providerErr.StatusCode)
	require.True(t, providerErr.Transient())
	require.True(t, IsTransient(err))
}

func TestClientSendPermanentFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name":    "validation_error",
			"message": "Invalid `from` address",
		})
	}))
	defer server.Close()

	client := testClient(t, server)
	_, err := client.Send(context.Background(), Message{To: "admin@example.com"})

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	require.Equal(t, "validation_error", providerErr.Name)
	require.False(t, providerErr.Transient())
	require.False(t, IsTransient(err))
}

func TestTransientClassification(t *testing.T) {
	require.True(t, (&ProviderError{StatusCode: 500, Message: "rate limit exceeded"}).Transient())
	require.True(t, (&ProviderError{StatusCode: 500, Message: "upstream timeout"}).Transient())
	require.True(t, (&ProviderError{StatusCode: 500, Message: "ETIMEDOUT"}).Transient())
	require.False(t, (&ProviderError{StatusCode: 500, Message: "internal error"}).Transient())

	require.True(t, IsTransient(errors.New("dial tcp: i/o timeout")))
	require.True(t, IsTransient(errors.New("request failed: ETIMEDOUT")))
	require.False(t, IsTransient(errors.New("connection refused")))
	require.False(t, IsTransient(nil))
}
