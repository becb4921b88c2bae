package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/mentorat/leads-api/internal/dto"
	"github.com/mentorat/leads-api/internal/handler"
	"github.com/mentorat/leads-api/internal/logging"
	"github.com/mentorat/leads-api/internal/service"
	"github.com/mentorat/leads-api/internal/validation"
)

type mockLeadService struct {
	lastPayload dto.LeadRequest
	lastMeta    service.RequestMeta
	response    dto.LeadResponse
	err         error
	calls       int
}

func (m *mockLeadService) Submit(_ context.Context, req dto.LeadRequest, meta service.RequestMeta) (dto.LeadResponse, error) {
	m.calls++
	m.lastPayload = req
	m.lastMeta = meta
	if m.err != nil {
		return dto.LeadResponse{}, m.err
	}
	return m.response, nil
}

func testLogger() *logging.Logger {
	return logging.NewWithWriters(io.Discard, io.Discard)
}

func newTestApp(svc service.LeadService) *fiber.App {
	app := fiber.New()
	handler.NewLeadHandler(svc, testLogger()).Register(app.Group("/api"))
	return app
}

func submitRequest(t *testing.T, body interface{}) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/submit-lead", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestLeadHandlerSubmitSuccess(t *testing.T) {
	svc := &mockLeadService{response: dto.LeadResponse{LeadID: "lead-1", EmailID: "email-1"}}
	app := newTestApp(svc)

	req := submitRequest(t, dto.LeadRequest{Name: "Test User", Phone: "+380501234567", Email: "test@example.com"})
	req.Header.Set("User-Agent", "test-agent/1.0")
	req.Header.Set("Referer", "https://example.com/courses")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		LeadID  string `json:"leadId"`
		EmailID string `json:"emailId"`
	}
	decodeBody(t, resp, &body)

	require.True(t, body.Success)
	require.Equal(t, "lead-1", body.LeadID)
	require.Equal(t, "email-1", body.EmailID)
	require.NotEmpty(t, body.Message)

	require.Equal(t, "test-agent/1.0", svc.lastMeta.UserAgent)
	require.Equal(t, "https://example.com/courses", svc.lastMeta.Referrer)
}

func TestLeadHandlerValidationFailure(t *testing.T) {
	svc := &mockLeadService{err: &service.ValidationError{Fields: []validation.FieldError{
		{Field: "name", Message: "name is required"},
		{Field: "phone", Message: "Phone must be 7-20 characters and contain at least 7 digits"},
	}}}
	app := newTestApp(svc)

	resp, err := app.Test(submitRequest(t, map[string]string{"phone": "+38050"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Success bool                    `json:"success"`
		Error   string                  `json:"error"`
		Details []validation.FieldError `json:"details"`
	}
	decodeBody(t, resp, &body)

	require.False(t, body.Success)
	require.Equal(t, "Validation failed", body.Error)
	require.Len(t, body.Details, 2)
}

func TestLeadHandlerServiceErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "config", err: service.ErrConfig, status: fiber.StatusInternalServerError, message: "Server configuration error"},
		{name: "email", err: service.ErrEmailSend, status: fiber.StatusInternalServerError, message: "Failed to send email"},
		{name: "database", err: service.ErrDatabase, status: fiber.StatusInternalServerError, message: "Failed to save lead to database"},
		{name: "unclassified", err: errors.New("boom"), status: fiber.StatusInternalServerError, message: "An unexpected error occurred"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockLeadService{err: tc.err}
			app := newTestApp(svc)

			resp, err := app.Test(submitRequest(t, dto.LeadRequest{Name: "Test User", Phone: "1234567"}))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)

			var body struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			decodeBody(t, resp, &body)
			require.False(t, body.Success)
			require.Equal(t, tc.message, body.Error)
		})
	}
}

func TestLeadHandlerInvalidBody(t *testing.T) {
	svc := &mockLeadService{}
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/submit-lead", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Zero(t, svc.calls)
}

func TestLeadHandlerInternalErrorsStayGeneric(t *testing.T) {
	svc := &mockLeadService{err: errors.New("pq: connection to 10.0.0.5 refused, password=hunter2")}
	app := newTestApp(svc)

	resp, err := app.Test(submitRequest(t, dto.LeadRequest{Name: "Test User", Phone: "1234567"}))
	require.NoError(t, err)

	raw, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	resp.Body.Close()

	require.NotContains(t, string(raw), "10.0.0.5")
	require.NotContains(t, string(raw), "hunter2")
}
