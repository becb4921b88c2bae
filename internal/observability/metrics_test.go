package observability_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/mentorat/leads-api/internal/observability"
)

func TestMetricsHandlerExposesLeadOutcomes(t *testing.T) {
	observability.LeadSubmissions().WithLabelValues("created").Inc()

	app := fiber.New()
	app.Get("/metrics", observability.MetricsHandler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "lead_submissions_total")
	require.Contains(t, string(body), `outcome="created"`)
}

func TestCollectorsRegisterOnce(t *testing.T) {
	require.NotPanics(t, func() {
		observability.RegisterMetrics()
		observability.RegisterMetrics()
	})
	require.Same(t, observability.APIRequests(), observability.APIRequests())
}
