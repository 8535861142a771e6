package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolhub/internal/application/ingestion/usecases"
	"poolhub/internal/interfaces/http/handlers/testutil"
	"poolhub/internal/shared/errors"
)

type mockIngestWebhookUC struct {
	result  *usecases.IngestWebhookResult
	err     error
	lastCmd usecases.IngestWebhookCommand
}

func (m *mockIngestWebhookUC) Execute(ctx context.Context, cmd usecases.IngestWebhookCommand) (*usecases.IngestWebhookResult, error) {
	m.lastCmd = cmd
	return m.result, m.err
}

func newTestWebhookHandler(uc ingestWebhookUseCase) *WebhookHandler {
	return NewWebhookHandler(uc, testutil.NewMockLogger())
}

func TestWebhookHandler_Receive_Accepted(t *testing.T) {
	mockUC := &mockIngestWebhookUC{result: &usecases.IngestWebhookResult{Accepted: true, Ingested: 3}}
	handler := newTestWebhookHandler(mockUC)

	payload := []byte(`{"events":[{"device_id":"ws-001","metric":"temperature","value":82.4}]}`)
	c, w := testutil.NewRawTestContext(http.MethodPost, "/webhooks/weather_station", payload, map[string]string{
		"Content-Type":        "application/json",
		"X-Webhook-Signature": "abc123",
	})
	testutil.SetURLParam(c, "provider", "weather_station")

	handler.Receive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "weather_station", mockUC.lastCmd.Provider)
	assert.Equal(t, payload, mockUC.lastCmd.Payload)
	assert.Equal(t, "abc123", mockUC.lastCmd.Headers["X-Webhook-Signature"])

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
}

func TestWebhookHandler_Receive_BadSignature(t *testing.T) {
	mockUC := &mockIngestWebhookUC{err: errors.NewUnauthorizedError("invalid webhook signature")}
	handler := newTestWebhookHandler(mockUC)

	c, w := testutil.NewRawTestContext(http.MethodPost, "/webhooks/weather_station", []byte(`{}`), map[string]string{
		"X-Webhook-Signature": "forged",
	})
	testutil.SetURLParam(c, "provider", "weather_station")

	handler.Receive(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookHandler_Receive_RemovedProvider(t *testing.T) {
	mockUC := &mockIngestWebhookUC{err: errors.NewProviderRemovedError("aqua_legacy")}
	handler := newTestWebhookHandler(mockUC)

	c, w := testutil.NewRawTestContext(http.MethodPost, "/webhooks/aqua_legacy", []byte(`{}`), nil)
	testutil.SetURLParam(c, "provider", "aqua_legacy")

	handler.Receive(c)

	assert.Equal(t, http.StatusGone, w.Code)
}

func TestWebhookHandler_Receive_QueuedForRetry(t *testing.T) {
	mockUC := &mockIngestWebhookUC{result: &usecases.IngestWebhookResult{
		Accepted:       false,
		QueuedForRetry: true,
		FailureID:      "igf_test123",
	}}
	handler := newTestWebhookHandler(mockUC)

	c, w := testutil.NewRawTestContext(http.MethodPost, "/webhooks/smart_meter", []byte(`{"measurements":[]}`), nil)
	testutil.SetURLParam(c, "provider", "smart_meter")

	handler.Receive(c)

	// storage trouble still gets a 2xx so the provider does not re-deliver
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "igf_test123")
}

func TestWebhookHandler_Receive_PayloadTooLarge(t *testing.T) {
	handler := newTestWebhookHandler(&mockIngestWebhookUC{})

	oversized := make([]byte, maxWebhookBody+1)
	c, w := testutil.NewRawTestContext(http.MethodPost, "/webhooks/weather_station", oversized, nil)
	testutil.SetURLParam(c, "provider", "weather_station")

	handler.Receive(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
