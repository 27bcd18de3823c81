package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWebhookDispatcher_Dispatch(t *testing.T) {
	var received notificationPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewWebhookDispatcher(server.URL, zap.NewNop())

	err := d.Dispatch(context.Background(), "Critical heart rate alert", "Heart rate 120 bpm (resting)", UrgencyCritical)
	require.NoError(t, err)

	assert.Equal(t, "Critical heart rate alert", received.Title)
	assert.Equal(t, "Heart rate 120 bpm (resting)", received.Body)
	assert.Equal(t, string(UrgencyCritical), received.Urgency)
	assert.NotZero(t, received.Timestamp)
}

func TestWebhookDispatcher_EndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	d := NewWebhookDispatcher(server.URL, zap.NewNop())

	err := d.Dispatch(context.Background(), "Heart rate warning", "body", UrgencyWarning)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNopDispatcher(t *testing.T) {
	err := NopDispatcher{}.Dispatch(context.Background(), "title", "body", UrgencyInfo)
	assert.NoError(t, err)
}
