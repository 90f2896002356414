package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifySendsTextPayload(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	}))
	defer srv.Close()

	f := NewFeishu(srv.URL, 5*time.Second)
	require.NoError(t, f.Notify(context.Background(), "closed ETHUSDT LONG: hard stop-loss: current=-11.00"))

	var payload feishuPayload
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "text", payload.MsgType)
	assert.Equal(t, "closed ETHUSDT LONG: hard stop-loss: current=-11.00", payload.Content.Text)
}

func TestNotifyEmptyWebhookIsNoop(t *testing.T) {
	f := NewFeishu("", 5*time.Second)
	assert.NoError(t, f.Notify(context.Background(), "anything"))
}

func TestNotifyReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFeishu(srv.URL, 5*time.Second)
	assert.Error(t, f.Notify(context.Background(), "anything"))
}
