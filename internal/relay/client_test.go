package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarchand/givre/pkg/chat"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func TestClient_SendMessage(t *testing.T) {
	var received chat.RelayRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		_ = json.NewEncoder(w).Encode(chat.SceneReply{
			Message:          "Ah, you know my secret.",
			TriggerNextScene: true,
			TargetSceneID:    "reveal",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	history := []chat.Message{{Role: chat.RoleUser, Content: "hello"}}

	reply, err := client.SendMessage(context.Background(), "I know your secret", history, "You are Odile.")
	require.NoError(t, err)

	assert.Equal(t, "Ah, you know my secret.", reply.Message)
	assert.True(t, reply.TriggerNextScene)
	assert.Equal(t, "reveal", reply.TargetSceneID)

	assert.Equal(t, "I know your secret", received.Message)
	assert.Equal(t, history, received.History)
	assert.Equal(t, "You are Odile.", received.SystemPrompt)
}

func TestClient_SendMessage_RelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(chat.ErrorResponse{Error: "provider unavailable"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	_, err := client.SendMessage(context.Background(), "hello", nil, "prompt")
	assert.ErrorContains(t, err, "provider unavailable")
}

func TestClient_SendMessage_OpaqueError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	_, err := client.SendMessage(context.Background(), "hello", nil, "prompt")
	assert.ErrorContains(t, err, "status 502")
}

func TestClient_Healthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	assert.True(t, client.Healthy(context.Background()))

	srv.Close()
	assert.False(t, client.Healthy(context.Background()))
}
