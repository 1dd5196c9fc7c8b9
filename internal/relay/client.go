package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lmarchand/givre/pkg/chat"
)

// Client talks to the relay chat endpoint over HTTP. The relay wraps the
// LLM provider and returns normalized SceneReply bodies, so the client
// never sees raw model output.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// SendMessage posts a conversation turn to the relay and returns the
// structured reply.
func (c *Client) SendMessage(ctx context.Context, message string, history []chat.Message, systemPrompt string) (*chat.SceneReply, error) {
	reqBody, err := json.Marshal(chat.RelayRequest{
		Message:      message,
		History:      history,
		SystemPrompt: systemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read relay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp chat.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("relay returned %d: %s", resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("relay returned status %d", resp.StatusCode)
	}

	var reply chat.SceneReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to parse relay response: %w", err)
	}

	c.logger.Debug("Relay reply received",
		"trigger_next_scene", reply.TriggerNextScene,
		"target_scene_id", reply.TargetSceneID)
	return &reply, nil
}

// Healthy reports whether the relay health endpoint responds.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}
