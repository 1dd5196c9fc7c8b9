package chat

import "fmt"

const (
	RoleUser  = "user"  // the player
	RoleModel = "model" // the NPC, as generated by the LLM
)

// Message is a single conversation turn. For model turns the content is the
// serialized structured reply, so replayed history keeps the full contract.
type Message struct {
	Role    string `json:"role"` // "user" or "model"
	Content string `json:"content"`
}

// RelayRequest is the body of a POST to the relay chat endpoint. History
// excludes the active message, which is sent separately as the prompt.
type RelayRequest struct {
	Message      string    `json:"message"`
	History      []Message `json:"history"`
	SystemPrompt string    `json:"systemPrompt"`
}

// ErrorResponse is the structural error body returned by the relay with a
// non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (r *RelayRequest) Validate() error {
	if r.Message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if r.SystemPrompt == "" {
		return fmt.Errorf("systemPrompt cannot be empty")
	}
	return nil
}
