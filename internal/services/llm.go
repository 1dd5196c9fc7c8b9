package services

import (
	"context"

	"github.com/lmarchand/givre/pkg/chat"
)

// LLMService generates NPC dialogue for the relay. Implementations return
// the raw model text; reply normalization happens in the handler so every
// provider goes through the same parsing.
type LLMService interface {
	// Name identifies the provider in logs.
	Name() string

	// Chat sends the system prompt, the prior turns, and the new user
	// message, and returns the model's text.
	Chat(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (string, error)
}
