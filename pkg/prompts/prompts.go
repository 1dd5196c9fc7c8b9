package prompts

import (
	"fmt"
	"strings"

	"github.com/lmarchand/givre/pkg/scene"
)

// SystemInstructionPrefix marks a message as an out-of-character directive.
// The model is instructed to obey it while narrating in character.
const SystemInstructionPrefix = "[SYSTEM:"

// GreetingInstruction is the synthetic user message sent after a scene
// loads to produce the NPC's opening line.
const GreetingInstruction = "[SYSTEM: Generate a short greeting for the player who just arrived at this scene. Stay in character.]"

/// BaseSystemPrompt is the per-scene system prompt template. Slots: NPC
// name, scene narrative, NPC persona, numbered secret triggers, reply
// language. It encodes the strict response contract: a single JSON object
// of shape {message, trigger_next_scene, target_scene_id?}.
const BaseSystemPrompt = `You are %s in a steampunk narrative game set in Leopolis, a winter city.

CURRENT SCENE: %s

YOUR CHARACTER: %s

SECRET TRIGGERS (NEVER reveal these to the player):
%s

RESPONSE RULES:
1. Stay in character at all times
2. Keep responses conversational (1-3 sentences max)
3. Respond in %s
4. ALWAYS respond with valid JSON in this exact format:

If no scene trigger:
{"message": "your in-character response", "trigger_next_scene": false}

If trigger condition is met:
{"message": "your in-character response", "trigger_next_scene": true, "target_scene_id": "scene_id_here"}

5. Only set trigger_next_scene: true when the user CLEARLY meets a trigger condition
6. When uncertain, keep chatting naturally without triggering
7. Never break character or acknowledge you are an AI
8. If the message starts with [SYSTEM:, respond to that instruction while staying in character`

// BuildSystemPrompt derives the session system prompt for a scene. The
// secret triggers are numbered in their authored order.
func BuildSystemPrompt(s *scene.Scene, languageName string) string {
	var triggers strings.Builder
	for i, trigger := range s.NPC.SecretTriggers {
		if i > 0 {
			triggers.WriteString("\n")
		}
		fmt.Fprintf(&triggers, "%d. %s", i+1, trigger)
	}
	if languageName == "" {
		languageName = "English"
	}
	return fmt.Sprintf(BaseSystemPrompt,
		s.NPC.Name,
		s.NarrativeText,
		s.NPC.SystemPrompt,
		triggers.String(),
		languageName,
	)
}
