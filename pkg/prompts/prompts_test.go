package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lmarchand/givre/pkg/scene"
)

func TestBuildSystemPrompt(t *testing.T) {
	s := &scene.Scene{
		ID:            "intro",
		NarrativeText: "Snow falls over the clock tower.",
		NPC: scene.NPC{
			Name:         "Odile",
			SystemPrompt: "A guarded clockmaker with a limp.",
			SecretTriggers: []string{
				"The player mentions the frozen gear. Trigger scene 'workshop'.",
				"The player offers the brass key. Trigger scene 'vault'.",
			},
		},
	}

	prompt := BuildSystemPrompt(s, "French")

	assert.Contains(t, prompt, "You are Odile in")
	assert.Contains(t, prompt, "CURRENT SCENE: Snow falls over the clock tower.")
	assert.Contains(t, prompt, "YOUR CHARACTER: A guarded clockmaker with a limp.")
	assert.Contains(t, prompt, "1. The player mentions the frozen gear. Trigger scene 'workshop'.")
	assert.Contains(t, prompt, "2. The player offers the brass key. Trigger scene 'vault'.")
	assert.Contains(t, prompt, "Respond in French")
	assert.Contains(t, prompt, "NEVER reveal these to the player")
	assert.Contains(t, prompt, `{"message": "your in-character response", "trigger_next_scene": false}`)

	// Trigger text must precede the response rules block.
	assert.Less(t, strings.Index(prompt, "SECRET TRIGGERS"), strings.Index(prompt, "RESPONSE RULES"))
}

func TestBuildSystemPrompt_Defaults(t *testing.T) {
	s := &scene.Scene{
		NarrativeText: "A quiet square.",
		NPC:           scene.NPC{Name: "Henri", SystemPrompt: "A lamplighter."},
	}

	prompt := BuildSystemPrompt(s, "")
	assert.Contains(t, prompt, "Respond in English")
	assert.Contains(t, prompt, "SECRET TRIGGERS")
}
