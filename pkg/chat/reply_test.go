package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want SceneReply
	}{
		{
			name: "plain json object",
			raw:  `{"message":"Hello there.","trigger_next_scene":false}`,
			want: SceneReply{Message: "Hello there."},
		},
		{
			name: "trigger with target",
			raw:  `{"message":"Ah, you know my secret.","trigger_next_scene":true,"target_scene_id":"reveal"}`,
			want: SceneReply{Message: "Ah, you know my secret.", TriggerNextScene: true, TargetSceneID: "reveal"},
		},
		{
			name: "no json at all",
			raw:  "just chatting",
			want: SceneReply{Message: "just chatting"},
		},
		{
			name: "missing trigger field defaults false",
			raw:  `{"message":"Hello"}`,
			want: SceneReply{Message: "Hello"},
		},
		{
			name: "empty message replaced but trigger preserved",
			raw:  `{"message":"","trigger_next_scene":true,"target_scene_id":"s2"}`,
			want: SceneReply{Message: FallbackMessage, TriggerNextScene: true, TargetSceneID: "s2"},
		},
		{
			name: "non-boolean trigger defaults false",
			raw:  `{"message":"Careful now.","trigger_next_scene":"yes"}`,
			want: SceneReply{Message: "Careful now."},
		},
		{
			name: "code fence around json",
			raw:  "```json\n{\"message\":\"Fenced.\",\"trigger_next_scene\":false}\n```",
			want: SceneReply{Message: "Fenced."},
		},
		{
			name: "prose around json",
			raw:  `Sure! Here is my reply: {"message":"Wrapped.","trigger_next_scene":false} Hope that helps.`,
			want: SceneReply{Message: "Wrapped."},
		},
		{
			name: "unparseable braces fall back to raw text",
			raw:  "the {unbalanced thing}",
			want: SceneReply{Message: "the {unbalanced thing}"},
		},
		{
			name: "empty input gets fallback message",
			raw:  "   ",
			want: SceneReply{Message: FallbackMessage},
		},
		{
			name: "whitespace trimmed from message",
			raw:  `{"message":"  spaced out  "}`,
			want: SceneReply{Message: "spaced out"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReply(tt.raw)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestRelayRequest_Validate(t *testing.T) {
	req := &RelayRequest{Message: "hi", SystemPrompt: "You are Odile."}
	assert.NoError(t, req.Validate())

	req.Message = ""
	assert.ErrorContains(t, req.Validate(), "message cannot be empty")

	req.Message = "hi"
	req.SystemPrompt = ""
	assert.ErrorContains(t, req.Validate(), "systemPrompt cannot be empty")
}
