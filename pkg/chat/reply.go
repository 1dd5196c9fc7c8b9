package chat

import (
	"encoding/json"
	"strings"
)

// FallbackMessage replaces an empty or absent message field after parsing.
const FallbackMessage = "I have nothing to say at the moment."

// SceneReply is the structured contract between the LLM relay and the game
// core. TargetSceneID is meaningful only when TriggerNextScene is true.
type SceneReply struct {
	Message          string `json:"message"`
	TriggerNextScene bool   `json:"trigger_next_scene"`
	TargetSceneID    string `json:"target_scene_id,omitempty"`
}

// ParseReply normalizes raw model output into a SceneReply. It extracts the
// first top-level JSON object substring (tolerating surrounding prose and
// code fences), parses it leniently, and applies defaults: an empty message
// becomes FallbackMessage and a non-boolean trigger_next_scene becomes
// false. When no JSON object is found the entire raw text is treated as the
// message. ParseReply is deterministic and never fails; it is the last line
// of defense against malformed model output, and every relay deployment
// must use it so clients observe identical behavior.
func ParseReply(raw string) *SceneReply {
	reply := &SceneReply{}
	trimmed := strings.TrimSpace(raw)

	if obj := firstJSONObject(trimmed); obj != "" {
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(obj), &fields); err == nil {
			if msg, ok := fields["message"].(string); ok {
				reply.Message = strings.TrimSpace(msg)
			}
			if trigger, ok := fields["trigger_next_scene"].(bool); ok {
				reply.TriggerNextScene = trigger
			}
			if target, ok := fields["target_scene_id"].(string); ok {
				reply.TargetSceneID = target
			}
		} else {
			reply.Message = trimmed
		}
	} else {
		reply.Message = trimmed
	}

	if reply.Message == "" {
		reply.Message = FallbackMessage
	}
	return reply
}

// firstJSONObject returns the substring spanning the first "{" through the
// last "}", or "" when no object-shaped span exists.
func firstJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end < start {
		return ""
	}
	return s[start : end+1]
}
