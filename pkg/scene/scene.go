package scene

import "fmt"

// Hint is a conversational shortcut offered to the player as a button.
type Hint struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// NPC is the character the player converses with in a scene. The secret
// triggers are natural-language conditions judged by the LLM; they are
// embedded in the generated system prompt and never shown to the player.
type NPC struct {
	Name           string   `json:"name"`
	Portrait       string   `json:"portrait"`
	SystemPrompt   string   `json:"system_prompt"`
	SecretTriggers []string `json:"secret_triggers"`
}

// Scene is a single authored unit of the game: a backdrop, narrative text,
// one NPC conversation, and an optional transition video played when the
// scene is left.
type Scene struct {
	ID                 string  `json:"id"`
	BackgroundImage    string  `json:"background_image"`
	NarrativeText      string  `json:"narrative_text"`
	NPC                NPC     `json:"npc"`
	TransitionVideo    string  `json:"transition_video,omitempty"`
	TransitionDuration float64 `json:"transition_duration,omitempty"` // seconds, caps video playback
	Hints              []Hint  `json:"hints,omitempty"`
}

// Document is the scene-graph file loaded once at startup.
type Document struct {
	Scenes     map[string]Scene `json:"scenes"`
	StartScene string           `json:"start_scene"`
}

// Validate checks structural completeness of the document. Any violation
// returns a descriptive error; a valid document is safe to install as the
// active catalog.
func (d *Document) Validate() error {
	if len(d.Scenes) == 0 {
		return fmt.Errorf("scene document has no scenes")
	}
	if d.StartScene == "" {
		return fmt.Errorf("scene document is missing start_scene")
	}
	if _, ok := d.Scenes[d.StartScene]; !ok {
		return fmt.Errorf("start_scene %q not found in scenes", d.StartScene)
	}
	for id, s := range d.Scenes {
		if s.BackgroundImage == "" {
			return fmt.Errorf("scene %q missing background_image", id)
		}
		if s.NarrativeText == "" {
			return fmt.Errorf("scene %q missing narrative_text", id)
		}
		if s.NPC.Name == "" || s.NPC.SystemPrompt == "" {
			return fmt.Errorf("scene %q missing valid npc configuration", id)
		}
	}
	return nil
}
