package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDocument() *Document {
	return &Document{
		StartScene: "intro",
		Scenes: map[string]Scene{
			"intro": {
				BackgroundImage: "bg/intro.jpg",
				NarrativeText:   "Snow falls over the clock tower.",
				NPC: NPC{
					Name:         "Odile",
					Portrait:     "portraits/odile.png",
					SystemPrompt: "A guarded clockmaker.",
				},
			},
			"reveal": {
				BackgroundImage: "bg/reveal.jpg",
				NarrativeText:   "The workshop door stands open.",
				NPC: NPC{
					Name:         "Odile",
					SystemPrompt: "The clockmaker, unmasked.",
				},
			},
		},
	}
}

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr string
	}{
		{
			name:   "valid document",
			mutate: func(d *Document) {},
		},
		{
			name:    "no scenes",
			mutate:  func(d *Document) { d.Scenes = nil },
			wantErr: "no scenes",
		},
		{
			name:    "missing start scene key",
			mutate:  func(d *Document) { d.StartScene = "" },
			wantErr: "missing start_scene",
		},
		{
			name:    "start scene not in map",
			mutate:  func(d *Document) { d.StartScene = "nowhere" },
			wantErr: `start_scene "nowhere" not found`,
		},
		{
			name: "missing background image",
			mutate: func(d *Document) {
				s := d.Scenes["intro"]
				s.BackgroundImage = ""
				d.Scenes["intro"] = s
			},
			wantErr: "missing background_image",
		},
		{
			name: "missing narrative text",
			mutate: func(d *Document) {
				s := d.Scenes["reveal"]
				s.NarrativeText = ""
				d.Scenes["reveal"] = s
			},
			wantErr: "missing narrative_text",
		},
		{
			name: "npc without system prompt",
			mutate: func(d *Document) {
				s := d.Scenes["intro"]
				s.NPC.SystemPrompt = ""
				d.Scenes["intro"] = s
			},
			wantErr: "missing valid npc",
		},
		{
			name: "npc without name",
			mutate: func(d *Document) {
				s := d.Scenes["intro"]
				s.NPC.Name = ""
				d.Scenes["intro"] = s
			},
			wantErr: "missing valid npc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)
			err := doc.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
