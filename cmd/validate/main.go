package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lmarchand/givre/pkg/scene"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <scenes.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &SceneValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Scene document is valid!")
}

type SceneValidator struct {
	errors []string
}

func (v *SceneValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("scene file must have .json extension: %s", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var doc scene.Document
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	if err := doc.Validate(); err != nil {
		return fmt.Errorf("file %s: %w", filename, err)
	}

	v.validateDocument(&doc)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *SceneValidator) validateDocument(doc *scene.Document) {
	for id, s := range doc.Scenes {
		v.validateIDFormat("scene ID", id)

		if s.TransitionDuration < 0 {
			v.addError(fmt.Sprintf("scene '%s' has negative transition_duration", id))
		}
		if s.TransitionDuration > 0 && s.TransitionVideo == "" {
			v.addError(fmt.Sprintf("scene '%s' has transition_duration but no transition_video", id))
		}
		for i, hint := range s.Hints {
			if hint.Label == "" {
				v.addError(fmt.Sprintf("scene '%s' hint %d has no label", id, i))
			}
		}

		// Trigger destinations must exist.
		for _, trigger := range s.NPC.SecretTriggers {
			for _, target := range triggerDestinations(trigger) {
				if _, ok := doc.Scenes[target]; !ok {
					v.addError(fmt.Sprintf("scene '%s' trigger references unknown scene '%s'", id, target))
				}
			}
		}
	}

	v.checkReachability(doc)
}

// checkReachability walks trigger references from the start scene and
// reports scenes no trigger can reach.
func (v *SceneValidator) checkReachability(doc *scene.Document) {
	reachable := map[string]bool{doc.StartScene: true}
	queue := []string{doc.StartScene}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		s, ok := doc.Scenes[id]
		if !ok {
			continue
		}
		for _, trigger := range s.NPC.SecretTriggers {
			for _, target := range triggerDestinations(trigger) {
				if !reachable[target] {
					reachable[target] = true
					queue = append(queue, target)
				}
			}
		}
	}

	for id := range doc.Scenes {
		if !reachable[id] {
			v.addError(fmt.Sprintf("scene '%s' is not reachable from start scene '%s'", id, doc.StartScene))
		}
	}
}

func (v *SceneValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}
	if !validIDRegex.MatchString(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *SceneValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var (
	validIDRegex        = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
	triggerScenePattern = regexp.MustCompile(`(?i)trigger scene ['"]([^'"]+)['"]`)
)

func triggerDestinations(trigger string) []string {
	var ids []string
	for _, m := range triggerScenePattern.FindAllStringSubmatch(trigger, -1) {
		ids = append(ids, m[1])
	}
	return ids
}
