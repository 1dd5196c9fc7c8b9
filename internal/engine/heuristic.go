package engine

import "regexp"

// Trigger instructions reference their destination as: trigger scene 'id'.
var triggerScenePattern = regexp.MustCompile(`(?i)trigger scene ['"]([^'"]+)['"]`)

// extractTriggerScenes scans secret-trigger text for quoted destination
// scene ids so their assets can be prefetched. Order follows first mention;
// duplicates collapse.
func extractTriggerScenes(triggers []string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, t := range triggers {
		for _, m := range triggerScenePattern.FindAllStringSubmatch(t, -1) {
			if id := m[1]; !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
