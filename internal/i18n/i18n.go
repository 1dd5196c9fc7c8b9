package i18n

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// SceneText is the translated content for one scene.
type SceneText struct {
	NarrativeText string   `json:"narrative_text"`
	NPCGreeting   string   `json:"npc_greeting,omitempty"`
	Hints         []string `json:"hints,omitempty"`
}

// LanguageData is one language's block in the translations document.
type LanguageData struct {
	LanguageName string               `json:"language_name"`
	Scenes       map[string]SceneText `json:"scenes"`
}

// Language pairs a BCP 47 code with its self-described display name.
type Language struct {
	Code string
	Name string
}

// Service resolves the active display language and per-scene translated
// text. Missing translations fall back to the authored scene content at the
// call site; the service only reports what it has.
type Service struct {
	mu           sync.RWMutex
	translations map[string]LanguageData
	current      language.Tag
	logger       *slog.Logger
}

func New(logger *slog.Logger) *Service {
	return &Service{
		translations: make(map[string]LanguageData),
		current:      language.English,
		logger:       logger,
	}
}

// Load reads a translations document from disk. A missing file is not an
// error; the game simply runs with authored text only.
func (s *Service) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("No translations file, using authored text", "path", path)
			return nil
		}
		return fmt.Errorf("failed to read translations file: %w", err)
	}

	var translations map[string]LanguageData
	if err := json.Unmarshal(data, &translations); err != nil {
		return fmt.Errorf("failed to parse translations file: %w", err)
	}

	s.mu.Lock()
	s.translations = translations
	s.mu.Unlock()

	s.logger.Info("Translations loaded", "languages", len(translations))
	return nil
}

// SetLanguage switches the active language. The requested code is matched
// against the loaded languages; with no translations loaded any valid BCP
// 47 tag is accepted as-is.
func (s *Service) SetLanguage(code string) error {
	tag, err := language.Parse(code)
	if err != nil {
		return fmt.Errorf("invalid language code %q: %w", code, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.translations) > 0 {
		tags := s.availableTagsLocked()
		matcher := language.NewMatcher(tags)
		_, index, _ := matcher.Match(tag)
		tag = tags[index]
	}

	s.current = tag
	return nil
}

// Language returns the active language code.
func (s *Service) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.String()
}

// LanguageName returns the display name embedded in system prompts: the
// authored language_name when available, otherwise the tag's English name.
func (s *Service) LanguageName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if data, ok := s.translations[s.current.String()]; ok && data.LanguageName != "" {
		return data.LanguageName
	}
	return display.English.Tags().Name(s.current)
}

// AvailableLanguages lists the loaded languages sorted by code.
func (s *Service) AvailableLanguages() []Language {
	s.mu.RLock()
	defer s.mu.RUnlock()

	langs := make([]Language, 0, len(s.translations))
	for code, data := range s.translations {
		langs = append(langs, Language{Code: code, Name: data.LanguageName})
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i].Code < langs[j].Code })
	return langs
}

// SceneText returns the active language's translation for a scene.
func (s *Service) SceneText(sceneID string) (SceneText, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.translations[s.current.String()]
	if !ok {
		return SceneText{}, false
	}
	text, ok := data.Scenes[sceneID]
	return text, ok
}

// NarrativeText returns the translated narrative for a scene, or "" when
// no translation exists.
func (s *Service) NarrativeText(sceneID string) string {
	text, ok := s.SceneText(sceneID)
	if !ok {
		return ""
	}
	return text.NarrativeText
}

// Hints returns the translated hint labels for a scene, or nil.
func (s *Service) Hints(sceneID string) []string {
	text, ok := s.SceneText(sceneID)
	if !ok {
		return nil
	}
	return text.Hints
}

func (s *Service) availableTagsLocked() []language.Tag {
	codes := make([]string, 0, len(s.translations))
	for code := range s.translations {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		if tag, err := language.Parse(code); err == nil {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = append(tags, language.English)
	}
	return tags
}
