package i18n

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

const translationsDoc = `{
	"en": {
		"language_name": "English",
		"scenes": {
			"intro": {
				"narrative_text": "Snow falls over the clock tower.",
				"hints": ["Ask about the gear", "Offer the key"]
			}
		}
	},
	"fr": {
		"language_name": "Français",
		"scenes": {
			"intro": {
				"narrative_text": "La neige tombe sur la tour de l'horloge.",
				"hints": ["Parler de l'engrenage", "Offrir la clé"]
			}
		}
	}
}`

func loadedService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "translations.json")
	require.NoError(t, os.WriteFile(path, []byte(translationsDoc), 0o644))

	s := New(testLogger())
	require.NoError(t, s.Load(path))
	return s
}

func TestService_Load(t *testing.T) {
	s := loadedService(t)

	langs := s.AvailableLanguages()
	require.Len(t, langs, 2)
	assert.Equal(t, Language{Code: "en", Name: "English"}, langs[0])
	assert.Equal(t, Language{Code: "fr", Name: "Français"}, langs[1])
}

func TestService_MissingFileIsFine(t *testing.T) {
	s := New(testLogger())
	require.NoError(t, s.Load(filepath.Join(t.TempDir(), "absent.json")))

	assert.Equal(t, "English", s.LanguageName())
	assert.Empty(t, s.NarrativeText("intro"))
	assert.Nil(t, s.Hints("intro"))
}

func TestService_SetLanguage(t *testing.T) {
	s := loadedService(t)

	require.NoError(t, s.SetLanguage("fr"))
	assert.Equal(t, "fr", s.Language())
	assert.Equal(t, "Français", s.LanguageName())
	assert.Equal(t, "La neige tombe sur la tour de l'horloge.", s.NarrativeText("intro"))
	assert.Equal(t, []string{"Parler de l'engrenage", "Offrir la clé"}, s.Hints("intro"))

	// Regional variants match to the closest loaded language.
	require.NoError(t, s.SetLanguage("fr-CA"))
	assert.Equal(t, "fr", s.Language())

	// Unknown languages fall back to a supported one rather than failing.
	require.NoError(t, s.SetLanguage("ja"))
	assert.Contains(t, []string{"en", "fr"}, s.Language())

	assert.Error(t, s.SetLanguage("no-such-tag-!!"))
}

func TestService_UntranslatedScene(t *testing.T) {
	s := loadedService(t)
	require.NoError(t, s.SetLanguage("fr"))

	assert.Empty(t, s.NarrativeText("reveal"), "untranslated scenes report empty, caller falls back")
	_, ok := s.SceneText("reveal")
	assert.False(t, ok)
}

func TestService_InvalidDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "translations.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	s := New(testLogger())
	assert.ErrorContains(t, s.Load(path), "failed to parse translations")
}
