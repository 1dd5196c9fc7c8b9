package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all environment-driven settings for the api and game
// binaries. A .env file, if present, is loaded by the entrypoints before
// this is read.
type Config struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	LLMProvider     string `env:"LLM_PROVIDER" env-default:"gemini"`
	ModelName       string `env:"MODEL_NAME" env-default:"gemini-2.0-flash"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`

	RedisURL string `env:"REDIS_URL" env-default:"localhost:6379"`

	RelayURL         string `env:"RELAY_URL" env-default:"http://localhost:8080"`
	ScenesPath       string `env:"SCENES_PATH" env-default:"data/scenes.json"`
	TranslationsPath string `env:"TRANSLATIONS_PATH" env-default:"data/translations.json"`
	Language         string `env:"LANGUAGE" env-default:"en"`
	SaveDir          string `env:"SAVE_DIR" env-default:"saves"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return &cfg, nil
}

// SlogLevel maps the configured log level string to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
