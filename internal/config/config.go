package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/davidhbaek/aidebate/internal/gemini"
	"github.com/davidhbaek/aidebate/internal/openai"
	"github.com/davidhbaek/aidebate/internal/prompt"
)

type OpenAI struct {
	APIKey  string `toml:"-"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

type Gemini struct {
	APIKey         string `toml:"-"`
	BaseURL        string `toml:"base_url"`
	PreferredModel string `toml:"preferred_model"`
	FallbackModel  string `toml:"fallback_model"`
}

// Config is resolved from, in increasing precedence, built-in defaults, an
// optional TOML file and the environment. Credentials only come from the
// environment.
type Config struct {
	Topic      string `toml:"topic"`
	Background string `toml:"background"`
	Concurrent bool   `toml:"concurrent"`
	OpenAI     OpenAI `toml:"openai"`
	Gemini     Gemini `toml:"gemini"`
}

func Default() Config {
	return Config{
		Topic:      prompt.DefaultTopic,
		Background: prompt.DefaultBackground,
		OpenAI: OpenAI{
			Model: openai.DefaultModel,
		},
		Gemini: Gemini{
			PreferredModel: gemini.PreferredModel,
			FallbackModel:  gemini.FallbackModel,
		},
	}
}

// LoadEnv loads a .env file into the process environment. A missing file is
// only an error when the path was asked for explicitly.
func LoadEnv(path string) error {
	if path == "" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file at path=%s: %w", path, err)
	}
	return nil
}

// Load builds the config. tomlPath may be empty.
func Load(tomlPath string) (Config, error) {
	cfg := Default()

	if tomlPath != "" {
		bytes, err := os.ReadFile(tomlPath)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}

		if err := toml.Unmarshal(bytes, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file at path=%s: %w", tomlPath, err)
		}
	}

	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAI.BaseURL = getenv("OPENAI_BASE_URL", cfg.OpenAI.BaseURL)
	cfg.OpenAI.Model = getenv("OPENAI_MODEL", cfg.OpenAI.Model)

	cfg.Gemini.APIKey = getenv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY"))
	cfg.Gemini.BaseURL = getenv("GEMINI_BASE_URL", cfg.Gemini.BaseURL)
	cfg.Gemini.PreferredModel = getenv("GEMINI_PREFERRED_MODEL", cfg.Gemini.PreferredModel)
	cfg.Gemini.FallbackModel = getenv("GEMINI_FALLBACK_MODEL", cfg.Gemini.FallbackModel)

	cfg.Topic = getenv("DEBATE_TOPIC", cfg.Topic)
	cfg.Background = getenv("DEBATE_BACKGROUND", cfg.Background)

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
