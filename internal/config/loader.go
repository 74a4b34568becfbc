package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	// Best effort: absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		TargetRecipient: getEnv("WA_TARGET_RECIPIENT", ""),
		SystemPrompt:    getEnv("SYSTEM_PROMPT", ""),
		Completion: CompletionConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			APIBase:     getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 1024),
			Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.7),
		},
		Speech: SpeechConfig{
			Backend:     getEnv("TTS_BACKEND", "openai"),
			Voice:       getEnv("TTS_VOICE", "alloy"),
			LocalBin:    getEnv("TTS_LOCAL_BIN", ""),
			ArtifactDir: getEnv("WA_ARTIFACT_DIR", filepath.Join(os.TempDir(), "warelay")),
		},
		Bridge: BridgeConfig{
			URL: getEnv("WA_BRIDGE_URL", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.TargetRecipient == "" {
		return fmt.Errorf("WA_TARGET_RECIPIENT is required")
	}
	if c.Completion.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Bridge.URL == "" {
		return fmt.Errorf("WA_BRIDGE_URL is required")
	}
	switch c.Speech.Backend {
	case "openai":
	case "local":
		if c.Speech.LocalBin == "" {
			return fmt.Errorf("TTS_LOCAL_BIN is required for the local speech backend")
		}
	default:
		return fmt.Errorf("unknown TTS_BACKEND %q", c.Speech.Backend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		switch value {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}
