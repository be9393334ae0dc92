package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Ingest IngestConfig
	LLM    LLMConfig
}

// IngestConfig holds scan- and output-related configuration
type IngestConfig struct {
	RootDir    string
	OutputFile string
	HashesFile string
	ZoneDepth  int
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// LoadConfig loads configuration from a .env file (if present) and environment variables
func LoadConfig() *Config {
	// Best effort; plain environment variables are fine too.
	_ = godotenv.Load()

	return &Config{
		Ingest: IngestConfig{
			RootDir:    getEnv("CV_ROOT_DIR", ""),
			OutputFile: getEnv("CV_OUTPUT_FILE", "base_cv_capital_humano.xlsx"),
			HashesFile: getEnv("CV_HASHES_FILE", ".hashes.txt"),
			ZoneDepth:  getEnvAsInt("CV_ZONE_DEPTH", 1),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 15000),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Ingest.OutputFile == "" {
		return NewAppError("CONFIG_ERROR", "CV_OUTPUT_FILE is required", ErrInvalidInput)
	}
	return nil
}
