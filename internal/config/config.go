// Package config reads the process configuration from the environment once
// at startup. Missing provider credentials degrade the health report but
// never block pipeline invocation paths; the corresponding provider call
// fails with a provider error instead.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the immutable process configuration.
type Config struct {
	Port          string
	GeminiAPIKey  string
	EmotionAPIURL string
	EmotionAPIKey string
	STTProvider   string // "gemini" (default) or "google"
	StageTimeout  time.Duration
}

// Load reads the environment. Call once at process start, after godotenv.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "5001"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		EmotionAPIURL: os.Getenv("EMOTION_API_URL"),
		EmotionAPIKey: os.Getenv("EMOTION_API_KEY"),
		STTProvider:   getEnv("STT_PROVIDER", "gemini"),
		StageTimeout:  time.Duration(getEnvInt("STAGE_TIMEOUT_SECONDS", 60)) * time.Second,
	}
}

// Health summarizes which dependencies are configured.
type Health struct {
	Status       string          `json:"status"` // healthy | degraded
	Dependencies map[string]bool `json:"dependencies"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// Health reports degraded when a provider credential is absent.
func (c *Config) Health() Health {
	h := Health{
		Status: "healthy",
		Dependencies: map[string]bool{
			"gemini_configured":             c.GeminiAPIKey != "",
			"emotion_classifier_configured": c.EmotionAPIURL != "",
		},
	}
	if c.GeminiAPIKey == "" {
		h.Warnings = append(h.Warnings, "GEMINI_API_KEY não configurada")
	}
	if c.EmotionAPIURL == "" {
		h.Warnings = append(h.Warnings, "EMOTION_API_URL não configurada")
	}
	if len(h.Warnings) > 0 {
		h.Status = "degraded"
	}
	return h
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
