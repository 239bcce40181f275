// Package config loads process configuration from the environment once at startup.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is built once by Load and passed explicitly to the components that need it.
type Config struct {
	Env       string
	LogLevel  string `validate:"oneof=debug info warn warning error"`
	LogFormat string `validate:"omitempty,oneof=text json"`

	HTTPAddr       string `validate:"required"`
	UploadDir      string
	MaxUploadBytes int64 `validate:"gt=0"`
	CORSOrigins    []string
	RateLimitRPS   float64 `validate:"gte=0"`
	RateLimitBurst int     `validate:"gte=0"`

	Provider      string `validate:"oneof=openai gemini ollama"`
	OpenAIKey     string `validate:"required_if=Provider openai"`
	OpenAIModel   string
	OpenAIBaseURL string `validate:"omitempty,url"`
	GeminiKey     string `validate:"required_if=Provider gemini"`
	GeminiModel   string
	OllamaURL     string `validate:"omitempty,url"`
	OllamaModel   string

	MaxTokens   int     `validate:"gt=0"`
	Temperature float64 `validate:"gte=0,lte=2"`
	Concurrency int     `validate:"gte=1"`
	Timeout     time.Duration

	LenientDates bool
}

var validate = validator.New()

var defaults = map[string]any{
	"app_env":              "development",
	"log_level":            "info",
	"log_format":           "",
	"http_addr":            ":8888",
	"upload_dir":           "",
	"max_upload_bytes":     int64(1 << 30),
	"cors_origins":         "*",
	"rate_limit_rps":       0.0,
	"rate_limit_burst":     0,
	"describe_provider":    "openai",
	"openai_api_key":       "",
	"openai_model":         "gpt-4o-mini",
	"openai_base_url":      "https://api.openai.com/v1",
	"gemini_api_key":       "",
	"gemini_model":         "gemini-2.5-flash",
	"ollama_url":           "http://localhost:11434",
	"ollama_model":         "llava",
	"describe_max_tokens":  300,
	"describe_temperature": 0.0,
	"describe_concurrency": 4,
	"describe_timeout":     "60s",
	"lenient_dates":        false,
}

// Load reads configuration from environment variables, falling back to defaults,
// and validates the result. Provider credentials are checked separately by
// ValidateProvider so that offline commands run without them.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{
		Env:            v.GetString("app_env"),
		LogLevel:       strings.ToLower(v.GetString("log_level")),
		LogFormat:      strings.ToLower(v.GetString("log_format")),
		HTTPAddr:       v.GetString("http_addr"),
		UploadDir:      v.GetString("upload_dir"),
		MaxUploadBytes: v.GetInt64("max_upload_bytes"),
		CORSOrigins:    splitCSV(v.GetString("cors_origins")),
		RateLimitRPS:   v.GetFloat64("rate_limit_rps"),
		RateLimitBurst: v.GetInt("rate_limit_burst"),
		Provider:       strings.ToLower(v.GetString("describe_provider")),
		OpenAIKey:      v.GetString("openai_api_key"),
		OpenAIModel:    v.GetString("openai_model"),
		OpenAIBaseURL:  strings.TrimRight(v.GetString("openai_base_url"), "/"),
		GeminiKey:      v.GetString("gemini_api_key"),
		GeminiModel:    v.GetString("gemini_model"),
		OllamaURL:      strings.TrimRight(v.GetString("ollama_url"), "/"),
		OllamaModel:    v.GetString("ollama_model"),
		MaxTokens:      v.GetInt("describe_max_tokens"),
		Temperature:    v.GetFloat64("describe_temperature"),
		Concurrency:    v.GetInt("describe_concurrency"),
		Timeout:        v.GetDuration("describe_timeout"),
		LenientDates:   v.GetBool("lenient_dates"),
	}

	if err := validate.StructExcept(cfg, "OpenAIKey", "GeminiKey"); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ValidateProvider checks that the selected description provider has its credential.
func (c *Config) ValidateProvider() error {
	if err := validate.StructPartial(c, "Provider", "OpenAIKey", "GeminiKey"); err != nil {
		return fmt.Errorf("invalid provider configuration: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the process runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// CORSAllowAll reports whether any origin may call the API.
func (c *Config) CORSAllowAll() bool {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return len(c.CORSOrigins) == 0
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
