package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
	assert.Equal(t, int64(1<<30), cfg.MaxUploadBytes)
	assert.Equal(t, 300, cfg.MaxTokens)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, ":8888", cfg.HTTPAddr)
	assert.False(t, cfg.LenientDates)
	assert.True(t, cfg.CORSAllowAll())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DESCRIBE_PROVIDER", "Ollama")
	t.Setenv("OLLAMA_URL", "http://ollama:11434/")
	t.Setenv("DESCRIBE_CONCURRENCY", "8")
	t.Setenv("DESCRIBE_TIMEOUT", "5s")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LENIENT_DATES", "true")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "http://ollama:11434", cfg.OllamaURL)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.CORSAllowAll())
	assert.True(t, cfg.LenientDates)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadAcceptsEveryLogLevelAlias(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "WARNING"} {
		t.Run(level, func(t *testing.T) {
			t.Setenv("DESCRIBE_PROVIDER", "ollama")
			t.Setenv("LOG_LEVEL", level)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, strings.ToLower(level), cfg.LogLevel)
		})
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "unknown provider",
			env:  map[string]string{"DESCRIBE_PROVIDER": "claude"},
		},
		{
			name: "zero concurrency",
			env:  map[string]string{"DESCRIBE_PROVIDER": "ollama", "DESCRIBE_CONCURRENCY": "0"},
		},
		{
			name: "bad log level",
			env:  map[string]string{"DESCRIBE_PROVIDER": "ollama", "LOG_LEVEL": "verbose"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "openai with key", cfg: Config{Provider: "openai", OpenAIKey: "sk"}},
		{name: "openai without key", cfg: Config{Provider: "openai"}, wantErr: true},
		{name: "gemini with key", cfg: Config{Provider: "gemini", GeminiKey: "g"}},
		{name: "gemini without key", cfg: Config{Provider: "gemini", OpenAIKey: "sk"}, wantErr: true},
		{name: "ollama needs no key", cfg: Config{Provider: "ollama"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateProvider()
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid provider configuration")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadWithoutCredentials(t *testing.T) {
	t.Setenv("DESCRIBE_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateProvider())
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a ,, b "))
	assert.Empty(t, splitCSV(""))
}
