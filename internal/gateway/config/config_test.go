package config

import (
	"os"
	"testing"
)

func TestLoadLLMConfigProviderDetection(t *testing.T) {
	for _, key := range []string{"LLM_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	if got := loadLLMConfig(); got.Provider != "fake" {
		t.Fatalf("provider with no keys = %q, want fake", got.Provider)
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	if got := loadLLMConfig(); got.Provider != "gemini" || got.Model != "gemini-1.5-pro" {
		t.Fatalf("gemini detection = %+v", got)
	}

	t.Setenv("LLM_PROVIDER", "openai")
	if got := loadLLMConfig(); got.Provider != "openai" || got.Model != "gpt-4-turbo" {
		t.Fatalf("explicit provider = %+v", got)
	}

	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	if got := loadLLMConfig(); got.Model != "gpt-4o-mini" {
		t.Fatalf("model override = %+v", got)
	}
}

func TestLoadLLMConfigRetryDefaults(t *testing.T) {
	for _, key := range []string{"LLM_MAX_ATTEMPTS", "LLM_RETRY_BASE_MS", "LLM_RPS", "LLM_BURST"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	got := loadLLMConfig()
	if got.MaxAttempts != 3 || got.RetryBaseMs != 300 {
		t.Fatalf("retry defaults = %+v", got)
	}
	if got.RPS != 0 || got.Burst != 0 {
		t.Fatalf("rate limit defaults = %+v, want disabled", got)
	}

	t.Setenv("LLM_MAX_ATTEMPTS", "5")
	t.Setenv("LLM_RPS", "2.5")
	got = loadLLMConfig()
	if got.MaxAttempts != 5 || got.RPS != 2.5 {
		t.Fatalf("env overrides = %+v", got)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SOME_INT", "not a number")
	if got := envInt("SOME_INT", 7); got != 7 {
		t.Fatalf("envInt with garbage = %d, want default", got)
	}
	t.Setenv("SOME_INT", "12")
	if got := envInt("SOME_INT", 7); got != 12 {
		t.Fatalf("envInt = %d, want 12", got)
	}

	if got := firstNonEmpty("", "  ", "x", "y"); got != "x" {
		t.Fatalf("firstNonEmpty = %q, want x", got)
	}
}
