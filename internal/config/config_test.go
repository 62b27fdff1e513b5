package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	// getEnv treats empty as unset, so this both isolates and restores.
	for _, key := range []string{"PORT", "ENV", "DMR_API_ENDPOINT", "TARGET_MODEL", "ANALYZE_TIMEOUT_SECONDS", "CHAT_TIMEOUT_SECONDS", "OCR_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "", cfg.Model.Endpoint)
	assert.Equal(t, "ai/llama3.2:1B-Q8_0", cfg.Model.Name)
	assert.Equal(t, 60*time.Second, cfg.Model.AnalyzeTimeout)
	assert.Equal(t, 45*time.Second, cfg.Model.ChatTimeout)
	assert.False(t, cfg.Model.OCREnabled)
}

func TestLoad_EndpointFromEnv(t *testing.T) {
	t.Setenv("DMR_API_ENDPOINT", "http://localhost:12434")

	cfg := Load()
	assert.Equal(t, "http://localhost:12434", cfg.Model.Endpoint)
}

func TestLoad_InvalidEndpointFallsBackToLocalMode(t *testing.T) {
	t.Setenv("DMR_API_ENDPOINT", "not a url at all")

	cfg := Load()
	assert.Equal(t, "", cfg.Model.Endpoint)
}

func TestLoad_Timeouts(t *testing.T) {
	t.Setenv("ANALYZE_TIMEOUT_SECONDS", "10")
	t.Setenv("CHAT_TIMEOUT_SECONDS", "5")

	cfg := Load()
	assert.Equal(t, 10*time.Second, cfg.Model.AnalyzeTimeout)
	assert.Equal(t, 5*time.Second, cfg.Model.ChatTimeout)
}
