package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Environment string
	Port        string
	Token       string
	LogLevel    string
	UploadDir   string
	Model       ModelConfig
}

// ModelConfig points at the local model-runner service. An empty Endpoint
// means no remote calls are made and analysis falls back to a local summary.
type ModelConfig struct {
	Endpoint       string `validate:"omitempty,url"`
	Name           string
	AnalyzeTimeout time.Duration
	ChatTimeout    time.Duration
	OCREnabled     bool
}

func Load() *Config {
	analyzeTimeout, _ := strconv.Atoi(getEnv("ANALYZE_TIMEOUT_SECONDS", "60"))
	chatTimeout, _ := strconv.Atoi(getEnv("CHAT_TIMEOUT_SECONDS", "45"))
	ocrEnabled, _ := strconv.ParseBool(getEnv("OCR_ENABLED", "false"))

	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		Port:        getEnv("PORT", "3000"),
		Token:       getEnv("TOKEN", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
		Model: ModelConfig{
			Endpoint:       getEnv("DMR_API_ENDPOINT", ""),
			Name:           getEnv("TARGET_MODEL", "ai/llama3.2:1B-Q8_0"),
			AnalyzeTimeout: time.Duration(analyzeTimeout) * time.Second,
			ChatTimeout:    time.Duration(chatTimeout) * time.Second,
			OCREnabled:     ocrEnabled,
		},
	}

	// A malformed endpoint URL behaves like an absent one: the service stays
	// up and answers with local fallbacks instead of failing every request.
	if err := validator.New().Struct(cfg.Model); err != nil {
		log.Printf("Invalid DMR_API_ENDPOINT %q, falling back to local mode: %v", cfg.Model.Endpoint, err)
		cfg.Model.Endpoint = ""
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
