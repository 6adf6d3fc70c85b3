package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/facturaIA/comprobante-engine/api"
	"github.com/facturaIA/comprobante-engine/internal/ai"
	"github.com/facturaIA/comprobante-engine/internal/db"
	"github.com/facturaIA/comprobante-engine/internal/models"
	"github.com/facturaIA/comprobante-engine/internal/orchestrator"
	"github.com/facturaIA/comprobante-engine/internal/prompts"
	"github.com/facturaIA/comprobante-engine/internal/storage"
)

func main() {
	// .env es opcional; en producción las variables vienen del entorno
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if os.Getenv("LOG_LEVEL") == "debug" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	config, err := loadConfig("config.yaml")
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database connection pool
	if err := db.Init(); err != nil {
		logrus.Warnf("Database not available: %v", err)
		logrus.Info("Running without persistence")
	} else {
		defer db.Close()
	}

	// Initialize MinIO storage
	if err := storage.Init(); err != nil {
		logrus.Warnf("MinIO storage not available: %v", err)
		logrus.Info("Source documents will not be stored")
	} else {
		logrus.Info("MinIO storage initialized")
	}

	providers := buildProviders(config)
	pm := prompts.NewManager()
	orch := orchestrator.New(providers, pm, config.AI.MaxRetries)

	handler := api.NewHandler(config, orch, pm)
	router := handler.SetupRoutes()

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	logrus.WithFields(logrus.Fields{
		"addr":      addr,
		"providers": len(providers),
		"database":  db.Pool != nil,
		"storage":   storage.Client != nil,
	}).Info("starting comprobante engine")

	if err := http.ListenAndServe(addr, router); err != nil {
		logrus.Fatalf("Server failed: %v", err)
	}
}

// buildProviders assembles the fallback chain in preference order. Providers
// with missing credentials are skipped with a warning, not an error: the
// engine degrades to pattern-only extraction when the chain is empty.
func buildProviders(config *models.Config) []ai.Provider {
	var providers []ai.Provider

	if config.AI.Gemini.APIKey != "" {
		p, err := ai.NewGeminiProvider(context.Background(), config.AI.Gemini.APIKey, config.AI.Gemini.Model)
		if err != nil {
			logrus.Warnf("Gemini no disponible: %v", err)
		} else {
			providers = append(providers, p)
		}
	}
	if config.AI.Anthropic.APIKey != "" {
		p, err := ai.NewAnthropicProvider(config.AI.Anthropic.APIKey, config.AI.Anthropic.BaseURL, config.AI.Anthropic.Model)
		if err != nil {
			logrus.Warnf("Anthropic no disponible: %v", err)
		} else {
			providers = append(providers, p)
		}
	}
	if config.AI.OpenAI.APIKey != "" {
		p, err := ai.NewOpenAIProvider(config.AI.OpenAI.APIKey, config.AI.OpenAI.BaseURL, config.AI.OpenAI.Model)
		if err != nil {
			logrus.Warnf("OpenAI no disponible: %v", err)
		} else {
			providers = append(providers, p)
		}
	}
	if config.AI.Ollama.Enabled {
		providers = append(providers, ai.NewOllamaProvider(config.AI.Ollama.BaseURL, config.AI.Ollama.Model))
	}

	if len(providers) == 0 {
		logrus.Warn("sin proveedores de IA, solo extracción por patrones")
	}
	return providers
}

func loadConfig(path string) (*models.Config, error) {
	config := &models.Config{
		Host: "0.0.0.0",
		Port: 8080,
	}

	// Config file is optional; env vars can carry everything
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables if present
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.Port)
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.AI.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.AI.Gemini.Model = model
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.AI.Anthropic.APIKey = apiKey
	}
	if model := os.Getenv("ANTHROPIC_MODEL"); model != "" {
		config.AI.Anthropic.Model = model
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.AI.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.AI.OpenAI.BaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.AI.OpenAI.Model = model
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.AI.Ollama.BaseURL = baseURL
		config.AI.Ollama.Enabled = true
	}
	if config.AI.MaxRetries == 0 {
		config.AI.MaxRetries = 3
	}

	return config, nil
}
