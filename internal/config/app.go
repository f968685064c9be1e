package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"talentscout/internal/llm"
)

// ProviderStatic - работа без модели, вопросы берутся из шаблона
const ProviderStatic = "static"

type AppConfig struct {
	LLM        LLMConfig
	Telegram   TelegramConfig
	Generation GenerationConfig
	LogLevel   string
}

type LLMConfig struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	MaxTokens    int
	Temperature  float64
}

type TelegramConfig struct {
	Token      string
	RateLimit  int
	RateWindow time.Duration
	SessionTTL time.Duration
}

type GenerationConfig struct {
	Timeout time.Duration
}

func LoadAppConfig() *AppConfig {
	return &AppConfig{
		LLM: LLMConfig{
			Provider:     getEnv("LLM_PROVIDER", llm.ProviderGemini),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", llm.DefaultGeminiModel),
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:  getEnv("OPENAI_MODEL", llm.DefaultOpenAIModel),
			MaxTokens:    getEnvAsInt("LLM_MAX_TOKENS", 1000),
			Temperature:  getEnvAsFloat("LLM_TEMPERATURE", 0.7),
		},
		Telegram: TelegramConfig{
			Token:      getEnv("TELEGRAM_BOT_TOKEN", ""),
			RateLimit:  getEnvAsInt("TELEGRAM_RATE_LIMIT", 10),
			RateWindow: getEnvAsDuration("TELEGRAM_RATE_WINDOW", time.Minute),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		},
		Generation: GenerationConfig{
			Timeout: getEnvAsDuration("GENERATION_TIMEOUT", 30*time.Second),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate проверяет настройки выбранного провайдера
func (c *AppConfig) Validate() error {
	switch c.LLM.Provider {
	case llm.ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider %q", c.LLM.Provider)
		}
	case llm.ProviderOpenAI:
		if c.LLM.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider %q", c.LLM.Provider)
		}
	case ProviderStatic:
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q, %q or %q", llm.ProviderGemini, llm.ProviderOpenAI, ProviderStatic)
	}

	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive")
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}

	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}

	return nil
}

// ValidateTelegram проверяет настройки бота
func (c *AppConfig) ValidateTelegram() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.Telegram.RateLimit <= 0 {
		return fmt.Errorf("TELEGRAM_RATE_LIMIT must be positive")
	}
	return nil
}

// LLMSettings собирает параметры клиента модели
func (c *AppConfig) LLMSettings(systemPrompt string) llm.Settings {
	s := llm.Settings{
		Provider:     c.LLM.Provider,
		SystemPrompt: systemPrompt,
		Temperature:  c.LLM.Temperature,
		MaxTokens:    c.LLM.MaxTokens,
	}

	switch c.LLM.Provider {
	case llm.ProviderGemini:
		s.APIKey = c.LLM.GeminiAPIKey
		s.Model = c.LLM.GeminiModel
	case llm.ProviderOpenAI:
		s.APIKey = c.LLM.OpenAIAPIKey
		s.Model = c.LLM.OpenAIModel
	}

	return s
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
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
