// Package llm подключает внешние модели, которые генерируют технические вопросы.
package llm

import (
	"context"
	"fmt"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Settings - параметры подключения к модели
type Settings struct {
	Provider     string
	APIKey       string
	Model        string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Client - общий интерфейс клиентов. Реализации безопасны для параллельного использования.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// New создает клиента выбранного провайдера
func New(ctx context.Context, s Settings) (Client, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("api key for provider %q is empty", s.Provider)
	}

	switch s.Provider {
	case ProviderGemini:
		return NewGemini(ctx, s)
	case ProviderOpenAI:
		return NewOpenAI(s), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", s.Provider)
	}
}
