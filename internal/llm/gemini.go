package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel используется, если GEMINI_MODEL не задан
const DefaultGeminiModel = "gemini-1.5-flash-latest"

// Gemini ходит в Google Gemini API
type Gemini struct {
	client   *genai.Client
	model    string
	settings Settings
}

// NewGemini создает клиента. Сетевых запросов при создании нет.
func NewGemini(ctx context.Context, s Settings) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := s.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &Gemini{
		client:   client,
		model:    model,
		settings: s,
	}, nil
}

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.generateConfig())
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}
	if result == nil {
		return "", fmt.Errorf("empty response from Gemini API")
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("Gemini API returned no text")
	}

	return text, nil
}

func (g *Gemini) ModelName() string {
	return g.model
}

func (g *Gemini) generateConfig() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if g.settings.Temperature > 0 {
		temperature := float32(g.settings.Temperature)
		config.Temperature = &temperature
	}
	if g.settings.MaxTokens > 0 {
		//nolint:gosec // MaxTokens is validated by config
		config.MaxOutputTokens = int32(g.settings.MaxTokens)
	}
	if g.settings.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: g.settings.SystemPrompt}},
		}
	}

	return config
}
