package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel используется, если OPENAI_MODEL не задан
const DefaultOpenAIModel = "gpt-4.1-mini"

// OpenAI ходит в Chat Completions API
type OpenAI struct {
	client   openai.Client
	model    string
	settings Settings
}

// NewOpenAI создает клиента; opts позволяют подменить адрес API в тестах
func NewOpenAI(s Settings, opts ...option.RequestOption) *OpenAI {
	model := s.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	opts = append([]option.RequestOption{option.WithAPIKey(s.APIKey)}, opts...)

	return &OpenAI{
		client:   openai.NewClient(opts...),
		model:    model,
		settings: s,
	}
}

func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if o.settings.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(o.settings.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: messages,
	}
	if o.settings.Temperature > 0 {
		params.Temperature = openai.Float(o.settings.Temperature)
	}
	if o.settings.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.settings.MaxTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI API")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (o *OpenAI) ModelName() string {
	return o.model
}
