package questions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"talentscout/internal/metrics"
)

// DefaultCount - сколько вопросов просим у модели
const DefaultCount = 5

// Generator выдает технические вопросы по описанию стека. Ошибок не возвращает.
type Generator interface {
	Generate(ctx context.Context, techStack string) []string
}

// Completer - внешний текстовый сервис: промпт на входе, свободный текст на выходе
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Adapter превращает ответ Completer в список вопросов с запасным вариантом
type Adapter struct {
	client  Completer
	count   int
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Adapter)

// WithCount задает число запрашиваемых вопросов
func WithCount(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.count = n
		}
	}
}

// WithTimeout ограничивает время вызова сервиса
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		a.timeout = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Adapter) {
		a.metrics = m
	}
}

// NewAdapter создает адаптер поверх клиента модели
func NewAdapter(client Completer, opts ...Option) *Adapter {
	a := &Adapter{
		client:  client,
		count:   DefaultCount,
		timeout: 30 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate запрашивает вопросы. При ошибке, таймауте или пустом разборе
// возвращает Fallback, поэтому результат всегда пригоден для интервью.
func (a *Adapter) Generate(ctx context.Context, techStack string) []string {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	text, err := a.client.Complete(ctx, BuildPrompt(techStack, a.count))
	if a.metrics != nil {
		a.metrics.IncrementGenerationCall(err == nil)
	}
	if err != nil {
		a.logger.Warn("question generation failed, using fallback", "error", err)
		return a.fallback(techStack)
	}

	questions := Parse(text, a.count)
	if len(questions) == 0 {
		a.logger.Warn("no usable questions in model response, using fallback", "response_len", len(text))
		return a.fallback(techStack)
	}
	if len(questions) < a.count {
		a.logger.Info("model returned fewer questions than requested", "got", len(questions), "want", a.count)
	}

	return questions
}

func (a *Adapter) fallback(techStack string) []string {
	if a.metrics != nil {
		a.metrics.IncrementFallbacksUsed()
	}
	return Fallback(techStack)
}

// BuildPrompt формирует инструкцию для модели
func BuildPrompt(techStack string, count int) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Generate exactly %d technical interview questions about: %s. ", count, techStack))
	prompt.WriteString("Each question should test specific knowledge in these technologies. ")
	prompt.WriteString(fmt.Sprintf("Return ONLY the questions as a numbered list (1-%d), nothing else.", count))

	return prompt.String()
}

// Fallback - шаблонные вопросы на случай отказа сервиса
func Fallback(techStack string) []string {
	return []string{
		fmt.Sprintf("Tell me about your experience with %s", techStack),
		fmt.Sprintf("What's the most challenging %s project you've worked on?", techStack),
		fmt.Sprintf("How would you design a small production service using %s?", techStack),
		fmt.Sprintf("What are the key features of %s?", techStack),
		fmt.Sprintf("What's your approach to debugging in %s?", techStack),
	}
}

// Static всегда возвращает один и тот же список (удобно в тестах)
type Static []string

func (s Static) Generate(_ context.Context, _ string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Offline отдает шаблонные вопросы без обращения к модели.
// Count ограничивает их число; ноль означает все шаблоны.
type Offline struct {
	Count int
}

func (o Offline) Generate(_ context.Context, techStack string) []string {
	questions := Fallback(techStack)
	if o.Count > 0 && o.Count < len(questions) {
		questions = questions[:o.Count]
	}
	return questions
}
