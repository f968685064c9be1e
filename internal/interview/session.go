package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"talentscout/internal/questions"
	"talentscout/internal/schema"
)

// Тексты по умолчанию
const (
	DefaultSystemPrompt = "You are TalentScout, a professional and friendly hiring assistant for a tech recruitment agency. " +
		"Your goal is to collect candidate information and assess their technical skills. " +
		"Be concise, professional, and guide the candidate through the process efficiently."
	DefaultClosingMessage    = "Thank you for your time! We'll review your information and be in touch."
	DefaultCompletionMessage = "Thank you for completing the interview! We'll review your responses and be in touch."
	DefaultFieldPrompt       = "What is your %s?"
)

// Messages - тексты, которые машина состояний дописывает в стенограмму
type Messages struct {
	SystemPrompt string
	Closing      string
	Completion   string
	// FieldPrompt - формат вопроса о поле, %s заменяется именем поля
	FieldPrompt string
}

func DefaultMessages() Messages {
	return Messages{
		SystemPrompt: DefaultSystemPrompt,
		Closing:      DefaultClosingMessage,
		Completion:   DefaultCompletionMessage,
		FieldPrompt:  DefaultFieldPrompt,
	}
}

// Outcome описывает, что произошло с репликой кандидата
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeAccepted
	OutcomeRejected
	OutcomeAnswered
	OutcomeCompleted
	OutcomeExited
)

// Session - состояние одного разговора с кандидатом. Не потокобезопасна:
// хост обязан подавать реплики одной сессии строго по очереди.
type Session struct {
	ID        string
	StartedAt time.Time

	fields    []schema.Field
	generator questions.Generator
	exit      ExitDetector
	messages  Messages

	stage         Stage
	fieldCursor   int
	profile       Profile
	techQuestions []string
	techAnswers   []string
	techCursor    int
	transcript    Transcript
	awaitingInput bool
	exited        bool
}

type Option func(*Session)

// WithMessages подменяет тексты сообщений; пустые значения берутся по умолчанию
func WithMessages(m Messages) Option {
	return func(s *Session) {
		d := DefaultMessages()
		if m.SystemPrompt == "" {
			m.SystemPrompt = d.SystemPrompt
		}
		if m.Closing == "" {
			m.Closing = d.Closing
		}
		if m.Completion == "" {
			m.Completion = d.Completion
		}
		if m.FieldPrompt == "" {
			m.FieldPrompt = d.FieldPrompt
		}
		s.messages = m
	}
}

func WithExitDetector(d ExitDetector) Option {
	return func(s *Session) {
		s.exit = d
	}
}

// WithID задает идентификатор сессии вместо случайного
func WithID(id string) Option {
	return func(s *Session) {
		s.ID = id
	}
}

// New создает сессию и записывает системную реплику
func New(fields []schema.Field, generator questions.Generator, opts ...Option) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		fields:    append([]schema.Field(nil), fields...),
		generator: generator,
		exit:      NewExitDetector(DefaultExitKeywords, ExitMatchWordPrefix),
		messages:  DefaultMessages(),
		profile:   newProfile(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.stage = s.computeStage()
	s.transcript = append(s.transcript, Turn{Role: RoleSystem, Text: s.messages.SystemPrompt})
	return s
}

// Prompt - цикл подсказки: если кандидату не задан вопрос, задает его.
// Повторный вызов без ответа ничего не добавляет. Возвращает true, если реплика добавлена.
func (s *Session) Prompt() bool {
	if s.awaitingInput || s.stage == StageDone {
		return false
	}

	switch s.stage {
	case StageCollectingInfo:
		field := s.fields[s.fieldCursor]
		s.say(fmt.Sprintf(s.messages.FieldPrompt, field.Name))
	case StageAskingTech:
		if s.techCursor >= len(s.techQuestions) {
			return false
		}
		s.say(s.techQuestions[s.techCursor])
	}

	s.awaitingInput = true
	return true
}

// HandleTurn обрабатывает одну реплику кандидата.
// Генерация вопросов вызывается здесь один раз, на границе анкеты и технической части.
func (s *Session) HandleTurn(ctx context.Context, text string) Outcome {
	if s.stage == StageDone {
		return OutcomeIgnored
	}
	s.awaitingInput = false

	if s.exit.IsExit(text) {
		s.exited = true
		s.say(s.messages.Closing)
		s.stage = s.computeStage()
		return OutcomeExited
	}

	s.transcript = append(s.transcript, Turn{Role: RoleUser, Text: text})

	switch s.stage {
	case StageCollectingInfo:
		return s.handleField(ctx, text)
	case StageAskingTech:
		return s.handleTechAnswer(text)
	}
	return OutcomeIgnored
}

func (s *Session) handleField(ctx context.Context, text string) Outcome {
	field := s.fields[s.fieldCursor]

	value, err := schema.Validate(field, text)
	if err != nil {
		msg := field.ErrorMessage
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		s.say(msg)
		s.awaitingInput = true
		return OutcomeRejected
	}

	s.profile.set(field.Name, value)
	s.fieldCursor++

	if s.fieldCursor == len(s.fields) {
		techStack, _ := s.profile.Get(schema.FieldTechStack)
		s.techQuestions = s.generator.Generate(ctx, techStack)
		s.stage = s.computeStage()

		if s.stage == StageAskingTech {
			s.say(s.techQuestions[0])
			s.awaitingInput = true
		} else {
			// генератор нарушил контракт и не вернул ни одного вопроса
			s.say(s.messages.Completion)
		}
	}

	return OutcomeAccepted
}

func (s *Session) handleTechAnswer(text string) Outcome {
	s.techAnswers = append(s.techAnswers, strings.TrimSpace(text))
	s.techCursor++

	if s.techCursor < len(s.techQuestions) {
		s.say(s.techQuestions[s.techCursor])
		s.awaitingInput = true
		return OutcomeAnswered
	}

	s.say(s.messages.Completion)
	s.stage = s.computeStage()
	s.awaitingInput = false
	return OutcomeCompleted
}

// computeStage выводит этап из курсоров
func (s *Session) computeStage() Stage {
	switch {
	case s.exited:
		return StageDone
	case s.fieldCursor < len(s.fields):
		return StageCollectingInfo
	case s.techCursor < len(s.techQuestions):
		return StageAskingTech
	default:
		return StageDone
	}
}

func (s *Session) say(text string) {
	s.transcript = append(s.transcript, Turn{Role: RoleAssistant, Text: text})
}

func (s *Session) Stage() Stage {
	return s.stage
}

func (s *Session) AwaitingInput() bool {
	return s.awaitingInput
}

// Exited сообщает, что кандидат закончил разговор досрочно
func (s *Session) Exited() bool {
	return s.exited
}

func (s *Session) FieldCursor() int {
	return s.fieldCursor
}

func (s *Session) TechCursor() int {
	return s.techCursor
}

// CurrentField возвращает поле, которое сейчас заполняется
func (s *Session) CurrentField() (schema.Field, bool) {
	if s.stage != StageCollectingInfo {
		return schema.Field{}, false
	}
	return s.fields[s.fieldCursor], true
}

func (s *Session) Fields() []schema.Field {
	return append([]schema.Field(nil), s.fields...)
}

func (s *Session) Profile() Profile {
	p := newProfile()
	for _, e := range s.profile.Entries() {
		p.set(e.Name, e.Value)
	}
	return p
}

func (s *Session) TechQuestions() []string {
	return append([]string(nil), s.techQuestions...)
}

func (s *Session) TechAnswers() []string {
	return append([]string(nil), s.techAnswers...)
}

func (s *Session) Transcript() Transcript {
	return append(Transcript(nil), s.transcript...)
}
