package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"talentscout/internal/config"
	"talentscout/internal/interview"
	"talentscout/internal/metrics"
)

const maxMessageLength = 4000

// Sender отправляет текст в чат
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type RateLimiter struct {
	requests map[int64][]time.Time
	mutex    sync.Mutex
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
	}
}

func (rl *RateLimiter) IsAllowed(userID int64) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()

	if requests, exists := rl.requests[userID]; exists {
		var valid []time.Time
		for _, t := range requests {
			if now.Sub(t) < rl.window {
				valid = append(valid, t)
			}
		}
		rl.requests[userID] = valid
	}

	if len(rl.requests[userID]) >= rl.limit {
		return false
	}

	rl.requests[userID] = append(rl.requests[userID], now)
	return true
}

type Handler struct {
	sender        Sender
	config        *config.Config
	newSession    func() *interview.Session
	sessions      map[int64]*chatSession
	sessionsMutex sync.RWMutex
	rateLimiter   *RateLimiter
	sessionTTL    time.Duration
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

func NewHandler(sender Sender, cfg *config.Config, tg config.TelegramConfig, newSession func() *interview.Session, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		sender:      sender,
		config:      cfg,
		newSession:  newSession,
		sessions:    make(map[int64]*chatSession),
		rateLimiter: NewRateLimiter(tg.RateLimit, tg.RateWindow),
		sessionTTL:  tg.SessionTTL,
		logger:      logger,
		metrics:     m,
	}
}

// StartSessionCleanup раз в час удаляет заброшенные сессии
func (h *Handler) StartSessionCleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := h.cleanupInactiveSessions(time.Now())
				s := h.metrics.Snapshot()
				h.logger.Info("session cleanup", "removed", removed,
					"started", s.SessionsStarted, "completed", s.SessionsCompleted, "exited", s.SessionsExited)
			}
		}
	}()
}

func (h *Handler) cleanupInactiveSessions(now time.Time) int {
	h.sessionsMutex.Lock()
	defer h.sessionsMutex.Unlock()

	cutoff := now.Add(-h.sessionTTL)
	removed := 0
	for chatID, cs := range h.sessions {
		if !cs.mu.TryLock() {
			continue
		}
		if cs.lastActivity.Before(cutoff) {
			delete(h.sessions, chatID)
			removed++
		}
		cs.mu.Unlock()
	}
	return removed
}

func (h *Handler) HandleUpdate(ctx context.Context, update Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Chat == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	if !h.rateLimiter.IsAllowed(userID) {
		h.send(ctx, chatID, "⏳ Too many messages. Please wait a minute.")
		return
	}

	cs := h.lockSession(chatID)
	defer cs.mu.Unlock()
	cs.lastActivity = time.Now()

	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, chatID, text, cs)
		return
	}
	h.handleUserInput(ctx, chatID, text, cs)
}

// handleCommand обрабатывает команды бота
func (h *Handler) handleCommand(ctx context.Context, chatID int64, command string, cs *chatSession) {
	switch strings.Fields(command)[0] {
	case "/start":
		h.handleStartCommand(ctx, chatID, cs)
	case "/help":
		h.handleHelpCommand(ctx, chatID)
	case "/status":
		h.handleStatusCommand(ctx, chatID, cs)
	case "/restart":
		h.handleRestartCommand(ctx, chatID, cs)
	default:
		h.send(ctx, chatID, "Unknown command. Use /help to see the available commands.")
	}
}

func (h *Handler) handleStartCommand(ctx context.Context, chatID int64, cs *chatSession) {
	if cs.active() {
		h.send(ctx, chatID, "Your interview is already in progress. Use /status to check progress or /restart to start over.")
		return
	}

	cs.session = h.newSession()
	cs.rendered = 0
	h.metrics.IncrementSessionsStarted()
	h.logger.Info("interview started", "chat_id", chatID, "session_id", cs.session.ID)

	h.send(ctx, chatID, h.config.Messages.Welcome)
	h.pump(ctx, chatID, cs)
}

func (h *Handler) handleHelpCommand(ctx context.Context, chatID int64) {
	helpText := `🤖 TalentScout hiring assistant

Commands:
/start - start a new interview
/status - show interview progress
/restart - discard the current interview
/help - show this message

I will ask for %d pieces of information and then up to %d technical questions about your tech stack.
Type exit, quit or bye at any time to finish early.`

	h.send(ctx, chatID, fmt.Sprintf(helpText, h.config.GetTotalFields(), h.config.GetTechQuestions()))
}

func (h *Handler) handleStatusCommand(ctx context.Context, chatID int64, cs *chatSession) {
	if cs.session == nil {
		h.send(ctx, chatID, "No interview yet. Use /start to begin.")
		return
	}

	s := cs.session
	progress := fmt.Sprintf("📊 Interview %s\nStage: %s\nInformation: %d/%d\nTechnical questions: %d/%d",
		s.ID,
		stageDescription(s),
		s.FieldCursor(), len(s.Fields()),
		s.TechCursor(), len(s.TechQuestions()))
	h.send(ctx, chatID, progress)
}

func (h *Handler) handleRestartCommand(ctx context.Context, chatID int64, cs *chatSession) {
	if cs.active() {
		h.logger.Info("interview discarded", "chat_id", chatID, "session_id", cs.session.ID)
	}
	cs.session = nil
	cs.rendered = 0
	h.send(ctx, chatID, "🔄 Interview reset. Use /start to begin a new interview.")
}

// handleUserInput передает ответ кандидата в машину состояний
func (h *Handler) handleUserInput(ctx context.Context, chatID int64, text string, cs *chatSession) {
	if !cs.active() {
		h.send(ctx, chatID, "There is no interview in progress. Use /start to begin or /help for help.")
		return
	}

	if len(text) > maxMessageLength {
		h.send(ctx, chatID, fmt.Sprintf("❌ Message is too long (max %d characters).", maxMessageLength))
		return
	}

	// сессия всегда ждет ответа: pump задает вопрос сразу после каждой реплики
	outcome := cs.session.HandleTurn(ctx, text)
	h.observe(chatID, cs.session, outcome)
	h.pump(ctx, chatID, cs)
}

// pump задает вопрос, если сессия его еще не задала, и отправляет новые реплики
func (h *Handler) pump(ctx context.Context, chatID int64, cs *chatSession) {
	s := cs.session
	if !s.AwaitingInput() && s.Stage() != interview.StageDone {
		if s.Prompt() && s.Stage() == interview.StageAskingTech {
			h.metrics.AddQuestionsAsked(1)
		}
	}

	visible := s.Transcript().Visible()
	for _, turn := range visible[cs.rendered:] {
		if turn.Role == interview.RoleAssistant {
			h.send(ctx, chatID, turn.Text)
		}
	}
	cs.rendered = len(visible)

	if s.Stage() == interview.StageDone && !s.Exited() && len(s.TechAnswers()) > 0 {
		h.send(ctx, chatID, profileSummary(s))
	}
}

func (h *Handler) observe(chatID int64, s *interview.Session, outcome interview.Outcome) {
	switch outcome {
	case interview.OutcomeRejected:
		h.metrics.IncrementValidationFailures()
	case interview.OutcomeAccepted:
		if s.Stage() == interview.StageAskingTech {
			h.metrics.AddQuestionsAsked(1)
		}
	case interview.OutcomeAnswered:
		h.metrics.AddQuestionsAsked(1)
	case interview.OutcomeCompleted:
		h.metrics.IncrementSessionsCompleted()
		h.logger.Info("interview completed", "chat_id", chatID, "session_id", s.ID, "duration", time.Since(s.StartedAt))
	case interview.OutcomeExited:
		h.metrics.IncrementSessionsExited()
		h.logger.Info("candidate left the interview", "chat_id", chatID, "session_id", s.ID, "stage", s.Stage().String())
	}
}

func (h *Handler) send(ctx context.Context, chatID int64, text string) {
	if err := h.sender.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) getOrCreateSession(chatID int64) *chatSession {
	h.sessionsMutex.Lock()
	defer h.sessionsMutex.Unlock()

	if cs, exists := h.sessions[chatID]; exists {
		return cs
	}

	cs := &chatSession{lastActivity: time.Now()}
	h.sessions[chatID] = cs
	return cs
}

// lockSession захватывает сессию чата. Если очистка успела удалить сессию
// между поиском и захватом, берется новая запись из карты.
func (h *Handler) lockSession(chatID int64) *chatSession {
	for {
		cs := h.getOrCreateSession(chatID)
		cs.mu.Lock()

		h.sessionsMutex.RLock()
		current := h.sessions[chatID]
		h.sessionsMutex.RUnlock()

		if current == cs {
			return cs
		}
		cs.mu.Unlock()
	}
}

// profileSummary - итог анкеты, который кандидат видит после последнего ответа
func profileSummary(s *interview.Session) string {
	var b strings.Builder
	b.WriteString("📋 Your information:\n")
	for _, e := range s.Profile().Entries() {
		b.WriteString(fmt.Sprintf("• %s: %s\n", e.Name, e.Value))
	}
	b.WriteString(fmt.Sprintf("\n🆔 Interview ID: %s", s.ID))
	return b.String()
}

func stageDescription(s *interview.Session) string {
	switch s.Stage() {
	case interview.StageCollectingInfo:
		return "collecting information"
	case interview.StageAskingTech:
		return "technical questions"
	case interview.StageDone:
		if s.Exited() {
			return "finished early"
		}
		return "completed"
	default:
		return "unknown"
	}
}
