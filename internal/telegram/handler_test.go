package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentscout/internal/config"
	"talentscout/internal/interview"
	"talentscout/internal/logging"
	"talentscout/internal/metrics"
	"talentscout/internal/questions"
	"talentscout/internal/schema"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	mu       sync.Mutex
	messages []sentMessage
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{chatID, text})
	return nil
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.messages {
		out = append(out, m.text)
	}
	return out
}

func (f *fakeSender) last() string {
	t := f.texts()
	return t[len(t)-1]
}

func newTestHandler(t *testing.T, rateLimit int) (*Handler, *fakeSender, *metrics.Metrics) {
	t.Helper()
	sender := &fakeSender{}
	m := metrics.NewMetrics()
	factory := func() *interview.Session {
		return interview.New(schema.DefaultFields(), questions.Static{"Q1?", "Q2?"})
	}
	tg := config.TelegramConfig{RateLimit: rateLimit, RateWindow: time.Minute, SessionTTL: time.Hour}
	return NewHandler(sender, config.Default(), tg, factory, logging.NewNop(), m), sender, m
}

func update(chatID int64, text string) Update {
	return Update{Message: &Message{
		From: &User{ID: chatID},
		Chat: &Chat{ID: chatID},
		Text: text,
	}}
}

func TestHandlerFullInterview(t *testing.T) {
	h, sender, m := newTestHandler(t, 100)
	ctx := context.Background()

	h.HandleUpdate(ctx, update(1, "/start"))
	assert.Equal(t, []string{config.DefaultWelcome, "What is your Full Name?"}, sender.texts())

	for _, a := range []string{"Jane Doe", "jane@example.com", "555-123-4567", "five"} {
		h.HandleUpdate(ctx, update(1, a))
	}
	assert.Equal(t, "Please enter a valid number (0-99)", sender.last())

	for _, a := range []string{"5", "Backend Engineer", "Remote", "Go, PostgreSQL"} {
		h.HandleUpdate(ctx, update(1, a))
	}
	assert.Equal(t, "Q1?", sender.last())

	h.HandleUpdate(ctx, update(1, "first answer"))
	assert.Equal(t, "Q2?", sender.last())

	h.HandleUpdate(ctx, update(1, "second answer"))
	texts := sender.texts()
	assert.Equal(t, interview.DefaultCompletionMessage, texts[len(texts)-2])
	assert.Contains(t, sender.last(), "Tech Stack: Go, PostgreSQL")

	h.HandleUpdate(ctx, update(1, "hello?"))
	assert.Contains(t, sender.last(), "/start")

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.SessionsStarted)
	assert.Equal(t, int64(1), snap.SessionsCompleted)
	assert.Equal(t, int64(1), snap.ValidationFailures)
	assert.Equal(t, int64(2), snap.QuestionsAsked)
}

func TestHandlerExitAndRestart(t *testing.T) {
	h, sender, m := newTestHandler(t, 100)
	ctx := context.Background()

	h.HandleUpdate(ctx, update(7, "/start"))
	h.HandleUpdate(ctx, update(7, "/start"))
	assert.Contains(t, sender.last(), "already in progress")

	h.HandleUpdate(ctx, update(7, "Goodbye"))
	assert.Equal(t, interview.DefaultClosingMessage, sender.last())
	assert.Equal(t, int64(1), m.Snapshot().SessionsExited)

	h.HandleUpdate(ctx, update(7, "/status"))
	assert.Contains(t, sender.last(), "finished early")

	h.HandleUpdate(ctx, update(7, "/restart"))
	h.HandleUpdate(ctx, update(7, "/start"))
	assert.Equal(t, "What is your Full Name?", sender.last())
}

func TestHandlerSeparateChats(t *testing.T) {
	h, sender, _ := newTestHandler(t, 100)
	ctx := context.Background()

	h.HandleUpdate(ctx, update(1, "/start"))
	h.HandleUpdate(ctx, update(2, "/start"))
	h.HandleUpdate(ctx, update(1, "Jane Doe"))

	var chat2 []string
	for _, msg := range sender.messages {
		if msg.chatID == 2 {
			chat2 = append(chat2, msg.text)
		}
	}
	assert.Equal(t, []string{config.DefaultWelcome, "What is your Full Name?"}, chat2)
	assert.Equal(t, "What is your Email Address?", sender.last())
}

func TestHandlerConcurrentTurnsAreSerialized(t *testing.T) {
	h, _, _ := newTestHandler(t, 1000)
	ctx := context.Background()
	h.HandleUpdate(ctx, update(3, "/start"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.HandleUpdate(ctx, update(3, "x"))
		}()
	}
	wg.Wait()

	cs := h.getOrCreateSession(3)
	require.NotNil(t, cs.session)
	assert.Equal(t, 0, cs.session.FieldCursor())
	assert.Len(t, cs.session.Transcript().Visible(), 1+20*2)
}

func TestHandlerRateLimit(t *testing.T) {
	h, sender, _ := newTestHandler(t, 2)
	ctx := context.Background()

	h.HandleUpdate(ctx, update(1, "/help"))
	h.HandleUpdate(ctx, update(1, "/help"))
	h.HandleUpdate(ctx, update(1, "/help"))

	assert.Contains(t, sender.last(), "Too many messages")
}

func TestCleanupInactiveSessions(t *testing.T) {
	h, _, _ := newTestHandler(t, 100)
	h.HandleUpdate(context.Background(), update(1, "/start"))

	assert.Equal(t, 0, h.cleanupInactiveSessions(time.Now()))
	assert.Equal(t, 1, h.cleanupInactiveSessions(time.Now().Add(2*time.Hour)))
	assert.Empty(t, h.sessions)
}

func TestUnknownCommand(t *testing.T) {
	h, sender, _ := newTestHandler(t, 100)

	h.HandleUpdate(context.Background(), update(1, "/dance now"))

	assert.Contains(t, sender.last(), "Unknown command")
}

func TestLockSessionSkipsRemovedSession(t *testing.T) {
	h, _, _ := newTestHandler(t, 100)
	stale := h.getOrCreateSession(9)

	stale.mu.Lock()
	got := make(chan *chatSession, 1)
	go func() {
		got <- h.lockSession(9)
	}()

	// очистка удаляет запись, пока сессия захвачена
	time.Sleep(20 * time.Millisecond)
	h.sessionsMutex.Lock()
	delete(h.sessions, 9)
	h.sessionsMutex.Unlock()
	stale.mu.Unlock()

	cs := <-got
	defer cs.mu.Unlock()

	assert.NotSame(t, stale, cs)
	h.sessionsMutex.RLock()
	assert.Same(t, cs, h.sessions[9])
	h.sessionsMutex.RUnlock()
}

func TestHandlerAfterCleanupStartsFresh(t *testing.T) {
	h, sender, _ := newTestHandler(t, 100)
	ctx := context.Background()

	h.HandleUpdate(ctx, update(4, "/start"))
	require.Equal(t, 1, h.cleanupInactiveSessions(time.Now().Add(2*time.Hour)))

	h.HandleUpdate(ctx, update(4, "Jane Doe"))
	assert.Contains(t, sender.last(), "/start")
	assert.Len(t, h.sessions, 1)
}
