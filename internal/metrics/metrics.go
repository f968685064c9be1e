package metrics

import (
	"sync"
	"time"
)

// Metrics считает события всех сессий процесса
type Metrics struct {
	mu                  sync.RWMutex
	SessionsStarted     int64
	SessionsCompleted   int64
	SessionsExited      int64
	ValidationFailures  int64
	QuestionsAsked      int64
	GenerationCalls     int64
	GenerationSucceeded int64
	FallbacksUsed       int64
	LastUpdateTime      time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementSessionsStarted() {
	m.add(&m.SessionsStarted, 1)
}

func (m *Metrics) IncrementSessionsCompleted() {
	m.add(&m.SessionsCompleted, 1)
}

func (m *Metrics) IncrementSessionsExited() {
	m.add(&m.SessionsExited, 1)
}

func (m *Metrics) IncrementValidationFailures() {
	m.add(&m.ValidationFailures, 1)
}

func (m *Metrics) AddQuestionsAsked(n int) {
	m.add(&m.QuestionsAsked, int64(n))
}

// IncrementGenerationCall учитывает вызов сервиса генерации вопросов
func (m *Metrics) IncrementGenerationCall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerationCalls++
	if success {
		m.GenerationSucceeded++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementFallbacksUsed() {
	m.add(&m.FallbacksUsed, 1)
}

func (m *Metrics) add(counter *int64, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*counter += n
	m.LastUpdateTime = time.Now()
}

// Snapshot возвращает копию счетчиков без мьютекса
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		SessionsStarted:     m.SessionsStarted,
		SessionsCompleted:   m.SessionsCompleted,
		SessionsExited:      m.SessionsExited,
		ValidationFailures:  m.ValidationFailures,
		QuestionsAsked:      m.QuestionsAsked,
		GenerationCalls:     m.GenerationCalls,
		GenerationSucceeded: m.GenerationSucceeded,
		FallbacksUsed:       m.FallbacksUsed,
		LastUpdateTime:      m.LastUpdateTime,
	}
}

type Snapshot struct {
	SessionsStarted     int64
	SessionsCompleted   int64
	SessionsExited      int64
	ValidationFailures  int64
	QuestionsAsked      int64
	GenerationCalls     int64
	GenerationSucceeded int64
	FallbacksUsed       int64
	LastUpdateTime      time.Time
}
