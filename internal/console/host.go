// Package console проводит интервью в терминале: одна строка ввода на реплику.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"talentscout/internal/interview"
	"talentscout/internal/metrics"
)

// ErrStalled - сессия не ждет ввода и не может задать вопрос
var ErrStalled = errors.New("session stalled without a pending prompt")

// Host связывает сессию с вводом и выводом
type Host struct {
	in         *bufio.Scanner
	out        io.Writer
	newSession func() *interview.Session
	welcome    string
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// New создает хост. newSession вызывается один раз на Run.
func New(in io.Reader, out io.Writer, newSession func() *interview.Session, welcome string, logger *slog.Logger, m *metrics.Metrics) *Host {
	return &Host{
		in:         bufio.NewScanner(in),
		out:        out,
		newSession: newSession,
		welcome:    welcome,
		logger:     logger,
		metrics:    m,
	}
}

// Run ведет одну сессию до завершения или конца ввода и возвращает ее
func (h *Host) Run(ctx context.Context) (*interview.Session, error) {
	session := h.newSession()
	h.metrics.IncrementSessionsStarted()
	h.logger.Info("interview started", "session_id", session.ID)

	if h.welcome != "" {
		fmt.Fprintln(h.out, h.welcome)
		fmt.Fprintln(h.out)
	}

	rendered := 0
	for session.Stage() != interview.StageDone {
		if err := ctx.Err(); err != nil {
			return session, err
		}

		if !session.AwaitingInput() {
			if !session.Prompt() {
				return session, ErrStalled
			}
			if session.Stage() == interview.StageAskingTech {
				h.metrics.AddQuestionsAsked(1)
			}
			rendered = h.render(session, rendered)
			continue
		}

		fmt.Fprint(h.out, "> ")
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return session, fmt.Errorf("read input: %w", err)
			}
			h.logger.Info("input closed before interview finished", "session_id", session.ID, "stage", session.Stage().String())
			return session, io.EOF
		}

		outcome := session.HandleTurn(ctx, h.in.Text())
		h.observe(session, outcome)
		rendered = h.render(session, rendered)
	}

	return session, nil
}

// render печатает новые реплики ассистента; ввод кандидата уже на экране
func (h *Host) render(session *interview.Session, from int) int {
	visible := session.Transcript().Visible()
	for _, turn := range visible[from:] {
		if turn.Role == interview.RoleAssistant {
			fmt.Fprintf(h.out, "[%s] %s\n", turn.Role, turn.Text)
		}
	}
	return len(visible)
}

func (h *Host) observe(session *interview.Session, outcome interview.Outcome) {
	switch outcome {
	case interview.OutcomeRejected:
		h.metrics.IncrementValidationFailures()
	case interview.OutcomeAccepted:
		if session.Stage() == interview.StageAskingTech {
			h.metrics.AddQuestionsAsked(1)
		}
	case interview.OutcomeAnswered:
		h.metrics.AddQuestionsAsked(1)
	case interview.OutcomeCompleted:
		h.metrics.IncrementSessionsCompleted()
		h.logger.Info("interview completed", "session_id", session.ID, "answers", len(session.TechAnswers()))
	case interview.OutcomeExited:
		h.metrics.IncrementSessionsExited()
		h.logger.Info("candidate left the interview", "session_id", session.ID, "fields_collected", session.FieldCursor())
	}
}

// WriteTranscript печатает всю видимую стенограмму с ролями
func WriteTranscript(w io.Writer, transcript interview.Transcript) {
	for _, turn := range transcript.Visible() {
		fmt.Fprintf(w, "[%s] %s\n", turn.Role, turn.Text)
	}
}
