package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentscout/internal/interview"
	"talentscout/internal/logging"
	"talentscout/internal/metrics"
	"talentscout/internal/questions"
	"talentscout/internal/schema"
)

func newHost(input string, out io.Writer, m *metrics.Metrics) *Host {
	factory := func() *interview.Session {
		return interview.New(schema.DefaultFields(), questions.Static{"Q1?", "Q2?"})
	}
	return New(strings.NewReader(input), out, factory, "Welcome!", logging.NewNop(), m)
}

func TestRunFullInterview(t *testing.T) {
	input := strings.Join([]string{
		"Jane Doe",
		"not-an-email",
		"jane@example.com",
		"555-123-4567",
		"5",
		"Backend Engineer",
		"Remote",
		"Go, PostgreSQL",
		"answer one",
		"answer two",
	}, "\n") + "\n"

	var out bytes.Buffer
	m := metrics.NewMetrics()

	s, err := newHost(input, &out, m).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, interview.StageDone, s.Stage())
	assert.Equal(t, []string{"answer one", "answer two"}, s.TechAnswers())

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Welcome!\n"))
	assert.Equal(t, 1, strings.Count(text, "[assistant] What is your Full Name?"))
	assert.Equal(t, 1, strings.Count(text, "[assistant] What is your Email Address?"))
	assert.Contains(t, text, "[assistant] Please enter a valid email address")
	assert.Contains(t, text, "[assistant] Q1?")
	assert.Contains(t, text, "[assistant] Q2?")
	assert.Contains(t, text, interview.DefaultCompletionMessage)
	assert.NotContains(t, text, interview.DefaultSystemPrompt)

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.SessionsStarted)
	assert.Equal(t, int64(1), snap.SessionsCompleted)
	assert.Equal(t, int64(1), snap.ValidationFailures)
	assert.Equal(t, int64(2), snap.QuestionsAsked)
}

func TestRunExit(t *testing.T) {
	var out bytes.Buffer
	m := metrics.NewMetrics()

	s, err := newHost("Jane Doe\nbye\n", &out, m).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, s.Exited())
	assert.Contains(t, out.String(), interview.DefaultClosingMessage)
	assert.Equal(t, int64(1), m.Snapshot().SessionsExited)
}

func TestRunEOF(t *testing.T) {
	var out bytes.Buffer

	s, err := newHost("Jane Doe\n", &out, metrics.NewMetrics()).Run(context.Background())

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, interview.StageCollectingInfo, s.Stage())
	assert.Equal(t, 1, s.FieldCursor())
}

func TestWriteTranscript(t *testing.T) {
	s := interview.New(schema.DefaultFields(), questions.Static{"Q1?"})
	s.Prompt()
	s.HandleTurn(context.Background(), "Jane Doe")

	var out bytes.Buffer
	WriteTranscript(&out, s.Transcript())

	assert.Equal(t, "[assistant] What is your Full Name?\n[user] Jane Doe\n", out.String())
}
