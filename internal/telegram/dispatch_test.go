package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherKeepsOrderWithinChat(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var seen []string

	d := newDispatcher(context.Background(), func(_ context.Context, u Update) {
		if u.Message.Text == "first" {
			<-release
		}
		mu.Lock()
		seen = append(seen, u.Message.Text)
		mu.Unlock()
	})

	d.dispatch(update(1, "first"))
	d.dispatch(update(1, "second"))
	d.dispatch(update(1, "third"))

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Empty(t, seen, "later updates must wait for the first one")
	mu.Unlock()

	close(release)
	d.wait()

	assert.Equal(t, []string{"first", "second", "third"}, seen)
	assert.Empty(t, d.pending)
}

func TestDispatcherRunsChatsInParallel(t *testing.T) {
	release := make(chan struct{})
	other := make(chan string, 1)

	d := newDispatcher(context.Background(), func(_ context.Context, u Update) {
		if u.Message.Chat.ID == 1 {
			<-release
			return
		}
		other <- u.Message.Text
	})

	d.dispatch(update(1, "slow"))
	d.dispatch(update(2, "fast"))

	select {
	case text := <-other:
		assert.Equal(t, "fast", text)
	case <-time.After(5 * time.Second):
		require.Fail(t, "second chat was blocked by the first one")
	}

	close(release)
	d.wait()
}
