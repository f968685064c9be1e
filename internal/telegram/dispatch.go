package telegram

import (
	"context"
	"sync"
)

// dispatcher раздает обновления по чатам: обновления одного чата
// обрабатываются строго в порядке получения, разные чаты работают параллельно
type dispatcher struct {
	ctx     context.Context
	handler func(context.Context, Update)

	mu      sync.Mutex
	pending map[int64][]Update // наличие ключа означает, что воркер чата запущен
	wg      sync.WaitGroup
}

func newDispatcher(ctx context.Context, handler func(context.Context, Update)) *dispatcher {
	return &dispatcher{
		ctx:     ctx,
		handler: handler,
		pending: make(map[int64][]Update),
	}
}

func (d *dispatcher) dispatch(update Update) {
	key := chatKey(update)

	d.mu.Lock()
	_, running := d.pending[key]
	d.pending[key] = append(d.pending[key], update)
	if !running {
		d.wg.Add(1)
	}
	d.mu.Unlock()

	if !running {
		go d.run(key)
	}
}

// run обрабатывает очередь чата и завершается, когда она опустела
func (d *dispatcher) run(key int64) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		queue := d.pending[key]
		if len(queue) == 0 {
			delete(d.pending, key)
			d.mu.Unlock()
			return
		}
		update := queue[0]
		d.pending[key] = queue[1:]
		d.mu.Unlock()

		d.handler(d.ctx, update)
	}
}

// wait дожидается обработки всех принятых обновлений
func (d *dispatcher) wait() {
	d.wg.Wait()
}

func chatKey(update Update) int64 {
	if update.Message == nil || update.Message.Chat == nil {
		return 0
	}
	return update.Message.Chat.ID
}
