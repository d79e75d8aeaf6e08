package chat

import (
	"sync"

	"github.com/penlight/core/internal/models"
)

// Broker fans persisted chat messages out to in-process subscribers (the
// socket.io gateway among them). Replaces ad-hoc listener wiring with an
// explicit subscription handle: the returned cancel func detaches the
// subscriber and is safe to call more than once.
type Broker struct {
	mu   sync.Mutex
	next int
	subs map[int]func(models.ChatMessageModel)
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]func(models.ChatMessageModel))}
}

// Subscribe registers fn for every subsequently published message. fn runs
// on the publisher's goroutine; slow consumers should hand off internally.
func (b *Broker) Subscribe(fn func(models.ChatMessageModel)) (cancel func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers msg to every current subscriber.
func (b *Broker) Publish(msg models.ChatMessageModel) {
	b.mu.Lock()
	fns := make([]func(models.ChatMessageModel), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(msg)
	}
}

// Subscribers reports the current subscriber count.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
