// Package notify implements the advisory payment-status push channel. One
// subscriber per user at most; notifications are best effort and losing one
// never affects payment correctness.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one advisory payment-status notification.
type Event struct {
	UserID        uuid.UUID `json:"user_id"`
	Approved      bool      `json:"approved"`
	Amount        int64     `json:"amount"`
	BenefitAmount int64     `json:"benefit_amount"`
	MerchantName  string    `json:"merchant_name"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Notifier is the per-user subscription registry.
type Notifier interface {
	// Subscribe registers the caller as the user's single subscriber,
	// replacing and closing any previous subscription.
	Subscribe(userID uuid.UUID) <-chan Event

	// Unsubscribe removes the user's subscription if ch is still the
	// registered one.
	Unsubscribe(userID uuid.UUID, ch <-chan Event)

	// Publish delivers the event to the user's subscriber without blocking.
	// Events to absent or slow subscribers are dropped.
	Publish(event Event)
}

// notifier implements Notifier with a mutex-guarded channel map.
type notifier struct {
	mu       sync.Mutex
	channels map[uuid.UUID]chan Event
}

// NewNotifier creates an empty notification registry.
func NewNotifier() Notifier {
	return &notifier{
		channels: make(map[uuid.UUID]chan Event),
	}
}

// Subscribe registers a buffered channel for the user. An existing channel is
// closed so a stale long-poll wakes up instead of waiting forever.
func (n *notifier) Subscribe(userID uuid.UUID) <-chan Event {
	n.mu.Lock()
	defer n.mu.Unlock()

	if prev, ok := n.channels[userID]; ok {
		close(prev)
	}

	ch := make(chan Event, 1)
	n.channels[userID] = ch
	return ch
}

// Unsubscribe removes the registration when ch is still current. A channel
// replaced by a newer Subscribe call is left alone.
func (n *notifier) Unsubscribe(userID uuid.UUID, ch <-chan Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if current, ok := n.channels[userID]; ok && current == ch {
		delete(n.channels, userID)
		close(current)
	}
}

// Publish sends without blocking; a full buffer means the subscriber is not
// keeping up and the event is dropped. The send happens under the lock so a
// concurrent re-subscribe cannot close the channel mid-send.
func (n *notifier) Publish(event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch, ok := n.channels[event.UserID]
	if !ok {
		return
	}

	select {
	case ch <- event:
	default:
	}
}
