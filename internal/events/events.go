package events

import (
	"context"
	"time"

	"github.com/Skotchmaster/online_pharmacy/pkg/logging"
)

const (
	TopicUsers    = "user_events"
	TopicProducts = "product_events"
	TopicCart     = "cart_events"
)

const (
	UserRegistered    = "user_registered"
	AdminCreated      = "admin_created"
	UserLoggedIn      = "user_logged_in"
	ProductCreated    = "product_created"
	ProductUpdated    = "product_updated"
	ProductDeleted    = "product_deleted"
	CartItemAdded     = "cart_item_added"
	CartItemUpdated   = "cart_item_updated"
	CartItemRemoved   = "cart_item_removed"
	CheckoutRequested = "checkout_requested"
)

type Event struct {
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, ev Event) error
	Close() error
}

const publishTimeout = 5 * time.Second

// Emit publishes ev on a best-effort basis; failures are logged, never returned.
func Emit(ctx context.Context, p Publisher, topic, key, typ string, payload any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev := Event{Type: typ, At: time.Now().UTC(), Payload: payload}
	if err := p.Publish(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_error", "topic", topic, "type", typ, "error", err)
	}
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, Event) error { return nil }
func (NopPublisher) Close() error                                         { return nil }
