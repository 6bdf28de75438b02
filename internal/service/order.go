package service

import (
	"context"

	"github.com/Skotchmaster/online_pharmacy/internal/events"
)

// OrderService acknowledges checkout and history requests. No order is
// persisted and nothing is charged.
type OrderService struct {
	Events events.Publisher
}

func (s *OrderService) Checkout(ctx context.Context, userID string) error {
	events.Emit(ctx, s.Events, events.TopicCart, userID, events.CheckoutRequested, map[string]string{"user_id": userID})
	return nil
}

func (s *OrderService) History(context.Context, string) error {
	return nil
}
