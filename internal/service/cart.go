package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/online_pharmacy/internal/events"
	"github.com/Skotchmaster/online_pharmacy/internal/metrics"
	"github.com/Skotchmaster/online_pharmacy/internal/models"
	"github.com/Skotchmaster/online_pharmacy/internal/repo"
	"github.com/Skotchmaster/online_pharmacy/internal/transport"
)

type CartService struct {
	Repo     repo.CartRepo
	Products repo.ProductRepo
	Events   events.Publisher
}

func (s *CartService) Lines(ctx context.Context, userID string) ([]models.CartLine, error) {
	return s.Repo.ListCartLines(ctx, userID)
}

func (s *CartService) Add(ctx context.Context, userID, productID string, req transport.QuantityRequest) (*models.CartItem, error) {
	if err := checkID(productID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.Products.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("lookup product: %w", err)
	}

	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: *req.Quantity}
	if err := s.Repo.AddCartItem(ctx, item); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	metrics.CartOperations.WithLabelValues("add").Inc()
	events.Emit(ctx, s.Events, events.TopicCart, userID, events.CartItemAdded, item)
	return item, nil
}

// UpdateQuantity changes the quantity of one of userID's cart items. Items
// owned by other users are reported as not found.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, req transport.QuantityRequest) (*models.CartItem, error) {
	if err := checkID(itemID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	item, err := s.Repo.UpdateCartItemQuantity(ctx, itemID, userID, *req.Quantity)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	metrics.CartOperations.WithLabelValues("update").Inc()
	events.Emit(ctx, s.Events, events.TopicCart, userID, events.CartItemUpdated, item)
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID string) error {
	if err := checkID(itemID); err != nil {
		return err
	}

	if err := s.Repo.DeleteCartItem(ctx, itemID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
		}
		return fmt.Errorf("remove cart item: %w", err)
	}

	metrics.CartOperations.WithLabelValues("remove").Inc()
	events.Emit(ctx, s.Events, events.TopicCart, userID, events.CartItemRemoved, map[string]string{"id": itemID, "user_id": userID})
	return nil
}
