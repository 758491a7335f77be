package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/your-org/apple-store/internal/events"
	"github.com/your-org/apple-store/internal/logging"
	"github.com/your-org/apple-store/internal/repo"
	"github.com/your-org/apple-store/internal/transport"
)

// CartService operates on one session's cart per call. The session
// identifier is an argument on every method, never service state, so
// each client keeps an isolated cart.
type CartService struct {
	Repo     *repo.GormRepo
	Producer events.Producer
	TaxRate  float64
}

func (s *CartService) ListItems(ctx context.Context, sessionID string) ([]transport.CartLine, error) {
	lines, err := s.Repo.ListCart(ctx, sessionID)
	if err != nil {
		logging.FromContext(ctx).Error("list_cart_failed", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return lines, nil
}

// Add puts quantity units of the product into the session's cart,
// incrementing the existing line when one is present. Quantity defaults
// to 1; a nonexistent product is rejected before anything is written.
func (s *CartService) Add(ctx context.Context, sessionID string, productID, quantity int) (*transport.CartLine, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id must not be empty: %w", ErrValidation)
	}
	if productID <= 0 {
		return nil, fmt.Errorf("product id must be positive: %w", ErrValidation)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", ErrValidation)
	}
	if quantity == 0 {
		quantity = 1
	}

	line, err := s.Repo.UpsertCartItem(ctx, sessionID, productID, quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		logging.FromContext(ctx).Error("add_to_cart_failed", "session_id", sessionID, "product_id", productID, "error", err)
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	publish(ctx, s.Producer, events.TopicCartEvents, sessionID, map[string]any{
		"type":      "cart_item_added",
		"sessionID": sessionID,
		"productID": productID,
		"quantity":  line.Quantity,
	})
	return line, nil
}

// UpdateQuantity sets the line's quantity outright; zero or less removes
// the line. Reports whether a line for the product existed.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID, quantity int) (bool, error) {
	found, err := s.Repo.SetQuantity(ctx, sessionID, productID, quantity)
	if err != nil {
		logging.FromContext(ctx).Error("update_quantity_failed", "session_id", sessionID, "product_id", productID, "error", err)
		return false, fmt.Errorf("update cart quantity: %w", err)
	}
	if found {
		publish(ctx, s.Producer, events.TopicCartEvents, sessionID, map[string]any{
			"type":      "cart_quantity_updated",
			"sessionID": sessionID,
			"productID": productID,
			"quantity":  quantity,
		})
	}
	return found, nil
}

func (s *CartService) Remove(ctx context.Context, sessionID string, productID int) (bool, error) {
	found, err := s.Repo.RemoveCartItem(ctx, sessionID, productID)
	if err != nil {
		logging.FromContext(ctx).Error("remove_from_cart_failed", "session_id", sessionID, "product_id", productID, "error", err)
		return false, fmt.Errorf("remove from cart: %w", err)
	}
	if found {
		publish(ctx, s.Producer, events.TopicCartEvents, sessionID, map[string]any{
			"type":      "cart_item_removed",
			"sessionID": sessionID,
			"productID": productID,
		})
	}
	return found, nil
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.Repo.ClearCart(ctx, sessionID); err != nil {
		logging.FromContext(ctx).Error("clear_cart_failed", "session_id", sessionID, "error", err)
		return fmt.Errorf("clear cart: %w", err)
	}
	publish(ctx, s.Producer, events.TopicCartEvents, sessionID, map[string]any{
		"type":      "cart_cleared",
		"sessionID": sessionID,
	})
	return nil
}

// Summary recomputes the totals from the current cart lines on every call.
// Prices come from the join at read time, so they track later product
// price changes.
func (s *CartService) Summary(ctx context.Context, sessionID string) (*transport.CartSummary, error) {
	lines, err := s.ListItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	summary := transport.CartSummary{Items: lines}
	for _, line := range lines {
		summary.TotalItems += line.Quantity
		summary.Subtotal += line.Price * float64(line.Quantity)
	}
	summary.Tax = summary.Subtotal * s.TaxRate
	summary.Total = summary.Subtotal + summary.Tax

	return &summary, nil
}
