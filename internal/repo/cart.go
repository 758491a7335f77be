package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/apple-store/internal/models"
	"github.com/your-org/apple-store/internal/transport"
)

const cartLineSelect = "cart_items.id, cart_items.product_id, cart_items.quantity, " +
	"cart_items.session_id, cart_items.created_at, products.name AS product_name, products.price"

func (r *GormRepo) ListCart(ctx context.Context, sessionID string) ([]transport.CartLine, error) {
	var lines []transport.CartLine
	if err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select(cartLineSelect).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.session_id = ?", sessionID).
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// UpsertCartItem adds quantity to the session's line for the product,
// creating the line if none exists. The whole sequence runs in one
// transaction so two concurrent adds cannot both take the insert path.
// Returns gorm.ErrRecordNotFound when the product does not exist.
func (r *GormRepo) UpsertCartItem(ctx context.Context, sessionID string, productID, quantity int) (*transport.CartLine, error) {
	var line transport.CartLine

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.CartItem{}).
			Where("session_id = ? AND product_id = ?", sessionID, productID).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			item := models.CartItem{
				ProductID: productID,
				Quantity:  quantity,
				SessionID: sessionID,
				CreatedAt: time.Now().UTC(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		return tx.Table("cart_items").
			Select(cartLineSelect).
			Joins("JOIN products ON products.id = cart_items.product_id").
			Where("cart_items.session_id = ? AND cart_items.product_id = ?", sessionID, productID).
			Scan(&line).Error
	})
	if err != nil {
		return nil, err
	}

	return &line, nil
}

// SetQuantity overwrites the line's quantity; zero or negative deletes the
// line. The bool reports whether a line for the product existed.
func (r *GormRepo) SetQuantity(ctx context.Context, sessionID string, productID, quantity int) (bool, error) {
	if quantity <= 0 {
		return r.RemoveCartItem(ctx, sessionID, productID)
	}

	res := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) RemoveCartItem(ctx context.Context, sessionID string, productID int) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, sessionID string) error {
	return r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CartItem{}).Error
}
