package gormrepo

import (
	"context"

	"github.com/Skotchmaster/online_pharmacy/internal/models"
	"github.com/Skotchmaster/online_pharmacy/internal/repo"
)

func (r *GormRepo) ListCartLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	lines := make([]models.CartLine, 0, len(items))
	if len(items) == 0 {
		return lines, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, it := range items {
		line := models.CartLine{ID: it.ID, UserID: it.UserID, Quantity: it.Quantity}
		if p, ok := byID[it.ProductID]; ok {
			line.Product = &p
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *GormRepo) AddCartItem(ctx context.Context, item *models.CartItem) error {
	return translate(r.DB.WithContext(ctx).Create(item).Error)
}

func (r *GormRepo) UpdateCartItemQuantity(ctx context.Context, id, userID string, quantity int) (*models.CartItem, error) {
	res := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, repo.ErrNotFound
	}

	var item models.CartItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id, userID string) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
