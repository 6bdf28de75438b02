package gormrepo

import (
	"context"

	"github.com/Skotchmaster/online_pharmacy/internal/models"
	"github.com/Skotchmaster/online_pharmacy/internal/repo"
)

func (r *GormRepo) ListProducts(ctx context.Context, sort repo.SortKey) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	switch sort {
	case repo.SortByName:
		q = q.Order("name ASC")
	case repo.SortByPrice:
		q = q.Order("price ASC")
	}

	products := make([]models.Product, 0)
	if err := q.Order("created_at ASC").Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error)
}

// ReplaceProduct overwrites name, price and formula of an existing product.
func (r *GormRepo) ReplaceProduct(ctx context.Context, p *models.Product) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":    p.Name,
			"price":   p.Price,
			"formula": p.Formula,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}
