package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/online_pharmacy/internal/events"
	"github.com/Skotchmaster/online_pharmacy/internal/models"
	"github.com/Skotchmaster/online_pharmacy/internal/repo"
	"github.com/Skotchmaster/online_pharmacy/internal/search"
	"github.com/Skotchmaster/online_pharmacy/internal/transport"
	"github.com/Skotchmaster/online_pharmacy/pkg/logging"
)

type CatalogService struct {
	Repo   repo.ProductRepo
	Events events.Publisher
	Index  search.Indexer
}

func (s *CatalogService) List(ctx context.Context, sort string) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, repo.ParseSortKey(sort))
}

func (s *CatalogService) Create(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	p := &models.Product{Name: req.Name, Price: *req.Price, Formula: req.Formula}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.index(ctx, p)
	events.Emit(ctx, s.Events, events.TopicProducts, p.ID, events.ProductCreated, p)
	return p, nil
}

// Replace overwrites all fields of product id. It returns (nil, nil) when the
// product does not exist.
func (s *CatalogService) Replace(ctx context.Context, id string, req transport.ProductRequest) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	p := &models.Product{ID: id, Name: req.Name, Price: *req.Price, Formula: req.Formula}
	if err := s.Repo.ReplaceProduct(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("replace product: %w", err)
	}

	s.index(ctx, p)
	events.Emit(ctx, s.Events, events.TopicProducts, p.ID, events.ProductUpdated, p)
	return p, nil
}

// Delete removes product id. Deleting an unknown id is not an error.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "op", "delete", "product_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProducts, id, events.ProductDeleted, map[string]string{"id": id})
	return nil
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, *p); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "op", "index", "product_id", p.ID, "error", err)
	}
}
