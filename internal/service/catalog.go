package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/webshop/internal/es"
	"github.com/Skotchmaster/webshop/internal/logging"
	"github.com/Skotchmaster/webshop/internal/models"
	"github.com/Skotchmaster/webshop/internal/mykafka"
	"github.com/Skotchmaster/webshop/internal/repo"
	"github.com/Skotchmaster/webshop/internal/transport"
)

type CatalogService struct {
	Products *repo.ProductStore
	Index    es.ProductIndex
	Events   mykafka.Publisher
}

func validateProduct(req transport.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	return nil
}

func productFrom(req transport.ProductRequest) *models.Product {
	return &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Products.Find(ctx, id)
	return p, storageErr(err)
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	total, items, err := s.Products.List(ctx, offset, limit, nil)
	return total, items, storageErr(err)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}
	prod := productFrom(req)
	if err := s.Products.Insert(ctx, prod); err != nil {
		return nil, storageErr(err)
	}
	s.reindex(ctx, prod)
	publish(ctx, s.Events, mykafka.TopicProductEvents, prod.ID.String(), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return prod, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}
	prod := productFrom(req)
	if err := s.Products.Update(ctx, id, prod); err != nil {
		return nil, storageErr(err)
	}
	s.reindex(ctx, prod)
	publish(ctx, s.Events, mykafka.TopicProductEvents, id.String(), map[string]any{
		"type":      "product_updated",
		"productID": id,
		"name":      prod.Name,
	})
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Products.Delete(ctx, id); err != nil {
		return storageErr(err)
	}
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, mykafka.TopicProductEvents, id.String(), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	if strings.TrimSpace(query) == "" {
		return 0, nil, fmt.Errorf("%w: query is required", ErrValidation)
	}
	if s.Index == nil {
		return 0, nil, ErrSearchDisabled
	}
	total, items, err := s.Index.Search(ctx, query, offset, limit)
	if errors.Is(err, es.ErrDisabled) {
		return 0, nil, ErrSearchDisabled
	}
	return total, items, err
}

// the database is the source of truth; a stale index is only logged
func (s *CatalogService) reindex(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}
