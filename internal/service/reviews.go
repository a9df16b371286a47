package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/webshop/internal/models"
	"github.com/Skotchmaster/webshop/internal/repo"
	"github.com/Skotchmaster/webshop/internal/transport"
)

const (
	MinRating = 0
	MaxRating = 5
)

type ReviewService struct {
	Reviews  *repo.ReviewStore
	Products *repo.ProductStore
	Now      func() time.Time
}

func (s *ReviewService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ReviewService) reviewFrom(ctx context.Context, req transport.ReviewRequest) (*models.Review, error) {
	if req.ProductID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Rating < MinRating || req.Rating > MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, MinRating, MaxRating)
	}
	if _, err := s.Products.Find(ctx, req.ProductID); err != nil {
		if err = storageErr(err); errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s does not exist", ErrValidation, req.ProductID)
		}
		return nil, err
	}
	return &models.Review{
		ProductID: req.ProductID,
		Name:      strings.TrimSpace(req.Name),
		Message:   req.Message,
		Rating:    req.Rating,
	}, nil
}

func (s *ReviewService) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	r, err := s.Reviews.Find(ctx, id)
	return r, storageErr(err)
}

// ListReviews pages over all reviews, or those of one product when productID is set.
func (s *ReviewService) ListReviews(ctx context.Context, productID uuid.UUID, offset, limit int) (int64, []models.Review, error) {
	var filters map[string]any
	if productID != uuid.Nil {
		filters = map[string]any{"product_id": productID}
	}
	total, items, err := s.Reviews.List(ctx, offset, limit, filters)
	return total, items, storageErr(err)
}

func (s *ReviewService) CreateReview(ctx context.Context, req transport.ReviewRequest) (*models.Review, error) {
	review, err := s.reviewFrom(ctx, req)
	if err != nil {
		return nil, err
	}
	review.CreatedAt = s.now()
	if err := s.Reviews.Insert(ctx, review); err != nil {
		return nil, storageErr(err)
	}
	return review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, id uuid.UUID, req transport.ReviewRequest) (*models.Review, error) {
	existing, err := s.Reviews.Find(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	review, err := s.reviewFrom(ctx, req)
	if err != nil {
		return nil, err
	}
	review.CreatedAt = existing.CreatedAt
	if err := s.Reviews.Update(ctx, id, review); err != nil {
		return nil, storageErr(err)
	}
	return review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return storageErr(s.Reviews.Delete(ctx, id))
}
