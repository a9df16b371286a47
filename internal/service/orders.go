package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/webshop/internal/models"
	"github.com/Skotchmaster/webshop/internal/mykafka"
	"github.com/Skotchmaster/webshop/internal/repo"
	"github.com/Skotchmaster/webshop/internal/transport"
)

type OrderService struct {
	Repo   *repo.OrderRepo
	Events mykafka.Publisher
	Now    func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func orderFrom(req transport.OrderRequest) (*models.Order, error) {
	if req.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one item", ErrValidation)
	}
	items := make([]models.OrderItem, 0, len(req.Items))
	for i, it := range req.Items {
		if it.ProductID == uuid.Nil {
			return nil, fmt.Errorf("%w: item %d has no product_id", ErrValidation, i)
		}
		if it.Quantity == 0 {
			return nil, fmt.Errorf("%w: item %d has zero quantity", ErrValidation, i)
		}
		items = append(items, models.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return &models.Order{UserID: req.UserID, Items: items, Address: req.Address}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	return o, storageErr(err)
}

func (s *OrderService) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	total, orders, err := s.Repo.ListOrders(ctx, offset, limit)
	return total, orders, storageErr(err)
}

func (s *OrderService) CreateOrder(ctx context.Context, req transport.OrderRequest) (*models.Order, error) {
	order, err := orderFrom(req)
	if err != nil {
		return nil, err
	}
	order.OrderedAt = s.now()
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, storageErr(err)
	}
	publish(ctx, s.Events, mykafka.TopicOrderEvents, order.ID.String(), map[string]any{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  order.UserID,
		"items":   len(order.Items),
	})
	return order, nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, req transport.OrderRequest) (*models.Order, error) {
	order, err := orderFrom(req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateOrder(ctx, id, order); err != nil {
		return nil, storageErr(err)
	}
	publish(ctx, s.Events, mykafka.TopicOrderEvents, id.String(), map[string]any{
		"type":    "order_updated",
		"orderID": id,
	})
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		return storageErr(err)
	}
	publish(ctx, s.Events, mykafka.TopicOrderEvents, id.String(), map[string]any{
		"type":    "order_deleted",
		"orderID": id,
	})
	return nil
}
