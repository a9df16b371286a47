package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/webshop/internal/db/dbtest"
	"github.com/Skotchmaster/webshop/internal/models"
	"github.com/Skotchmaster/webshop/internal/mykafka"
	"github.com/Skotchmaster/webshop/internal/repo"
	"github.com/Skotchmaster/webshop/internal/transport"
)

func TestOrderService_Validation(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	item := transport.OrderItemRequest{ProductID: uuid.New(), Quantity: 1}
	tests := []struct {
		name string
		req  transport.OrderRequest
	}{
		{name: "no user", req: transport.OrderRequest{Items: []transport.OrderItemRequest{item}}},
		{name: "no items", req: transport.OrderRequest{UserID: userID}},
		{name: "zero quantity", req: transport.OrderRequest{UserID: userID, Items: []transport.OrderItemRequest{{ProductID: uuid.New()}}}},
		{name: "no product", req: transport.OrderRequest{UserID: userID, Items: []transport.OrderItemRequest{{Quantity: 2}}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := orderFrom(tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestOrderService_Lifecycle(t *testing.T) {
	events := &recordingPublisher{}
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &OrderService{
		Repo:   &repo.OrderRepo{DB: dbtest.New(t)},
		Events: events,
		Now:    func() time.Time { return fixed },
	}
	ctx := context.Background()

	req := transport.OrderRequest{
		UserID:  uuid.New(),
		Address: models.Address{FirstName: "Ann", City: "Oslo"},
		Items:   []transport.OrderItemRequest{{ProductID: uuid.New(), Quantity: 2}},
	}
	order, err := svc.CreateOrder(ctx, req)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(order.OrderedAt))

	got, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, uint(2), got.Items[0].Quantity)

	req.Items = append(req.Items, transport.OrderItemRequest{ProductID: uuid.New(), Quantity: 5})
	_, err = svc.UpdateOrder(ctx, order.ID, req)
	require.NoError(t, err)

	got, err = svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.True(t, fixed.Equal(got.OrderedAt))

	total, list, err := svc.ListOrders(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))
	assert.ErrorIs(t, svc.DeleteOrder(ctx, order.ID), ErrNotFound)
	_, err = svc.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"order_created", "order_updated", "order_deleted"}, events.types(mykafka.TopicOrderEvents))
}
