package repo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/webshop/internal/db/dbtest"
	"github.com/Skotchmaster/webshop/internal/hash"
	"github.com/Skotchmaster/webshop/internal/models"
)

func newUser(t *testing.T, r *GormRepo, username, password string, role models.Role) *models.User {
	t.Helper()

	pw, err := hash.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Username: username, PasswordHash: pw, Role: role}
	require.NoError(t, r.CreateUserIfNotExists(context.Background(), u))
	return u
}

func refreshFor(userID uuid.UUID, token string) *models.RefreshToken {
	return &models.RefreshToken{
		UserID:    userID,
		TokenHash: hash.Token(token),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestGormRepo_FindUserByCredentials(t *testing.T) {
	r := &GormRepo{DB: dbtest.New(t)}
	ctx := context.Background()
	u := newUser(t, r, "admin", "secret", models.RoleAdmin)

	got, err := r.FindUserByCredentials(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, models.RoleAdmin, got.Role)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin", password: "nope"},
		{name: "unknown user", username: "ghost", password: "secret"},
		{name: "case sensitive username", username: "Admin", password: "secret"},
		{name: "empty password", username: "admin", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.FindUserByCredentials(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestGormRepo_CreateUserIfNotExists_Duplicate(t *testing.T) {
	r := &GormRepo{DB: dbtest.New(t)}
	newUser(t, r, "bob", "pw", models.RoleUser)

	err := r.CreateUserIfNotExists(context.Background(), &models.User{Username: "bob", PasswordHash: "x", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrUserAlreadyExist)
}

func TestGormRepo_FindUserByID_NotFound(t *testing.T) {
	r := &GormRepo{DB: dbtest.New(t)}

	_, err := r.FindUserByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormRepo_ReplaceRefreshToken_KeepsOneRowPerUser(t *testing.T) {
	r := &GormRepo{DB: dbtest.New(t)}
	ctx := context.Background()
	u := newUser(t, r, "carol", "pw", models.RoleUser)

	for i := 0; i < 5; i++ {
		require.NoError(t, r.ReplaceRefreshToken(ctx, refreshFor(u.ID, fmt.Sprintf("token-%d", i))))
	}

	var count int64
	require.NoError(t, r.DB.Model(&models.RefreshToken{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	live, err := r.FindRefreshTokenByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, hash.Token("token-4"), live.TokenHash)

	_, err = r.FindRefreshToken(ctx, "token-0")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := r.FindRefreshToken(ctx, "token-4")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.UserID)
}

func TestGormRepo_ReplaceRefreshToken_Concurrent(t *testing.T) {
	r := &GormRepo{DB: dbtest.New(t)}
	ctx := context.Background()
	u := newUser(t, r, "dave", "pw", models.RoleUser)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, r.ReplaceRefreshToken(ctx, refreshFor(u.ID, fmt.Sprintf("concurrent-%d", i))))
		}(i)
	}
	wg.Wait()

	var count int64
	require.NoError(t, r.DB.Model(&models.RefreshToken{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormRepo_DeleteRefreshToken(t *testing.T) {
	r := &GormRepo{DB: dbtest.New(t)}
	ctx := context.Background()
	u := newUser(t, r, "erin", "pw", models.RoleUser)

	require.NoError(t, r.InsertRefreshToken(ctx, refreshFor(u.ID, "only")))
	rt, err := r.FindRefreshToken(ctx, "only")
	require.NoError(t, err)

	require.NoError(t, r.DeleteRefreshToken(ctx, rt))
	assert.ErrorIs(t, r.DeleteRefreshToken(ctx, rt), gorm.ErrRecordNotFound)

	_, err = r.FindRefreshTokenByUser(ctx, u.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStore_CRUD(t *testing.T) {
	s := NewStore[models.Product](dbtest.New(t))
	ctx := context.Background()

	p := &models.Product{Name: "lamp", Description: "desk lamp", Price: 19.5, Stock: 3}
	require.NoError(t, s.Insert(ctx, p))
	require.NotEqual(t, uuid.Nil, p.ID)

	got, err := s.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "lamp", got.Name)

	upd := &models.Product{Name: "lamp v2", Description: "desk lamp", Price: 21}
	require.NoError(t, s.Update(ctx, p.ID, upd))
	got, err = s.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "lamp v2", got.Name)
	assert.Equal(t, uint(0), got.Stock)

	assert.ErrorIs(t, s.Update(ctx, uuid.New(), &models.Product{Name: "x"}), gorm.ErrRecordNotFound)

	require.NoError(t, s.Delete(ctx, p.ID))
	assert.ErrorIs(t, s.Delete(ctx, p.ID), gorm.ErrRecordNotFound)
	_, err = s.Find(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStore_ListPagesAndFilters(t *testing.T) {
	s := NewStore[models.Review](dbtest.New(t))
	ctx := context.Background()
	productID := uuid.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Insert(ctx, &models.Review{ProductID: productID, Name: "n", Rating: 4}))
	}
	require.NoError(t, s.Insert(ctx, &models.Review{ProductID: uuid.New(), Name: "other", Rating: 1}))

	total, items, err := s.List(ctx, 0, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	assert.Len(t, items, 2)

	total, items, err = s.List(ctx, 4, 2, map[string]any{"product_id": productID})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, items, 1)
}

func TestOrderRepo_Lifecycle(t *testing.T) {
	r := &OrderRepo{DB: dbtest.New(t)}
	ctx := context.Background()

	order := &models.Order{
		UserID:    uuid.New(),
		OrderedAt: time.Now().UTC(),
		Address:   models.Address{FirstName: "Ann", City: "Oslo"},
		Items: []models.OrderItem{
			{ProductID: uuid.New(), Quantity: 2},
			{ProductID: uuid.New(), Quantity: 1},
		},
	}
	require.NoError(t, r.CreateOrder(ctx, order))

	got, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, "Oslo", got.Address.City)

	upd := &models.Order{
		UserID:  order.UserID,
		Address: models.Address{FirstName: "Ann", City: "Bergen"},
		Items:   []models.OrderItem{{ProductID: uuid.New(), Quantity: 7}},
	}
	require.NoError(t, r.UpdateOrder(ctx, order.ID, upd))

	got, err = r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, uint(7), got.Items[0].Quantity)
	assert.Equal(t, "Bergen", got.Address.City)

	total, orders, err := r.ListOrders(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)

	require.NoError(t, r.DeleteOrder(ctx, order.ID))
	assert.ErrorIs(t, r.DeleteOrder(ctx, order.ID), gorm.ErrRecordNotFound)

	var items int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, items)

	assert.ErrorIs(t, r.UpdateOrder(ctx, uuid.New(), upd), gorm.ErrRecordNotFound)
}

func TestStatusFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "not found", err: fmt.Errorf("wrap: %w", gorm.ErrRecordNotFound), want: http.StatusNotFound},
		{name: "duplicated key", err: gorm.ErrDuplicatedKey, want: http.StatusConflict},
		{name: "pq unique", err: &pq.Error{Code: "23505"}, want: http.StatusConflict},
		{name: "pq connection", err: &pq.Error{Code: "08006"}, want: http.StatusServiceUnavailable},
		{name: "pq foreign key", err: &pq.Error{Code: "23503"}, want: http.StatusBadRequest},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusFromError(tt.err))
		})
	}
}
