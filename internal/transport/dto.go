package transport

import (
	"github.com/google/uuid"

	"github.com/Skotchmaster/webshop/internal/models"
)

// AuthToken is the body of a successful login or refresh.
type AuthToken struct {
	BearerToken  string `json:"bearerToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserRequest is used for registration and admin updates. Role is honoured only on update.
type UserRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Stock       uint    `json:"stock"`
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  uint      `json:"quantity"`
}

type OrderRequest struct {
	UserID  uuid.UUID          `json:"user_id"`
	Items   []OrderItemRequest `json:"items"`
	Address models.Address     `json:"address"`
}

type ReviewRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Rating    float64   `json:"rating"`
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}
