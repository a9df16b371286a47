package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ErrorStatus is the outcome of bearer token verification carried in the request context.
type ErrorStatus string

const (
	StatusNone    ErrorStatus = ""
	StatusExpired ErrorStatus = "expired"
	StatusInvalid ErrorStatus = "invalid"
	StatusEmpty   ErrorStatus = "empty"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         Role      `gorm:"not null;default:user"    json:"role"`
}

// RefreshToken is the single live refresh token of a user. Only the sha256 of the token is kept.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null"          json:"-"`
	CreatedAt time.Time `gorm:"not null"                      json:"created_at"`
	ExpiresAt time.Time `gorm:"not null"                      json:"expires_at"`
}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null"             json:"name"`
	Description string    `gorm:"not null"             json:"description"`
	Price       float64   `gorm:"not null"             json:"price"`
	ImageURL    string    `json:"image_url"`
	Stock       uint      `json:"stock"`
}

type Address struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Email      string `json:"email"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"   json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"         json:"product_id"`
	Quantity  uint      `gorm:"default:1;check:quantity>0" json:"quantity"`
}

type Order struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"                       json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;index;not null"                   json:"user_id"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Address   Address     `gorm:"embedded;embeddedPrefix:address_"           json:"address"`
	OrderedAt time.Time   `gorm:"not null"                                   json:"ordered_at"`
}

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"product_id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Message   string    `json:"message"`
	Rating    float64   `gorm:"not null"                 json:"rating"`
	CreatedAt time.Time `gorm:"not null"                 json:"created_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error         { ensureID(&u.ID); return nil }
func (t *RefreshToken) BeforeCreate(*gorm.DB) error { ensureID(&t.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error      { ensureID(&p.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error        { ensureID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error    { ensureID(&i.ID); return nil }
func (r *Review) BeforeCreate(*gorm.DB) error       { ensureID(&r.ID); return nil }

func (u *User) SetID(id uuid.UUID)    { u.ID = id }
func (p *Product) SetID(id uuid.UUID) { p.ID = id }
func (o *Order) SetID(id uuid.UUID)   { o.ID = id }
func (r *Review) SetID(id uuid.UUID)  { r.ID = id }

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{&User{}, &RefreshToken{}, &Product{}, &Order{}, &OrderItem{}, &Review{}}
}
