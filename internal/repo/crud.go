package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/webshop/internal/models"
)

// Entity is a gorm model addressed by a uuid primary key.
type Entity[E any] interface {
	*E
	SetID(uuid.UUID)
}

// Store is the plain CRUD repository shared by users, products and reviews.
type Store[E any, P Entity[E]] struct {
	DB *gorm.DB
}

func NewStore[E any, P Entity[E]](db *gorm.DB) *Store[E, P] {
	return &Store[E, P]{DB: db}
}

func (s *Store[E, P]) Find(ctx context.Context, id uuid.UUID) (*E, error) {
	var e E
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(P(&e)).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns one page ordered by id, plus the total number of matching rows.
func (s *Store[E, P]) List(ctx context.Context, offset, limit int, filters map[string]any) (int64, []E, error) {
	q := s.DB.WithContext(ctx).Model(P(new(E)))
	if len(filters) > 0 {
		q = q.Where(filters)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]E, 0, limit)
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *Store[E, P]) Insert(ctx context.Context, e *E) error {
	return s.DB.WithContext(ctx).Create(P(e)).Error
}

// Update overwrites the row with the given id. gorm.ErrRecordNotFound if there is none.
func (s *Store[E, P]) Update(ctx context.Context, id uuid.UUID, e *E) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(P(new(E))).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		P(e).SetID(id)
		return tx.Save(P(e)).Error
	})
}

func (s *Store[E, P]) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(P(new(E)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type (
	UserStore    = Store[models.User, *models.User]
	ProductStore = Store[models.Product, *models.Product]
	ReviewStore  = Store[models.Review, *models.Review]
)
