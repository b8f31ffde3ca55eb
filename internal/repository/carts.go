package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
)

type Carts struct{ store *Store }

func NewCarts(store *Store) *Carts { return &Carts{store: store} }

var _ CartRepository = (*Carts)(nil)

// Create fails with ErrDuplicate when the user already holds a cart line.
func (r *Carts) Create(ctx context.Context, c *models.Cart) error {
	return translate(r.store.conn(ctx).Omit(clause.Associations).Create(c).Error)
}

func (r *Carts) GetByUser(ctx context.Context, userID uint) (*models.Cart, error) {
	var c models.Cart
	err := r.store.conn(ctx).
		Preload("MenuItem").
		Preload("MenuItem.Category").
		Where("user_id = ?", userID).
		First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *Carts) ListByUser(ctx context.Context, userID uint) ([]models.Cart, error) {
	out := []models.Cart{}
	err := r.store.conn(ctx).
		Preload("User").
		Preload("MenuItem").
		Preload("MenuItem.Category").
		Where("user_id = ?", userID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *Carts) DeleteByUser(ctx context.Context, userID uint) error {
	res := r.store.conn(ctx).Where("user_id = ?", userID).Delete(&models.Cart{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
