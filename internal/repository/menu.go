package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
)

type Categories struct{ store *Store }

func NewCategories(store *Store) *Categories { return &Categories{store: store} }

var _ CategoryRepository = (*Categories)(nil)

func (r *Categories) Create(ctx context.Context, c *models.Category) error {
	return translate(r.store.conn(ctx).Create(c).Error)
}

func (r *Categories) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.store.conn(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *Categories) List(ctx context.Context) ([]models.Category, error) {
	out := []models.Category{}
	if err := r.store.conn(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

type MenuItems struct{ store *Store }

func NewMenuItems(store *Store) *MenuItems { return &MenuItems{store: store} }

var _ MenuItemRepository = (*MenuItems)(nil)

func (r *MenuItems) Create(ctx context.Context, m *models.MenuItem) error {
	return translate(r.store.conn(ctx).Omit(clause.Associations).Create(m).Error)
}

func (r *MenuItems) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var m models.MenuItem
	if err := r.store.conn(ctx).Preload("Category").First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MenuItems) List(ctx context.Context) ([]models.MenuItem, error) {
	out := []models.MenuItem{}
	if err := r.store.conn(ctx).Preload("Category").Order("id").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *MenuItems) Update(ctx context.Context, m *models.MenuItem) error {
	res := r.store.conn(ctx).Model(m).Omit(clause.Associations).
		Select("Title", "Price", "Featured", "CategoryID").Updates(m)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MenuItems) Delete(ctx context.Context, id uint) error {
	res := r.store.conn(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
