package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
)

type Orders struct{ store *Store }

func NewOrders(store *Store) *Orders { return &Orders{store: store} }

var _ OrderRepository = (*Orders)(nil)

func (r *Orders) Create(ctx context.Context, o *models.Order) error {
	return translate(r.store.conn(ctx).Omit(clause.Associations).Create(o).Error)
}

func (r *Orders) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := r.store.conn(ctx).
		Preload("User").
		Preload("DeliveryCrew").
		First(&o, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *Orders) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := r.store.conn(ctx).Preload("User").Preload("DeliveryCrew").Order("id")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.DeliveryCrewID != nil {
		q = q.Where("delivery_crew_id = ?", *f.DeliveryCrewID)
	}

	out := []models.Order{}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Update persists status and delivery crew, the only mutable order fields.
func (r *Orders) Update(ctx context.Context, o *models.Order) error {
	res := r.store.conn(ctx).Model(o).Omit(clause.Associations).
		Select("Status", "DeliveryCrewID").Updates(o)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Orders) Delete(ctx context.Context, id uint) error {
	return r.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := r.store.conn(ctx).Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return translate(err)
		}
		res := r.store.conn(ctx).Delete(&models.Order{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *Orders) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return translate(r.store.conn(ctx).Omit(clause.Associations).Create(item).Error)
}

func (r *Orders) ListItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	out := []models.OrderItem{}
	err := r.store.conn(ctx).
		Preload("MenuItem").
		Preload("MenuItem.Category").
		Where("order_id = ?", orderID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}
