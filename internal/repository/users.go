package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
)

type Users struct{ store *Store }

func NewUsers(store *Store) *Users { return &Users{store: store} }

var _ UserRepository = (*Users)(nil)

func (r *Users) Create(ctx context.Context, u *models.User) error {
	return translate(r.store.conn(ctx).Create(u).Error)
}

func (r *Users) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.store.conn(ctx).Preload("Roles").First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Users) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.store.conn(ctx).Preload("Roles").Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Users) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	var u models.User
	if err := r.store.conn(ctx).Preload("Roles").Where("oidc_subject = ?", subject).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Users) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	users := []models.User{}
	err := r.store.conn(ctx).
		Joins("JOIN user_roles ON user_roles.user_id = users.id AND user_roles.role = ?", role).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// AddRole is idempotent: granting a role the user already holds is a no-op.
func (r *Users) AddRole(ctx context.Context, userID uint, role models.Role) error {
	membership := models.UserRole{UserID: userID, Role: role}
	err := r.store.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&membership).Error
	return translate(err)
}

func (r *Users) RemoveRole(ctx context.Context, userID uint, role models.Role) error {
	res := r.store.conn(ctx).Where("user_id = ? AND role = ?", userID, role).Delete(&models.UserRole{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
