package services

import (
	"context"
	"errors"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
	"github.com/kelvinjchung/LittleLemon-api/internal/repository"
)

// CartInput is the add-to-cart payload. Nil fields were absent from the request.
type CartInput struct {
	MenuItemID *uint
	Quantity   *int
}

// CartService manages the single pending cart line a customer may hold.
type CartService struct {
	carts repository.CartRepository
	items repository.MenuItemRepository
}

func NewCartService(carts repository.CartRepository, items repository.MenuItemRepository) *CartService {
	return &CartService{carts: carts, items: items}
}

func (s *CartService) View(ctx context.Context, user *models.User) ([]models.Cart, error) {
	return s.carts.ListByUser(ctx, user.ID)
}

// Add prices the line from the current menu price and stores it.
func (s *CartService) Add(ctx context.Context, user *models.User, in CartInput) (*models.Cart, error) {
	_, err := s.carts.GetByUser(ctx, user.ID)
	switch {
	case err == nil:
		return nil, conflictError("Cart already exists for this user")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	if in.MenuItemID == nil || in.Quantity == nil {
		return nil, validationError("Must provide menuitem and quantity")
	}

	item, err := s.items.GetByID(ctx, *in.MenuItemID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("Menu item does not exist")
	}
	if err != nil {
		return nil, err
	}

	if *in.Quantity < 1 {
		return nil, validationError("Ensure quantity is greater than or equal to 1.")
	}

	price := models.LinePrice(*in.Quantity, item.Price)
	if price.GreaterThan(models.MaxPrice) {
		return nil, validationError("Line total must not exceed " + models.MaxPrice.StringFixed(2))
	}

	line := &models.Cart{
		UserID:     user.ID,
		MenuItemID: item.ID,
		Quantity:   *in.Quantity,
		UnitPrice:  item.Price,
		Price:      price,
	}
	if err := s.carts.Create(ctx, line); err != nil {
		// Lost a race with a concurrent add for the same user.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictError("Cart already exists for this user")
		}
		return nil, err
	}
	line.MenuItem = item
	return line, nil
}

func (s *CartService) Clear(ctx context.Context, user *models.User) error {
	err := s.carts.DeleteByUser(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundError("Cart does not exist")
	}
	return err
}
