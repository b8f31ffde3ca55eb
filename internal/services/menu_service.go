package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
	"github.com/kelvinjchung/LittleLemon-api/internal/repository"
	"github.com/kelvinjchung/LittleLemon-api/internal/utils"
)

const (
	msgNotFound          = "Not found."
	msgCategoryNotFound  = "Category does not exist"
	msgCategoryDuplicate = "category with this slug already exists."
	maxTitleLength       = 255
)

// MenuItemInput carries the writable menu item fields. Nil fields were absent
// from the request.
type MenuItemInput struct {
	Title      *string
	Price      *decimal.Decimal
	Featured   *bool
	CategoryID *uint
}

type CategoryInput struct {
	Title string
	Slug  string
}

type MenuService struct {
	items      repository.MenuItemRepository
	categories repository.CategoryRepository
}

func NewMenuService(items repository.MenuItemRepository, categories repository.CategoryRepository) *MenuService {
	return &MenuService{items: items, categories: categories}
}

func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	return s.items.List(ctx)
}

func (s *MenuService) Get(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError(msgNotFound)
	}
	return item, err
}

func (s *MenuService) Create(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	if err := requireAll(in); err != nil {
		return nil, err
	}

	item := &models.MenuItem{}
	if err := s.apply(ctx, item, in); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.items.GetByID(ctx, item.ID)
}

// Replace overwrites every field. An absent featured flag resets it to false.
func (s *MenuService) Replace(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAll(in); err != nil {
		return nil, err
	}
	if in.Featured == nil {
		featured := false
		in.Featured = &featured
	}
	return s.save(ctx, item, in)
}

// Patch changes only the fields present in the input.
func (s *MenuService) Patch(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, item, in)
}

func (s *MenuService) Delete(ctx context.Context, id uint) error {
	err := s.items.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundError(msgNotFound)
	}
	return err
}

func (s *MenuService) save(ctx context.Context, item *models.MenuItem, in MenuItemInput) (*models.MenuItem, error) {
	if err := s.apply(ctx, item, in); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(msgNotFound)
		}
		return nil, err
	}
	return s.items.GetByID(ctx, item.ID)
}

func requireAll(in MenuItemInput) error {
	var missing []string
	if in.Title == nil {
		missing = append(missing, "title")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	if in.CategoryID == nil {
		missing = append(missing, "category_id")
	}
	if len(missing) > 0 {
		return validationError("Must provide " + strings.Join(missing, ", "))
	}
	return nil
}

// apply validates the present fields and copies them onto item.
func (s *MenuService) apply(ctx context.Context, item *models.MenuItem, in MenuItemInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" || len(title) > maxTitleLength {
			return validationError("title must be between 1 and 255 characters")
		}
		item.Title = title
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return validationError("price must be greater than 0")
		}
		price := in.Price.Round(2)
		if price.GreaterThan(models.MaxPrice) {
			return validationError("price must not exceed " + models.MaxPrice.StringFixed(2))
		}
		item.Price = price
	}
	if in.Featured != nil {
		item.Featured = *in.Featured
	}
	if in.CategoryID != nil {
		category, err := s.categories.GetByID(ctx, *in.CategoryID)
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError(msgCategoryNotFound)
		}
		if err != nil {
			return err
		}
		item.CategoryID = category.ID
		item.Category = category
	}
	return nil
}

func (s *MenuService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// CreateCategory derives the slug from the title when none is given.
func (s *MenuService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > maxTitleLength {
		return nil, validationError("title must be between 1 and 255 characters")
	}

	slug := utils.Slugify(in.Slug)
	if slug == "" {
		slug = utils.Slugify(title)
	}
	if slug == "" {
		return nil, validationError("slug must contain letters or digits")
	}

	category := &models.Category{Title: title, Slug: slug}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictError(msgCategoryDuplicate)
		}
		return nil, err
	}
	return category, nil
}
