package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
	"github.com/kelvinjchung/LittleLemon-api/internal/notifier"
	"github.com/kelvinjchung/LittleLemon-api/internal/repository"
)

const (
	msgOrderNotFound   = "Order does not exist"
	msgStatusRequired  = "Must provide status code 0 or 1"
	msgPatchEmpty      = "Must provide status or delivery crew"
	msgUserNotFound    = "User does not exist"
	msgNotDeliveryCrew = "User is not a delivery crew"
)

// OrderPatch carries a partial order update. Nil fields were absent from the request.
type OrderPatch struct {
	Status       *int
	DeliveryCrew *uint
}

type OrderService struct {
	tx       repository.TxManager
	orders   repository.OrderRepository
	carts    repository.CartRepository
	users    repository.UserRepository
	notifier notifier.Notifier
	now      func() time.Time
}

func NewOrderService(
	tx repository.TxManager,
	orders repository.OrderRepository,
	carts repository.CartRepository,
	users repository.UserRepository,
	n notifier.Notifier,
) *OrderService {
	return &OrderService{tx: tx, orders: orders, carts: carts, users: users, notifier: n, now: time.Now}
}

// List returns every order to managers, assigned orders to delivery crew and
// the caller's own orders to everyone else.
func (s *OrderService) List(ctx context.Context, caller *models.User) ([]models.Order, error) {
	var f repository.OrderFilter
	switch {
	case caller.HasRole(models.RoleManager):
	case caller.HasRole(models.RoleDeliveryCrew):
		f.DeliveryCrewID = &caller.ID
	default:
		f.UserID = &caller.ID
	}
	return s.orders.List(ctx, f)
}

// Create converts the caller's cart line into an order with one item and
// removes the line, all in one transaction.
func (s *OrderService) Create(ctx context.Context, caller *models.User) (*models.Order, error) {
	var order *models.Order

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.carts.GetByUser(ctx, caller.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("This user does not have a cart")
		}
		if err != nil {
			return err
		}

		order = &models.Order{
			UserID: caller.ID,
			Status: models.OrderStatusOutForDelivery,
			Total:  cart.Price,
			Date:   today(s.now()),
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}

		item := models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: cart.MenuItemID,
			Quantity:   cart.Quantity,
			UnitPrice:  cart.UnitPrice,
			Price:      cart.Price,
		}
		if err := s.orders.CreateItem(ctx, &item); err != nil {
			return err
		}
		item.MenuItem = cart.MenuItem
		order.Items = []models.OrderItem{item}

		// A concurrent checkout or clear may have removed the line first.
		err = s.carts.DeleteByUser(ctx, caller.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("This user does not have a cart")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	order.User = caller
	s.publish(ctx, notifier.OrderPlaced, order)
	return order, nil
}

// Items returns the line items of an order owned by the caller.
func (s *OrderService) Items(ctx context.Context, caller *models.User, id uint) ([]models.OrderItem, error) {
	order, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.ID {
		return nil, forbiddenError("You are not authorized to view this order")
	}
	return s.orders.ListItems(ctx, order.ID)
}

// Update applies a manager or delivery crew patch. Managers may set status and
// crew; crew may only set the status of orders assigned to them.
func (s *OrderService) Update(ctx context.Context, caller *models.User, id uint, patch OrderPatch) (*models.Order, error) {
	order, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case caller.HasRole(models.RoleManager):
		err = s.managerPatch(ctx, order, patch)
	case caller.HasRole(models.RoleDeliveryCrew):
		err = crewPatch(caller, order, patch)
	default:
		err = forbiddenError("You are not authorized to update this order")
	}
	if err != nil {
		return nil, err
	}

	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(msgOrderNotFound)
		}
		return nil, err
	}

	s.publish(ctx, notifier.OrderUpdated, order)
	return order, nil
}

func (s *OrderService) managerPatch(ctx context.Context, order *models.Order, patch OrderPatch) error {
	if patch.Status == nil && patch.DeliveryCrew == nil {
		return validationError(msgPatchEmpty)
	}

	if patch.DeliveryCrew != nil {
		crew, err := s.users.GetByID(ctx, *patch.DeliveryCrew)
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError(msgUserNotFound)
		}
		if err != nil {
			return err
		}
		if !crew.HasRole(models.RoleDeliveryCrew) {
			return validationError(msgNotDeliveryCrew)
		}
		order.DeliveryCrewID = &crew.ID
		order.DeliveryCrew = crew
	}

	if patch.Status != nil {
		status, err := parseStatus(*patch.Status)
		if err != nil {
			return err
		}
		order.Status = status
	}
	return nil
}

func crewPatch(caller *models.User, order *models.Order, patch OrderPatch) error {
	if order.DeliveryCrewID == nil || *order.DeliveryCrewID != caller.ID {
		return forbiddenError("You are not authorized to update this order")
	}
	if patch.DeliveryCrew != nil {
		return forbiddenError("Delivery crew may only update status")
	}
	if patch.Status == nil {
		return validationError(msgStatusRequired)
	}

	status, err := parseStatus(*patch.Status)
	if err != nil {
		return err
	}
	order.Status = status
	return nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	order, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError(msgOrderNotFound)
		}
		return err
	}

	s.publish(ctx, notifier.OrderDeleted, order)
	return nil
}

func (s *OrderService) get(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError(msgOrderNotFound)
	}
	return order, err
}

func (s *OrderService) publish(ctx context.Context, t notifier.EventType, order *models.Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, notifier.NewOrderEvent(t, order)); err != nil {
		log.Printf("Failed to queue %s for order %d: %v", t, order.ID, err)
	}
}

func parseStatus(v int) (models.OrderStatus, error) {
	status := models.OrderStatus(v)
	if !status.Valid() {
		return 0, validationError(msgStatusRequired)
	}
	return status, nil
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
