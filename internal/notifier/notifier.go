package notifier

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
)

type EventType string

const (
	OrderPlaced  EventType = "order.placed"
	OrderUpdated EventType = "order.updated"
	OrderDeleted EventType = "order.deleted"
)

// Event describes a committed change to an order.
type Event struct {
	Type           EventType          `json:"type"`
	OrderID        uint               `json:"order_id"`
	UserID         uint               `json:"user_id"`
	Username       string             `json:"username"`
	Email          string             `json:"-"`
	Phone          string             `json:"-"`
	DeliveryCrewID *uint              `json:"delivery_crew_id,omitempty"`
	Status         models.OrderStatus `json:"status"`
	Total          decimal.Decimal    `json:"total"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

func NewOrderEvent(t EventType, o *models.Order) Event {
	ev := Event{
		Type:           t,
		OrderID:        o.ID,
		UserID:         o.UserID,
		DeliveryCrewID: o.DeliveryCrewID,
		Status:         o.Status,
		Total:          o.Total,
		OccurredAt:     time.Now().UTC(),
	}
	if o.User != nil {
		ev.Username = o.User.Username
		ev.Email = o.User.Email
		ev.Phone = o.User.Phone
	}
	return ev
}

// Notifier delivers an event to one sink. Sinks ignore event types they do not handle.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Dispatcher fans events out to every sink in its own goroutine. Failures are
// logged and never reach the caller.
type Dispatcher struct {
	sinks []Notifier
	wg    sync.WaitGroup
}

func NewDispatcher(sinks ...Notifier) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

func (d *Dispatcher) Notify(ctx context.Context, ev Event) error {
	ctx = context.WithoutCancel(ctx)
	for _, sink := range d.sinks {
		d.wg.Add(1)
		go func(sink Notifier) {
			defer d.wg.Done()
			if err := sink.Notify(ctx, ev); err != nil {
				log.Printf("Failed to deliver %s for order %d via %T: %v", ev.Type, ev.OrderID, sink, err)
			}
		}(sink)
	}
	return nil
}

// Wait blocks until every in-flight delivery has finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }
