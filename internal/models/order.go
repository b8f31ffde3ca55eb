package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus int

const (
	OrderStatusOutForDelivery OrderStatus = 0
	OrderStatusDelivered      OrderStatus = 1
)

func (s OrderStatus) Valid() bool {
	return s == OrderStatusOutForDelivery || s == OrderStatusDelivered
}

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index;not null" json:"-"`
	User           *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DeliveryCrewID *uint           `gorm:"index" json:"-"`
	DeliveryCrew   *User           `gorm:"foreignKey:DeliveryCrewID;constraint:OnDelete:SET NULL" json:"delivery_crew"`
	Status         OrderStatus     `gorm:"index;not null" json:"status"`
	Total          decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"total"`
	Date           time.Time       `gorm:"type:date;index" json:"date"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem is a snapshot of the cart line the order was created from; its prices
// never follow later menu changes.
type OrderItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"uniqueIndex:idx_order_menuitem;not null" json:"order_id"`
	MenuItemID uint            `gorm:"uniqueIndex:idx_order_menuitem;not null" json:"-"`
	MenuItem   *MenuItem       `gorm:"constraint:OnDelete:CASCADE" json:"menuitem,omitempty"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"price"`
}
