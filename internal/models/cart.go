package models

import "github.com/shopspring/decimal"

// Cart is the single pending line a customer has queued. UserID is unique, so a
// user never holds more than one.
type Cart struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"uniqueIndex;not null" json:"-"`
	User       *User           `json:"user,omitempty"`
	MenuItemID uint            `gorm:"index;not null" json:"-"`
	MenuItem   *MenuItem       `gorm:"constraint:OnDelete:CASCADE" json:"menuitem,omitempty"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"price"`
}

// MaxPrice is the largest amount the decimal(6,2) price columns hold.
var MaxPrice = decimal.RequireFromString("9999.99")

// LinePrice is quantity * unit price.
func LinePrice(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
