package models

import "github.com/shopspring/decimal"

type MenuItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Title      string          `gorm:"index;not null" json:"title"`
	Price      decimal.Decimal `gorm:"type:decimal(6,2);index;not null" json:"price"`
	Featured   bool            `gorm:"index;not null;default:false" json:"featured"`
	CategoryID uint            `gorm:"index;not null" json:"category_id"`
	Category   *Category       `json:"category,omitempty"`
}
