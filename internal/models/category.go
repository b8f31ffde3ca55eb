package models

type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Slug  string `gorm:"uniqueIndex;not null" json:"slug"`
	Title string `gorm:"index;not null" json:"title"`
}
