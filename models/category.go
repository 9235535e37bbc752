package models

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"unique;not null" json:"title"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Products  []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"products,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
