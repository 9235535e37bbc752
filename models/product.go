package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `json:"description"`
	CategoryID  *uint       `gorm:"index" json:"category_id"`
	Category    *Category   `json:"category,omitempty"`
	Item        ProductItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"item"`
	Images      []Image     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	Variations  []Variation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variations,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ProductItem carries the stock and pricing of a product.
type ProductItem struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	ProductID     uint                `gorm:"uniqueIndex;not null" json:"product_id"`
	Quantity      int                 `gorm:"not null;default:0" json:"quantity"`
	Price         decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"price"`
	ComparePrice  decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"compare_price"`
	PurchasePrice decimal.Decimal     `gorm:"type:numeric(12,2)" json:"purchase_price"`
	SKU           string              `gorm:"index" json:"sku"`
}

type Image struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	ImageSrc  string    `gorm:"not null" json:"image_src"`
	PublicID  string    `json:"public_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Variation is a product dimension such as "size" or "colour".
type Variation struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ProductID uint              `gorm:"index;not null" json:"product_id"`
	Title     string            `gorm:"not null" json:"title"`
	Options   []VariationOption `gorm:"foreignKey:VariationID;constraint:OnDelete:CASCADE" json:"options"`
}

type VariationOption struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	VariationID uint   `gorm:"index;not null" json:"variation_id"`
	Value       string `gorm:"not null" json:"value"`
}

// ImageURLs returns the image sources in upload order.
func (p Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.ImageSrc)
	}
	return urls
}
