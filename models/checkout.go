package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutStatus string

const (
	CheckoutStatusPending   CheckoutStatus = "pending"   // Waiting for the M-Pesa prompt to be completed
	CheckoutStatusPaid      CheckoutStatus = "paid"      // Payment confirmed
	CheckoutStatusFailed    CheckoutStatus = "failed"    // Prompt declined or timed out
	CheckoutStatusCancelled CheckoutStatus = "cancelled" // Cancelled by staff
)

// CheckoutRequest is the contact information and priced cart snapshot a
// visitor submits at checkout.
type CheckoutRequest struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Reference   string          `gorm:"uniqueIndex;not null" json:"reference"`
	MpesaNumber string          `gorm:"not null" json:"mpesa_number"`
	Phone       string          `gorm:"not null" json:"phone"`
	Email       string          `gorm:"not null" json:"email"`
	Items       []CheckoutItem  `gorm:"foreignKey:CheckoutRequestID;constraint:OnDelete:CASCADE" json:"items"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Status      CheckoutStatus  `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CheckoutItem struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	CheckoutRequestID uint            `gorm:"index" json:"checkout_request_id"`
	ProductID         uint            `json:"product_id"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	Quantity          int             `json:"quantity"`
}
