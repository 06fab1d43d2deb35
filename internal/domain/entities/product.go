package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// ProductStatus is the moderation state of a listing
type ProductStatus string

const (
	ProductPending  ProductStatus = "pending"
	ProductApproved ProductStatus = "approved"
	ProductRejected ProductStatus = "rejected"
)

// CanTransitionTo reports whether an admin review may move s to next
func (s ProductStatus) CanTransitionTo(next ProductStatus) bool {
	return s == ProductPending && (next == ProductApproved || next == ProductRejected)
}

// Product is a farmer's listing
type Product struct {
	ID              uint          `json:"id"`
	FarmerID        uint          `json:"farmer_id"`
	Name            string        `json:"name"`
	Category        string        `json:"category"`
	Description     null.String   `json:"description"`
	Unit            string        `json:"unit"`
	PriceCents      int64         `json:"price_cents"`
	Stock           int           `json:"stock"`
	Status          ProductStatus `json:"status"`
	RejectionReason null.String   `json:"rejection_reason"`
	ReviewedAt      null.Time     `json:"reviewed_at"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// ProductInput creates or replaces a listing
type ProductInput struct {
	Name        string `json:"name" validate:"required,min=2,max=150"`
	Category    string `json:"category" validate:"required,max=50"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Unit        string `json:"unit" validate:"required,max=20"`
	PriceCents  int64  `json:"price_cents" validate:"required,gt=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
}

// ProductFilter narrows product listings
type ProductFilter struct {
	FarmerID uint
	Status   ProductStatus
	Category string
	Search   string
}

// ReasonInput carries a required rejection or suspension reason
type ReasonInput struct {
	Reason string `json:"reason"`
}
