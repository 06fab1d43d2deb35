package entities

import "time"

// CartItem is one product line in a buyer's cart
type CartItem struct {
	ID        uint      `json:"id"`
	BuyerID   uint      `json:"buyer_id"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItemInput adds or updates a cart line
type CartItemInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1,max=1000"`
}

// CartLine is the priced view of a cart item
type CartLine struct {
	ProductID      uint   `json:"product_id"`
	Name           string `json:"name"`
	Unit           string `json:"unit"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
	Available      bool   `json:"available"`
}

// CartView is a buyer's priced cart
type CartView struct {
	Items      []CartLine `json:"items"`
	TotalCents int64      `json:"total_cents"`
}
