package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// OrderStatus represents the fulfilment state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type orderTransition struct {
	from OrderStatus
	to   OrderStatus
}

var orderTransitionActors = map[orderTransition][]UserRole{
	{OrderPending, OrderConfirmed}:   {UserRoleFarmer},
	{OrderPending, OrderCancelled}:   {UserRoleBuyer, UserRoleFarmer},
	{OrderConfirmed, OrderCancelled}: {UserRoleFarmer},
	{OrderConfirmed, OrderShipped}:   {UserRoleLogistics},
	{OrderShipped, OrderDelivered}:   {UserRoleLogistics},
}

// CanOrderTransition reports whether role may move an order from one status to another
func CanOrderTransition(from, to OrderStatus, role UserRole) bool {
	for _, r := range orderTransitionActors[orderTransition{from, to}] {
		if r == role {
			return true
		}
	}
	return false
}

// Order is one farmer's share of a checkout
type Order struct {
	ID              uint                 `json:"id"`
	BuyerID         uint                 `json:"buyer_id"`
	FarmerID        uint                 `json:"farmer_id"`
	RiderID         null.Uint            `json:"rider_id"`
	Status          OrderStatus          `json:"status"`
	TotalCents      int64                `json:"total_cents"`
	ShippingAddress string               `json:"shipping_address"`
	Items           []OrderItem          `json:"items"`
	History         []OrderStatusHistory `json:"history,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// InvolvesUser reports whether userID is a party to the order
func (o *Order) InvolvesUser(userID uint) bool {
	return o.BuyerID == userID || o.FarmerID == userID || (o.RiderID.Valid && o.RiderID.Uint == userID)
}

// OrderItem is a priced product line frozen at checkout
type OrderItem struct {
	ID             uint   `json:"id"`
	OrderID        uint   `json:"order_id"`
	ProductID      uint   `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// OrderStatusHistory records one status change
type OrderStatusHistory struct {
	ID         uint        `json:"id"`
	OrderID    uint        `json:"order_id"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status"`
	ActorID    uint        `json:"actor_id"`
	ActorRole  UserRole    `json:"actor_role"`
	Note       null.String `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// CheckoutInput converts a cart into orders
type CheckoutInput struct {
	ShippingAddress string `json:"shipping_address" validate:"required,min=5,max=500"`
}

// OrderStatusInput requests a status change
type OrderStatusInput struct {
	Status string `json:"status" validate:"required,oneof=confirmed shipped delivered cancelled"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}

// OrderFilter narrows order listings; zero fields are ignored
type OrderFilter struct {
	BuyerID  uint
	FarmerID uint
	RiderID  uint
	Status   OrderStatus
}
