package models

import (
	"time"
)

type Product struct {
	ID              uint    `gorm:"primaryKey;autoIncrement"`
	FarmerID        uint    `gorm:"not null;index"`
	Farmer          *User   `gorm:"foreignKey:FarmerID;constraint:OnDelete:CASCADE"`
	Name            string  `gorm:"type:varchar(150);not null"`
	Category        string  `gorm:"type:varchar(50);not null;index"`
	Description     *string `gorm:"type:text"`
	Unit            string  `gorm:"type:varchar(20);not null"`
	PriceCents      int64   `gorm:"not null"`
	Stock           int     `gorm:"not null;default:0"`
	Status          string  `gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason *string `gorm:"type:text"`
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CartItem struct {
	ID        uint     `gorm:"primaryKey;autoIncrement"`
	BuyerID   uint     `gorm:"not null;uniqueIndex:idx_cart_buyer_product"`
	ProductID uint     `gorm:"not null;uniqueIndex:idx_cart_buyer_product"`
	Product   *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  int      `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID              uint                 `gorm:"primaryKey;autoIncrement"`
	BuyerID         uint                 `gorm:"not null;index"`
	FarmerID        uint                 `gorm:"not null;index"`
	RiderID         *uint                `gorm:"index"`
	Status          string               `gorm:"type:varchar(20);not null;index"`
	TotalCents      int64                `gorm:"not null"`
	ShippingAddress string               `gorm:"type:text;not null"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History         []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	OrderID        uint   `gorm:"not null;index"`
	ProductID      uint   `gorm:"not null"`
	ProductName    string `gorm:"type:varchar(150);not null"`
	Quantity       int    `gorm:"not null"`
	UnitPriceCents int64  `gorm:"not null"`
}

type OrderStatusHistory struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"`
	OrderID    uint    `gorm:"not null;index"`
	FromStatus string  `gorm:"type:varchar(20);not null"`
	ToStatus   string  `gorm:"type:varchar(20);not null"`
	ActorID    uint    `gorm:"not null"`
	ActorRole  string  `gorm:"type:varchar(20);not null"`
	Note       *string `gorm:"type:text"`
	CreatedAt  time.Time
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
