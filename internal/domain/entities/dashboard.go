package entities

// StatusCounts maps a status or role to a row count
type StatusCounts map[string]int64

// BuyerDashboard summarises a buyer's activity
type BuyerDashboard struct {
	OrdersByStatus  StatusCounts `json:"orders_by_status"`
	TotalSpentCents int64        `json:"total_spent_cents"`
	CartItems       int64        `json:"cart_items"`
}

// FarmerDashboard summarises a farmer's catalogue and sales
type FarmerDashboard struct {
	ProductsByStatus StatusCounts `json:"products_by_status"`
	OrdersByStatus   StatusCounts `json:"orders_by_status"`
	RevenueCents     int64        `json:"revenue_cents"`
}

// LogisticsDashboard summarises a rider's deliveries
type LogisticsDashboard struct {
	DeliveriesByStatus StatusCounts `json:"deliveries_by_status"`
	AvailableOrders    int64        `json:"available_orders"`
}

// AdminDashboard summarises the marketplace
type AdminDashboard struct {
	UsersByRole          StatusCounts `json:"users_by_role"`
	PendingRegistrations int64        `json:"pending_registrations"`
	PendingProducts      int64        `json:"pending_products"`
	OrdersByStatus       StatusCounts `json:"orders_by_status"`
	DeliveredVolumeCents int64        `json:"delivered_volume_cents"`
}
