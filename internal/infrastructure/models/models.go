package models

// All lists every persisted model in dependency order for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&User{},
		&SellerProfile{},
		&SellerDocument{},
		&SellerBankAccount{},
		&RiderProfile{},
		&RiderDocument{},
		&RiderBankAccount{},
		&Product{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&OrderStatusHistory{},
	}
}
