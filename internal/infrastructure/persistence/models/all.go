package models

// All returns every persistence model, in dependency order, for AutoMigrate in tests
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&ProfessionalProfileModel{},
		&AddressModel{},
		&CategoryModel{},
		&ProductModel{},
		&ProductImageModel{},
		&CollectionModel{},
		&CollectionItemModel{},
		&CartModel{},
		&CartItemModel{},
		&WishlistItemModel{},
		&CouponModel{},
		&ShippingZoneModel{},
		&OrderModel{},
		&OrderItemModel{},
		&EscrowModel{},
		&SystemSettingModel{},
		&AuditLogModel{},
	}
}
