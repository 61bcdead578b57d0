package models

// All returns every dataset model, in dependency order for migration.
func All() []any {
	return []any{
		&Location{},
		&ProductCategory{},
		&Customer{},
		&Seller{},
		&Product{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&Review{},
	}
}
