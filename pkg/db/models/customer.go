package models

// Customer is one row of the customers table. customer_id is deliberately
// not constrained unique: duplicate detection needs duplicates to load.
type Customer struct {
	CustomerID       string `gorm:"column:customer_id;index;not null"`
	CustomerUniqueID string `gorm:"column:customer_unique_id;not null"`
	ZipCode          string `gorm:"column:zip_code;not null"`
	City             string `gorm:"column:city;not null"`
	State            string `gorm:"column:state;not null"`
}

func (Customer) TableName() string {
	return "customers"
}
