package models

type Seller struct {
	SellerID string `gorm:"column:seller_id;primaryKey"`
	ZipCode  string `gorm:"column:zip_code;not null"`
	City     string `gorm:"column:city;not null"`
	State    string `gorm:"column:state;not null"`
}

func (Seller) TableName() string {
	return "sellers"
}
