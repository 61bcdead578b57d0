package models

type Product struct {
	ProductID           string `gorm:"column:product_id;primaryKey"`
	ProductCategoryName string `gorm:"column:product_category_name;index"`
}

func (Product) TableName() string {
	return "products"
}
