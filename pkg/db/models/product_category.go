package models

// ProductCategory maps the dataset's internal category code to its
// English-language name.
type ProductCategory struct {
	ProductCategoryName string `gorm:"column:product_category_name;primaryKey"`
	ProductCategoryEng  string `gorm:"column:product_category_eng;not null"`
}

func (ProductCategory) TableName() string {
	return "product_category"
}
