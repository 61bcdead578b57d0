package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order: a product sold by a seller at a price.
// The same (order, product, seller) triple may repeat when a product was
// bought more than once in one order, so no key is enforced here.
type OrderItem struct {
	OrderID      string          `gorm:"column:order_id;index;not null"`
	ProductID    string          `gorm:"column:product_id;index;not null"`
	SellerID     string          `gorm:"column:seller_id;index;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric;not null"`
	FreightValue decimal.Decimal `gorm:"column:freight_value;type:numeric;not null"`
	OrderDate    *time.Time      `gorm:"column:order_date"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
