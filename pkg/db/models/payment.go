package models

import "github.com/shopspring/decimal"

// Payment records one payment against an order; orders may carry several.
type Payment struct {
	OrderID      string          `gorm:"column:order_id;index;not null"`
	PaymentType  string          `gorm:"column:payment_type;not null"`
	PaymentValue decimal.Decimal `gorm:"column:payment_value;type:numeric;not null"`
}

func (Payment) TableName() string {
	return "order_payments"
}
