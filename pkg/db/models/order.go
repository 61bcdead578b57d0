package models

import "time"

// Order captures the lifecycle timestamps of a single purchase.
type Order struct {
	OrderID               string     `gorm:"column:order_id;primaryKey"`
	CustomerID            string     `gorm:"column:customer_id;index;not null"`
	Status                string     `gorm:"column:status;not null"`
	PurchaseTime          time.Time  `gorm:"column:purchase_time;not null"`
	ApprovedTime          *time.Time `gorm:"column:approved_time"`
	DeliveredCarrierTime  *time.Time `gorm:"column:delivered_carrier_time"`
	DeliveredCustomerTime *time.Time `gorm:"column:delivered_customer_time"`
	EstimatedDeliveryTime *time.Time `gorm:"column:estimated_delivery_time"`
}

func (Order) TableName() string {
	return "orders"
}
