package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// DuplicateCustomerRow is one customer row belonging to a duplicated
// customer_id group.
type DuplicateCustomerRow struct {
	CustomerID       string `json:"customer_id"`
	CustomerUniqueID string `json:"customer_unique_id"`
	City             string `json:"city"`
	State            string `json:"state"`
	Occurrences      int64  `json:"occurrences"`
}

// CitySalesRow is the item-price revenue attributed to one customer city.
type CitySalesRow struct {
	City       string          `json:"city"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// CategorySalesRow is the item-price revenue of one English category name.
type CategorySalesRow struct {
	Category   string          `json:"category"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// CategoryExtremeRow marks the single lowest or highest revenue category.
type CategoryExtremeRow struct {
	Extreme    string          `json:"extreme"`
	Category   string          `json:"category"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// MonthlyOrdersRow counts orders placed in one calendar month.
type MonthlyOrdersRow struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Orders    int64  `json:"orders"`
}

// CategoryReviewRow is the average review score of one category,
// rounded to two decimal places.
type CategoryReviewRow struct {
	Category string          `json:"category"`
	AvgScore decimal.Decimal `json:"avg_score"`
}

// TopReviewedProductRow is a category's rank-1 product by review score.
type TopReviewedProductRow struct {
	Category    string `json:"category"`
	ProductID   string `json:"product_id"`
	ReviewScore int    `json:"review_score"`
}

// SellerSalesRow counts order items attributed to one seller.
type SellerSalesRow struct {
	SellerID string `json:"seller_id"`
	City     string `json:"city"`
	State    string `json:"state"`
	Items    int64  `json:"items"`
}

// SellerCategorySalesRow counts order items per (seller, category) pair.
type SellerCategorySalesRow struct {
	SellerID string `json:"seller_id"`
	Category string `json:"category"`
	Items    int64  `json:"items"`
}

// StaleProductRow is a product with no recent order. LastOrdered is nil
// when the product was never ordered at all.
type StaleProductRow struct {
	ProductID   string     `json:"product_id"`
	Category    string     `json:"category"`
	LastOrdered *time.Time `json:"last_ordered"`
}
