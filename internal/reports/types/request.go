package types

import (
	"fmt"

	pkgerrors "github.com/andreluizsf/olist-analytics/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// ReportName identifies one of the ten report operations.
type ReportName string

const (
	ReportDuplicateCustomers     ReportName = "duplicate_customers"
	ReportSalesByCity            ReportName = "sales_by_city"
	ReportSalesByCategory        ReportName = "sales_by_category"
	ReportCategoryExtremes       ReportName = "category_revenue_extremes"
	ReportOrdersByMonth          ReportName = "orders_by_month"
	ReportAvgReviewByCategory    ReportName = "avg_review_by_category"
	ReportTopReviewedPerCategory ReportName = "top_reviewed_product_per_category"
	ReportTopSellers             ReportName = "top_sellers"
	ReportTopSellersByCategory   ReportName = "top_sellers_by_category"
	ReportStaleProducts          ReportName = "stale_products"
)

// Menu returns the full report menu in its canonical execution order.
func Menu() []ReportName {
	return []ReportName{
		ReportDuplicateCustomers,
		ReportSalesByCity,
		ReportSalesByCategory,
		ReportCategoryExtremes,
		ReportOrdersByMonth,
		ReportAvgReviewByCategory,
		ReportTopReviewedPerCategory,
		ReportTopSellers,
		ReportTopSellersByCategory,
		ReportStaleProducts,
	}
}

const reportNamesOneOf = "duplicate_customers sales_by_city sales_by_category" +
	" category_revenue_extremes orders_by_month avg_review_by_category" +
	" top_reviewed_product_per_category top_sellers top_sellers_by_category stale_products"

// RunRequest is the validated input of a report run: which reports to
// execute and how unresolved references are treated. An empty report list
// means the whole menu.
type RunRequest struct {
	Reports    []string `validate:"dive,oneof=duplicate_customers sales_by_city sales_by_category category_revenue_extremes orders_by_month avg_review_by_category top_reviewed_product_per_category top_sellers top_sellers_by_category stale_products"`
	Strictness string   `validate:"oneof=strict lenient"`
}

var validate = validator.New()

// Validate checks the request against the report menu.
func (r RunRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err,
			fmt.Sprintf("invalid run request (known reports: %s)", reportNamesOneOf))
	}
	return nil
}

// Names resolves the requested report names, defaulting to the full menu.
func (r RunRequest) Names() []ReportName {
	if len(r.Reports) == 0 {
		return Menu()
	}
	names := make([]ReportName, 0, len(r.Reports))
	for _, raw := range r.Reports {
		names = append(names, ReportName(raw))
	}
	return names
}
