package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/andreluizsf/olist-analytics/internal/integrity"
	"github.com/andreluizsf/olist-analytics/internal/reports/types"
	"github.com/andreluizsf/olist-analytics/pkg/db"
	pkgerrors "github.com/andreluizsf/olist-analytics/pkg/errors"
	"github.com/andreluizsf/olist-analytics/pkg/logger"
)

// Service exposes the ten report operations over the loaded dataset.
// Every method is a pure read; running one twice yields identical output.
type Service interface {
	DuplicateCustomers(ctx context.Context) ([]types.DuplicateCustomerRow, error)
	SalesByCity(ctx context.Context) ([]types.CitySalesRow, error)
	SalesByCategory(ctx context.Context) ([]types.CategorySalesRow, error)
	CategoryRevenueExtremes(ctx context.Context) ([]types.CategoryExtremeRow, error)
	OrdersByMonth(ctx context.Context) ([]types.MonthlyOrdersRow, error)
	AvgReviewByCategory(ctx context.Context) ([]types.CategoryReviewRow, error)
	TopReviewedProductPerCategory(ctx context.Context) ([]types.TopReviewedProductRow, error)
	TopSellers(ctx context.Context) ([]types.SellerSalesRow, error)
	TopSellersByCategory(ctx context.Context) ([]types.SellerCategorySalesRow, error)
	StaleProducts(ctx context.Context) ([]types.StaleProductRow, error)

	// Run executes one report by name and returns its rendering-ready table.
	Run(ctx context.Context, name types.ReportName) (*types.Table, error)
	// RunAll executes the given reports in order; one failure never stops
	// the rest.
	RunAll(ctx context.Context, names []types.ReportName) []types.RunResult
}

// Options tunes one analysis run.
type Options struct {
	// Strict makes inner-join reports fail when the dataset has unresolved
	// foreign keys they depend on.
	Strict bool
	// Violations are the integrity findings of the pre-flight check.
	Violations []integrity.Violation
	// StaleWindowMonths is the trailing window for the stale-products report.
	StaleWindowMonths int
	// AnalysisTime is the fixed "now" of the run.
	AnalysisTime time.Time
}

type service struct {
	client *db.Client
	logg   *logger.Logger
	opts   Options
}

func NewService(client *db.Client, logg *logger.Logger, opts Options) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	if opts.StaleWindowMonths <= 0 {
		opts.StaleWindowMonths = 6
	}
	if opts.AnalysisTime.IsZero() {
		opts.AnalysisTime = time.Now().UTC()
	}
	return &service{client: client, logg: logg, opts: opts}, nil
}

// requiredRefs lists the foreign-key edges each report's inner joins assume.
// Reports absent here (duplicates, monthly counts, stale products) read a
// single table or use outer joins and tolerate unresolved keys.
var requiredRefs = map[types.ReportName][][2]string{
	types.ReportSalesByCity: {
		{"order_items", "order_id"}, {"orders", "customer_id"}, {"order_items", "product_id"},
	},
	types.ReportSalesByCategory: {
		{"order_items", "order_id"}, {"orders", "customer_id"},
		{"order_items", "product_id"}, {"products", "product_category_name"},
	},
	types.ReportCategoryExtremes: {
		{"order_items", "order_id"}, {"orders", "customer_id"},
		{"order_items", "product_id"}, {"products", "product_category_name"},
	},
	types.ReportAvgReviewByCategory: {
		{"order_reviews", "order_id"}, {"order_items", "order_id"},
		{"order_items", "product_id"}, {"products", "product_category_name"},
	},
	types.ReportTopReviewedPerCategory: {
		{"order_reviews", "order_id"}, {"order_items", "product_id"},
		{"products", "product_category_name"},
	},
	types.ReportTopSellers: {
		{"order_items", "seller_id"},
	},
	types.ReportTopSellersByCategory: {
		{"order_items", "seller_id"}, {"order_items", "product_id"},
		{"products", "product_category_name"},
	},
}

// guard fails a strict-mode report whose joins depend on a broken edge.
func (s *service) guard(name types.ReportName) error {
	if !s.opts.Strict || len(s.opts.Violations) == 0 {
		return nil
	}
	refs, ok := requiredRefs[name]
	if !ok {
		return nil
	}
	var offending []integrity.Violation
	for _, v := range s.opts.Violations {
		for _, ref := range refs {
			if v.Table == ref[0] && v.Column == ref[1] {
				offending = append(offending, v)
			}
		}
	}
	if len(offending) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeMissingReference,
		fmt.Sprintf("report %s requires resolved references", name)).WithDetails(offending)
}

func (s *service) DuplicateCustomers(ctx context.Context) ([]types.DuplicateCustomerRow, error) {
	rows := []types.DuplicateCustomerRow{}
	if err := s.client.Raw(ctx, duplicateCustomersSQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying duplicate customers: %w", err)
	}
	return rows, nil
}

func (s *service) SalesByCity(ctx context.Context) ([]types.CitySalesRow, error) {
	if err := s.guard(types.ReportSalesByCity); err != nil {
		return nil, err
	}
	rows := []types.CitySalesRow{}
	if err := s.client.Raw(ctx, salesByCitySQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying sales by city: %w", err)
	}
	return rows, nil
}

func (s *service) SalesByCategory(ctx context.Context) ([]types.CategorySalesRow, error) {
	if err := s.guard(types.ReportSalesByCategory); err != nil {
		return nil, err
	}
	rows := []types.CategorySalesRow{}
	if err := s.client.Raw(ctx, salesByCategorySQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying sales by category: %w", err)
	}
	return rows, nil
}

func (s *service) CategoryRevenueExtremes(ctx context.Context) ([]types.CategoryExtremeRow, error) {
	if err := s.guard(types.ReportCategoryExtremes); err != nil {
		return nil, err
	}
	rows := []types.CategoryExtremeRow{}
	if err := s.client.Raw(ctx, categoryExtremesSQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying category revenue extremes: %w", err)
	}
	return rows, nil
}

func (s *service) OrdersByMonth(ctx context.Context) ([]types.MonthlyOrdersRow, error) {
	var scanned []struct {
		Year   int
		Month  int
		Orders int64
	}
	if err := s.client.Raw(ctx, ordersByMonthSQL).Scan(&scanned).Error; err != nil {
		return nil, fmt.Errorf("querying orders by month: %w", err)
	}
	rows := make([]types.MonthlyOrdersRow, 0, len(scanned))
	for _, r := range scanned {
		rows = append(rows, types.MonthlyOrdersRow{
			Year:      r.Year,
			Month:     r.Month,
			MonthName: time.Month(r.Month).String(),
			Orders:    r.Orders,
		})
	}
	return rows, nil
}

func (s *service) AvgReviewByCategory(ctx context.Context) ([]types.CategoryReviewRow, error) {
	if err := s.guard(types.ReportAvgReviewByCategory); err != nil {
		return nil, err
	}
	rows := []types.CategoryReviewRow{}
	if err := s.client.Raw(ctx, avgReviewByCategorySQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying average review by category: %w", err)
	}
	for i := range rows {
		rows[i].AvgScore = rows[i].AvgScore.Round(2)
	}
	return rows, nil
}

func (s *service) TopReviewedProductPerCategory(ctx context.Context) ([]types.TopReviewedProductRow, error) {
	if err := s.guard(types.ReportTopReviewedPerCategory); err != nil {
		return nil, err
	}
	rows := []types.TopReviewedProductRow{}
	if err := s.client.Raw(ctx, topReviewedPerCategorySQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying top reviewed products: %w", err)
	}
	return rows, nil
}

func (s *service) TopSellers(ctx context.Context) ([]types.SellerSalesRow, error) {
	if err := s.guard(types.ReportTopSellers); err != nil {
		return nil, err
	}
	rows := []types.SellerSalesRow{}
	if err := s.client.Raw(ctx, topSellersSQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying top sellers: %w", err)
	}
	return rows, nil
}

func (s *service) TopSellersByCategory(ctx context.Context) ([]types.SellerCategorySalesRow, error) {
	if err := s.guard(types.ReportTopSellersByCategory); err != nil {
		return nil, err
	}
	rows := []types.SellerCategorySalesRow{}
	if err := s.client.Raw(ctx, topSellersByCategorySQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying top sellers by category: %w", err)
	}
	return rows, nil
}

func (s *service) StaleProducts(ctx context.Context) ([]types.StaleProductRow, error) {
	cutoff := s.opts.AnalysisTime.UTC().AddDate(0, -s.opts.StaleWindowMonths, 0)

	var scanned []struct {
		ProductID   string
		Category    string
		LastOrdered *string
	}
	if err := s.client.Raw(ctx, staleProductsSQL, cutoff).Scan(&scanned).Error; err != nil {
		return nil, fmt.Errorf("querying stale products: %w", err)
	}

	rows := make([]types.StaleProductRow, 0, len(scanned))
	for _, r := range scanned {
		last, err := parseStoredTime(r.LastOrdered)
		if err != nil {
			return nil, fmt.Errorf("reading stale product %s: %w", r.ProductID, err)
		}
		rows = append(rows, types.StaleProductRow{
			ProductID:   r.ProductID,
			Category:    r.Category,
			LastOrdered: last,
		})
	}
	return rows, nil
}

// Storage layouts the SQLite driver may hand back for aggregated timestamps.
var storedTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseStoredTime(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	for _, layout := range storedTimeLayouts {
		if ts, err := time.Parse(layout, *value); err == nil {
			ts = ts.UTC()
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("unparseable stored timestamp %q", *value)
}
