package reports

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/andreluizsf/olist-analytics/internal/reports/types"
	pkgerrors "github.com/andreluizsf/olist-analytics/pkg/errors"
)

func (s *service) Run(ctx context.Context, name types.ReportName) (*types.Table, error) {
	switch name {
	case types.ReportDuplicateCustomers:
		rows, err := s.DuplicateCustomers(ctx)
		if err != nil {
			return nil, err
		}
		return duplicateCustomersTable(rows), nil
	case types.ReportSalesByCity:
		rows, err := s.SalesByCity(ctx)
		if err != nil {
			return nil, err
		}
		return salesByCityTable(rows), nil
	case types.ReportSalesByCategory:
		rows, err := s.SalesByCategory(ctx)
		if err != nil {
			return nil, err
		}
		return salesByCategoryTable(rows), nil
	case types.ReportCategoryExtremes:
		rows, err := s.CategoryRevenueExtremes(ctx)
		if err != nil {
			return nil, err
		}
		return categoryExtremesTable(rows), nil
	case types.ReportOrdersByMonth:
		rows, err := s.OrdersByMonth(ctx)
		if err != nil {
			return nil, err
		}
		return ordersByMonthTable(rows), nil
	case types.ReportAvgReviewByCategory:
		rows, err := s.AvgReviewByCategory(ctx)
		if err != nil {
			return nil, err
		}
		return avgReviewTable(rows), nil
	case types.ReportTopReviewedPerCategory:
		rows, err := s.TopReviewedProductPerCategory(ctx)
		if err != nil {
			return nil, err
		}
		return topReviewedTable(rows), nil
	case types.ReportTopSellers:
		rows, err := s.TopSellers(ctx)
		if err != nil {
			return nil, err
		}
		return topSellersTable(rows), nil
	case types.ReportTopSellersByCategory:
		rows, err := s.TopSellersByCategory(ctx)
		if err != nil {
			return nil, err
		}
		return topSellersByCategoryTable(rows), nil
	case types.ReportStaleProducts:
		rows, err := s.StaleProducts(ctx)
		if err != nil {
			return nil, err
		}
		return staleProductsTable(rows), nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("unknown report %q", name))
	}
}

func (s *service) RunAll(ctx context.Context, names []types.ReportName) []types.RunResult {
	if len(names) == 0 {
		names = types.Menu()
	}
	results := make([]types.RunResult, 0, len(names))
	for _, name := range names {
		reportCtx := ctx
		if s.logg != nil {
			reportCtx = s.logg.WithReport(ctx, string(name))
		}
		table, err := s.Run(reportCtx, name)
		if err != nil && s.logg != nil {
			s.logg.Error(reportCtx, "report failed", err)
		}
		results = append(results, types.RunResult{Name: name, Table: table, Err: err})
	}
	return results
}

func duplicateCustomersTable(rows []types.DuplicateCustomerRow) *types.Table {
	t := &types.Table{
		Name:    types.ReportDuplicateCustomers,
		Columns: []string{"customer_id", "customer_unique_id", "city", "state", "occurrences"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.CustomerID, r.CustomerUniqueID, r.City, r.State, strconv.FormatInt(r.Occurrences, 10),
		})
	}
	return t
}

func salesByCityTable(rows []types.CitySalesRow) *types.Table {
	t := &types.Table{
		Name:    types.ReportSalesByCity,
		Columns: []string{"city", "total_sales"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.City, r.TotalSales.StringFixed(2)})
	}
	return t
}

func salesByCategoryTable(rows []types.CategorySalesRow) *types.Table {
	t := &types.Table{
		Name:    types.ReportSalesByCategory,
		Columns: []string{"category", "total_sales"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Category, r.TotalSales.StringFixed(2)})
	}
	return t
}

func categoryExtremesTable(rows []types.CategoryExtremeRow) *types.Table {
	t := &types.Table{
		Name:    types.ReportCategoryExtremes,
		Columns: []string{"extreme", "category", "total_sales"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Extreme, r.Category, r.TotalSales.StringFixed(2)})
	}
	return t
}

func ordersByMonthTable(rows []types.MonthlyOrdersRow) *types.Table {
	t := &types.Table{
		Name:    types.ReportOrdersByMonth,
		Columns: []string{"year", "month", "orders"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.Year), r.MonthName, strconv.FormatInt(r.Orders, 10),
		})
	}
	return t
}

func avgReviewTable(rows []types.CategoryReviewRow) *types.Table {
	t := &types.Table{
		Name:    types.ReportAvgReviewByCategory,
		Columns: []string{"category", "avg_score"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Category, r.AvgScore.StringFixed(2)})
	}
	return t
}

func topReviewedTable(rows []types.TopReviewedProductRow) *types.Table {
	t := &types.Table{
		Name:    types.ReportTopReviewedPerCategory,
		Columns: []string{"category", "product_id", "review_score"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Category, r.ProductID, strconv.Itoa(r.ReviewScore)})
	}
	return t
}

func topSellersTable(rows []types.SellerSalesRow) *types.Table {
	t := &types.Table{
		Name:    types.ReportTopSellers,
		Columns: []string{"seller_id", "city", "state", "items"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.SellerID, r.City, r.State, strconv.FormatInt(r.Items, 10)})
	}
	return t
}

func topSellersByCategoryTable(rows []types.SellerCategorySalesRow) *types.Table {
	t := &types.Table{
		Name:    types.ReportTopSellersByCategory,
		Columns: []string{"seller_id", "category", "items"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.SellerID, r.Category, strconv.FormatInt(r.Items, 10)})
	}
	return t
}

func staleProductsTable(rows []types.StaleProductRow) *types.Table {
	t := &types.Table{
		Name:    types.ReportStaleProducts,
		Columns: []string{"product_id", "category", "last_ordered"},
	}
	for _, r := range rows {
		last := "never"
		if r.LastOrdered != nil {
			last = r.LastOrdered.Format(time.DateTime)
		}
		t.Rows = append(t.Rows, []string{r.ProductID, r.Category, last})
	}
	return t
}
