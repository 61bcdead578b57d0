package reports

import (
	"context"
	"testing"
	"time"

	"github.com/andreluizsf/olist-analytics/internal/integrity"
	"github.com/andreluizsf/olist-analytics/internal/reports/types"
	"github.com/andreluizsf/olist-analytics/pkg/config"
	"github.com/andreluizsf/olist-analytics/pkg/db"
	"github.com/andreluizsf/olist-analytics/pkg/db/models"
	pkgerrors "github.com/andreluizsf/olist-analytics/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportsDB(t *testing.T) *db.Client {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{Path: "file::memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(models.All()...))
	return client
}

func newTestService(t *testing.T, client *db.Client, opts Options) Service {
	t.Helper()
	if opts.AnalysisTime.IsZero() {
		opts.AnalysisTime = time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC)
	}
	svc, err := NewService(client, nil, opts)
	require.NoError(t, err)
	return svc
}

func ts(value string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// seedDataset loads a small consistent dataset:
//
//	cities: sao paulo (c1, c3), rio de janeiro (c2)
//	categories: auto (p1, p3), books (p2); p3 is never ordered
//	items: o1[p1@10, p2@20 by s1], o2[p1@30 by s2], o3[p2@15 by s1]
//	reviews: o1=5, o2=3, o3=4
func seedDataset(t *testing.T, client *db.Client) {
	t.Helper()
	conn := client.DB()

	require.NoError(t, conn.Create([]models.Customer{
		{CustomerID: "c1", CustomerUniqueID: "u1", ZipCode: "01001", City: "sao paulo", State: "SP"},
		{CustomerID: "c2", CustomerUniqueID: "u2", ZipCode: "20000", City: "rio de janeiro", State: "RJ"},
		{CustomerID: "c3", CustomerUniqueID: "u3", ZipCode: "01002", City: "sao paulo", State: "SP"},
	}).Error)

	require.NoError(t, conn.Create([]models.Location{
		{ZipCode: "01001", City: "sao paulo", State: "SP"},
		{ZipCode: "20000", City: "rio de janeiro", State: "RJ"},
	}).Error)

	require.NoError(t, conn.Create([]models.Seller{
		{SellerID: "s1", ZipCode: "04000", City: "sao paulo", State: "SP"},
		{SellerID: "s2", ZipCode: "30000", City: "belo horizonte", State: "MG"},
	}).Error)

	require.NoError(t, conn.Create([]models.ProductCategory{
		{ProductCategoryName: "automotivo", ProductCategoryEng: "auto"},
		{ProductCategoryName: "livros", ProductCategoryEng: "books"},
	}).Error)

	require.NoError(t, conn.Create([]models.Product{
		{ProductID: "p1", ProductCategoryName: "automotivo"},
		{ProductID: "p2", ProductCategoryName: "livros"},
		{ProductID: "p3", ProductCategoryName: "automotivo"},
	}).Error)

	require.NoError(t, conn.Create([]models.Order{
		{OrderID: "o1", CustomerID: "c1", Status: "delivered", PurchaseTime: ts("2018-01-10 11:30:00")},
		{OrderID: "o2", CustomerID: "c2", Status: "delivered", PurchaseTime: ts("2018-03-05 09:00:00")},
		{OrderID: "o3", CustomerID: "c3", Status: "delivered", PurchaseTime: ts("2018-01-20 16:45:00")},
	}).Error)

	require.NoError(t, conn.Create([]models.OrderItem{
		{OrderID: "o1", ProductID: "p1", SellerID: "s1", Price: money("10.00"), FreightValue: money("2.00")},
		{OrderID: "o1", ProductID: "p2", SellerID: "s1", Price: money("20.00"), FreightValue: money("3.00")},
		{OrderID: "o2", ProductID: "p1", SellerID: "s2", Price: money("30.00"), FreightValue: money("4.00")},
		{OrderID: "o3", ProductID: "p2", SellerID: "s1", Price: money("15.00"), FreightValue: money("2.50")},
	}).Error)

	require.NoError(t, conn.Create([]models.Payment{
		{OrderID: "o1", PaymentType: "credit_card", PaymentValue: money("35.00")},
		{OrderID: "o2", PaymentType: "boleto", PaymentValue: money("34.00")},
		{OrderID: "o3", PaymentType: "credit_card", PaymentValue: money("17.50")},
	}).Error)

	require.NoError(t, conn.Create([]models.Review{
		{ReviewID: "r1", OrderID: "o1", ReviewScore: 5},
		{ReviewID: "r2", OrderID: "o2", ReviewScore: 3},
		{ReviewID: "r3", OrderID: "o3", ReviewScore: 4},
	}).Error)
}

func TestDuplicateCustomersEmptyWhenNoDuplicates(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	svc := newTestService(t, client, Options{})

	rows, err := svc.DuplicateCustomers(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDuplicateCustomersReturnsExactGroup(t *testing.T) {
	client := newReportsDB(t)
	require.NoError(t, client.DB().Create([]models.Customer{
		{CustomerID: "C1", CustomerUniqueID: "u1", ZipCode: "01001", City: "sao paulo", State: "SP"},
		{CustomerID: "C1", CustomerUniqueID: "u2", ZipCode: "01002", City: "campinas", State: "SP"},
		{CustomerID: "C2", CustomerUniqueID: "u3", ZipCode: "20000", City: "rio de janeiro", State: "RJ"},
	}).Error)
	svc := newTestService(t, client, Options{})

	rows, err := svc.DuplicateCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "C1", row.CustomerID)
		assert.EqualValues(t, 2, row.Occurrences)
	}
	assert.Equal(t, "u1", rows[0].CustomerUniqueID)
	assert.Equal(t, "u2", rows[1].CustomerUniqueID)
}

func TestSalesByCitySingleCityScenario(t *testing.T) {
	client := newReportsDB(t)
	conn := client.DB()
	require.NoError(t, conn.Create(&models.Customer{CustomerID: "c1", CustomerUniqueID: "u1", ZipCode: "1", City: "X", State: "SP"}).Error)
	require.NoError(t, conn.Create(&models.Seller{SellerID: "s1", ZipCode: "2", City: "X", State: "SP"}).Error)
	require.NoError(t, conn.Create(&models.ProductCategory{ProductCategoryName: "cat", ProductCategoryEng: "cat"}).Error)
	require.NoError(t, conn.Create(&models.Product{ProductID: "p1", ProductCategoryName: "cat"}).Error)
	require.NoError(t, conn.Create(&models.Order{OrderID: "o1", CustomerID: "c1", Status: "delivered", PurchaseTime: ts("2018-01-01 00:00:00")}).Error)
	require.NoError(t, conn.Create([]models.OrderItem{
		{OrderID: "o1", ProductID: "p1", SellerID: "s1", Price: money("10.00"), FreightValue: decimal.Zero},
		{OrderID: "o1", ProductID: "p1", SellerID: "s1", Price: money("20.00"), FreightValue: decimal.Zero},
		{OrderID: "o1", ProductID: "p1", SellerID: "s1", Price: money("30.00"), FreightValue: decimal.Zero},
	}).Error)

	svc := newTestService(t, client, Options{})
	rows, err := svc.SalesByCity(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "X", rows[0].City)
	assert.Equal(t, "60.00", rows[0].TotalSales.StringFixed(2))
}

func TestSalesByCityOrdering(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	svc := newTestService(t, client, Options{})

	rows, err := svc.SalesByCity(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "sao paulo", rows[0].City)
	assert.Equal(t, "45.00", rows[0].TotalSales.StringFixed(2))
	assert.Equal(t, "rio de janeiro", rows[1].City)
	assert.Equal(t, "30.00", rows[1].TotalSales.StringFixed(2))
}

func TestSalesByCategoryOrdering(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	svc := newTestService(t, client, Options{})

	rows, err := svc.SalesByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "auto", rows[0].Category)
	assert.Equal(t, "40.00", rows[0].TotalSales.StringFixed(2))
	assert.Equal(t, "books", rows[1].Category)
	assert.Equal(t, "35.00", rows[1].TotalSales.StringFixed(2))
}

func TestAggregationTotalsAgreeAcrossGroupings(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	svc := newTestService(t, client, Options{})
	ctx := context.Background()

	cities, err := svc.SalesByCity(ctx)
	require.NoError(t, err)
	categories, err := svc.SalesByCategory(ctx)
	require.NoError(t, err)

	cityTotal := decimal.Zero
	for _, r := range cities {
		cityTotal = cityTotal.Add(r.TotalSales)
	}
	categoryTotal := decimal.Zero
	for _, r := range categories {
		categoryTotal = categoryTotal.Add(r.TotalSales)
	}

	var grand struct{ Total decimal.Decimal }
	require.NoError(t, client.Raw(ctx, `
SELECT COALESCE(SUM(i.price), 0) AS total
FROM order_items i JOIN orders o ON o.order_id = i.order_id
`).Scan(&grand).Error)

	assert.True(t, cityTotal.Equal(categoryTotal), "city total %s != category total %s", cityTotal, categoryTotal)
	assert.True(t, cityTotal.Equal(grand.Total), "city total %s != grand total %s", cityTotal, grand.Total)
}

func TestCategoryRevenueExtremesBoundAllCategories(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	svc := newTestService(t, client, Options{})
	ctx := context.Background()

	extremes, err := svc.CategoryRevenueExtremes(ctx)
	require.NoError(t, err)
	require.Len(t, extremes, 2)
	require.Equal(t, "min", extremes[0].Extreme)
	require.Equal(t, "max", extremes[1].Extreme)
	assert.Equal(t, "books", extremes[0].Category)
	assert.Equal(t, "auto", extremes[1].Category)

	all, err := svc.SalesByCategory(ctx)
	require.NoError(t, err)
	for _, r := range all {
		assert.True(t, extremes[0].TotalSales.LessThanOrEqual(r.TotalSales),
			"min %s should bound %s", extremes[0].TotalSales, r.TotalSales)
		assert.True(t, extremes[1].TotalSales.GreaterThanOrEqual(r.TotalSales),
			"max %s should bound %s", extremes[1].TotalSales, r.TotalSales)
	}
}

func TestOrdersByMonth(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	svc := newTestService(t, client, Options{})

	rows, err := svc.OrdersByMonth(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2018, rows[0].Year)
	assert.Equal(t, "January", rows[0].MonthName)
	assert.EqualValues(t, 2, rows[0].Orders)
	assert.Equal(t, "March", rows[1].MonthName)
	assert.EqualValues(t, 1, rows[1].Orders)
}

func TestAvgReviewByCategoryRoundsToTwoPlaces(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	// A third auto review makes the average 4.333... -> 4.33.
	conn := client.DB()
	require.NoError(t, conn.Create(&models.Customer{CustomerID: "c4", CustomerUniqueID: "u4", ZipCode: "1", City: "X", State: "SP"}).Error)
	require.NoError(t, conn.Create(&models.Order{OrderID: "o4", CustomerID: "c4", Status: "delivered", PurchaseTime: ts("2018-04-01 00:00:00")}).Error)
	require.NoError(t, conn.Create(&models.OrderItem{OrderID: "o4", ProductID: "p1", SellerID: "s1", Price: money("1.00"), FreightValue: decimal.Zero}).Error)
	require.NoError(t, conn.Create(&models.Review{ReviewID: "r4", OrderID: "o4", ReviewScore: 5}).Error)

	svc := newTestService(t, client, Options{})
	rows, err := svc.AvgReviewByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// books: (5+4)/2 = 4.50; auto: (5+3+5)/3 = 4.33.
	assert.Equal(t, "books", rows[0].Category)
	assert.Equal(t, "4.50", rows[0].AvgScore.StringFixed(2))
	assert.Equal(t, "auto", rows[1].Category)
	assert.Equal(t, "4.33", rows[1].AvgScore.StringFixed(2))
}

func TestTopReviewedProductIsCategoryMaximum(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	svc := newTestService(t, client, Options{})
	ctx := context.Background()

	rows, err := svc.TopReviewedProductPerCategory(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, row := range rows {
		var maxScore int
		require.NoError(t, client.Raw(ctx, `
SELECT MAX(r.review_score)
FROM order_reviews r
JOIN order_items i ON i.order_id = r.order_id
JOIN products p ON p.product_id = i.product_id
JOIN product_category pc ON pc.product_category_name = p.product_category_name
WHERE pc.product_category_eng = ?
`, row.Category).Scan(&maxScore).Error)
		assert.Equal(t, maxScore, row.ReviewScore, "category %s", row.Category)
	}
}

func TestTopSellers(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	svc := newTestService(t, client, Options{})

	rows, err := svc.TopSellers(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "s1", rows[0].SellerID)
	assert.EqualValues(t, 3, rows[0].Items)
	assert.Equal(t, "sao paulo", rows[0].City)
	assert.Equal(t, "s2", rows[1].SellerID)
	assert.EqualValues(t, 1, rows[1].Items)
}

func TestTopSellersByCategory(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	svc := newTestService(t, client, Options{})

	rows, err := svc.TopSellersByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "s1", rows[0].SellerID)
	assert.Equal(t, "books", rows[0].Category)
	assert.EqualValues(t, 2, rows[0].Items)
	assert.Equal(t, "auto", rows[1].Category)
	assert.Equal(t, "s2", rows[2].SellerID)
}

func TestStaleProducts(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	// Analysis pinned to 2018-09-01 with a 6 month window: cutoff 2018-03-01.
	svc := newTestService(t, client, Options{StaleWindowMonths: 6})

	rows, err := svc.StaleProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// p3 (auto) was never ordered: null last-order date sorts first.
	assert.Equal(t, "p3", rows[0].ProductID)
	assert.Equal(t, "auto", rows[0].Category)
	assert.Nil(t, rows[0].LastOrdered)

	// p2 (books) was last ordered 2018-01-20, before the cutoff.
	assert.Equal(t, "p2", rows[1].ProductID)
	require.NotNil(t, rows[1].LastOrdered)
	assert.Equal(t, "2018-01-20", rows[1].LastOrdered.Format("2006-01-02"))
}

func TestStaleProductsNeverOrderedIgnoresCutoff(t *testing.T) {
	client := newReportsDB(t)
	require.NoError(t, client.DB().Create(&models.Product{ProductID: "lonely", ProductCategoryName: ""}).Error)

	// Even a cutoff in the distant past keeps never-ordered products.
	svc := newTestService(t, client, Options{AnalysisTime: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)})
	rows, err := svc.StaleProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "lonely", rows[0].ProductID)
	assert.Nil(t, rows[0].LastOrdered)
}

func TestReportsAreIdempotent(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	svc := newTestService(t, client, Options{})
	ctx := context.Background()

	for _, name := range types.Menu() {
		first, err := svc.Run(ctx, name)
		require.NoError(t, err, "report %s", name)
		second, err := svc.Run(ctx, name)
		require.NoError(t, err, "report %s", name)
		assert.Equal(t, first, second, "report %s should be idempotent", name)
	}
}

func TestStrictModeFailsReportsOnBrokenEdges(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	require.NoError(t, client.DB().Create(&models.OrderItem{
		OrderID: "ghost", ProductID: "p1", SellerID: "s1",
		Price: money("5.00"), FreightValue: decimal.Zero,
	}).Error)

	checker := integrity.NewChecker(client, false, nil)
	violations, err := checker.Check(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, violations)

	svc := newTestService(t, client, Options{Strict: true, Violations: violations})
	ctx := context.Background()

	_, err = svc.SalesByCity(ctx)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeMissingReference, pkgerrors.As(err).Code())

	// Reports that do not depend on the broken edge still run.
	_, err = svc.DuplicateCustomers(ctx)
	require.NoError(t, err)
	_, err = svc.OrdersByMonth(ctx)
	require.NoError(t, err)
	_, err = svc.StaleProducts(ctx)
	require.NoError(t, err)
}

func TestLenientModeRunsDespiteViolations(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	require.NoError(t, client.DB().Create(&models.OrderItem{
		OrderID: "ghost", ProductID: "p1", SellerID: "s1",
		Price: money("5.00"), FreightValue: decimal.Zero,
	}).Error)

	checker := integrity.NewChecker(client, false, nil)
	violations, err := checker.Check(context.Background())
	require.NoError(t, err)

	svc := newTestService(t, client, Options{Strict: false, Violations: violations})
	rows, err := svc.SalesByCity(context.Background())
	require.NoError(t, err)
	// The orphan item is dropped by the inner join.
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TotalSales)
	}
	assert.Equal(t, "75.00", total.StringFixed(2))
}

func TestRunAllIsolatesFailures(t *testing.T) {
	client := newReportsDB(t)
	seedDataset(t, client)
	violations := []integrity.Violation{
		{Table: "order_items", Column: "order_id", RefTable: "orders", Key: "ghost"},
	}
	svc := newTestService(t, client, Options{Strict: true, Violations: violations})

	results := svc.RunAll(context.Background(), nil)
	require.Len(t, results, len(types.Menu()))

	byName := map[types.ReportName]types.RunResult{}
	for _, res := range results {
		byName[res.Name] = res
	}

	require.Error(t, byName[types.ReportSalesByCity].Err)
	require.Error(t, byName[types.ReportSalesByCategory].Err)
	require.NoError(t, byName[types.ReportDuplicateCustomers].Err)
	require.NoError(t, byName[types.ReportOrdersByMonth].Err)
	require.NoError(t, byName[types.ReportStaleProducts].Err)
	require.NotNil(t, byName[types.ReportOrdersByMonth].Table)
}

func TestRunUnknownReport(t *testing.T) {
	client := newReportsDB(t)
	svc := newTestService(t, client, Options{})
	_, err := svc.Run(context.Background(), "bogus")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
