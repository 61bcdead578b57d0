package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/andreluizsf/olist-analytics/pkg/config"
	"github.com/andreluizsf/olist-analytics/pkg/db"
	"github.com/andreluizsf/olist-analytics/pkg/db/models"
	pkgerrors "github.com/andreluizsf/olist-analytics/pkg/errors"
	"github.com/andreluizsf/olist-analytics/pkg/logger"
)

// Loader reads the nine delimited-text tables into the dataset database.
// The dataset is immutable once loaded; Load is called exactly once per run.
type Loader struct {
	client *db.Client
	cfg    config.DatasetConfig
	batch  int
	logg   *logger.Logger
}

func NewLoader(client *db.Client, cfg config.DatasetConfig, batchSize int, logg *logger.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Loader{client: client, cfg: cfg, batch: batchSize, logg: logg}
}

// Load migrates the schema and ingests every table. Any schema or parse
// problem aborts the whole load: reports never run on a partial dataset.
func (l *Loader) Load(ctx context.Context) error {
	if err := l.client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "migrating dataset schema")
	}

	steps := []struct {
		table string
		fn    func(context.Context) (int, error)
	}{
		{"locations", l.loadLocations},
		{"product_category", l.loadCategories},
		{"customers", l.loadCustomers},
		{"sellers", l.loadSellers},
		{"products", l.loadProducts},
		{"orders", l.loadOrders},
		{"order_items", l.loadOrderItems},
		{"order_payments", l.loadPayments},
		{"order_reviews", l.loadReviews},
	}

	for _, step := range steps {
		stepCtx := ctx
		if l.logg != nil {
			stepCtx = l.logg.WithTable(ctx, step.table)
		}
		n, err := step.fn(stepCtx)
		if err != nil {
			return err
		}
		if l.logg != nil {
			l.logg.Info(l.logg.WithField(stepCtx, "rows", n), "table loaded")
		}
	}
	return nil
}

func (l *Loader) loadCustomers(ctx context.Context) (int, error) {
	head, rows, err := l.readTable(l.cfg.CustomersFile, customerColumns)
	if err != nil {
		return 0, err
	}
	out := make([]models.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Customer{
			CustomerID:       head.get(row, "customer_id"),
			CustomerUniqueID: head.get(row, "customer_unique_id"),
			ZipCode:          head.get(row, "zip_code"),
			City:             head.get(row, "city"),
			State:            head.get(row, "state"),
		})
	}
	return len(out), l.insert(ctx, out)
}

func (l *Loader) loadOrders(ctx context.Context) (int, error) {
	head, rows, err := l.readTable(l.cfg.OrdersFile, orderColumns)
	if err != nil {
		return 0, err
	}
	out := make([]models.Order, 0, len(rows))
	for i, row := range rows {
		purchase, err := parseTimeCell("orders", "purchase_time", i, head.get(row, "purchase_time"))
		if err != nil {
			return 0, err
		}
		if purchase == nil {
			return 0, cellError("orders", "purchase_time", i, "value required")
		}
		approved, err := parseTimeCell("orders", "approved_time", i, head.get(row, "approved_time"))
		if err != nil {
			return 0, err
		}
		carrier, err := parseTimeCell("orders", "delivered_carrier_time", i, head.get(row, "delivered_carrier_time"))
		if err != nil {
			return 0, err
		}
		delivered, err := parseTimeCell("orders", "delivered_customer_time", i, head.get(row, "delivered_customer_time"))
		if err != nil {
			return 0, err
		}
		estimated, err := parseTimeCell("orders", "estimated_delivery_time", i, head.get(row, "estimated_delivery_time"))
		if err != nil {
			return 0, err
		}
		out = append(out, models.Order{
			OrderID:               head.get(row, "order_id"),
			CustomerID:            head.get(row, "customer_id"),
			Status:                head.get(row, "status"),
			PurchaseTime:          *purchase,
			ApprovedTime:          approved,
			DeliveredCarrierTime:  carrier,
			DeliveredCustomerTime: delivered,
			EstimatedDeliveryTime: estimated,
		})
	}
	return len(out), l.insert(ctx, out)
}

func (l *Loader) loadOrderItems(ctx context.Context) (int, error) {
	head, rows, err := l.readTable(l.cfg.OrderItemsFile, orderItemColumns)
	if err != nil {
		return 0, err
	}
	out := make([]models.OrderItem, 0, len(rows))
	for i, row := range rows {
		price, err := parseDecimalCell("order_items", "price", i, head.get(row, "price"))
		if err != nil {
			return 0, err
		}
		freight, err := parseDecimalCell("order_items", "freight_value", i, head.get(row, "freight_value"))
		if err != nil {
			return 0, err
		}
		orderDate, err := parseTimeCell("order_items", "order_date", i, head.get(row, "order_date"))
		if err != nil {
			return 0, err
		}
		out = append(out, models.OrderItem{
			OrderID:      head.get(row, "order_id"),
			ProductID:    head.get(row, "product_id"),
			SellerID:     head.get(row, "seller_id"),
			Price:        price,
			FreightValue: freight,
			OrderDate:    orderDate,
		})
	}
	return len(out), l.insert(ctx, out)
}

func (l *Loader) loadPayments(ctx context.Context) (int, error) {
	head, rows, err := l.readTable(l.cfg.PaymentsFile, paymentColumns)
	if err != nil {
		return 0, err
	}
	out := make([]models.Payment, 0, len(rows))
	for i, row := range rows {
		value, err := parseDecimalCell("order_payments", "payment_value", i, head.get(row, "payment_value"))
		if err != nil {
			return 0, err
		}
		out = append(out, models.Payment{
			OrderID:      head.get(row, "order_id"),
			PaymentType:  head.get(row, "payment_type"),
			PaymentValue: value,
		})
	}
	return len(out), l.insert(ctx, out)
}

func (l *Loader) loadProducts(ctx context.Context) (int, error) {
	head, rows, err := l.readTable(l.cfg.ProductsFile, productColumns)
	if err != nil {
		return 0, err
	}
	out := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Product{
			ProductID:           head.get(row, "product_id"),
			ProductCategoryName: head.get(row, "product_category_name"),
		})
	}
	return len(out), l.insert(ctx, out)
}

func (l *Loader) loadCategories(ctx context.Context) (int, error) {
	head, rows, err := l.readTable(l.cfg.CategoriesFile, categoryColumns)
	if err != nil {
		return 0, err
	}
	out := make([]models.ProductCategory, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.ProductCategory{
			ProductCategoryName: head.get(row, "product_category_name"),
			ProductCategoryEng:  head.get(row, "product_category_eng"),
		})
	}
	return len(out), l.insert(ctx, out)
}

func (l *Loader) loadSellers(ctx context.Context) (int, error) {
	head, rows, err := l.readTable(l.cfg.SellersFile, sellerColumns)
	if err != nil {
		return 0, err
	}
	out := make([]models.Seller, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Seller{
			SellerID: head.get(row, "seller_id"),
			ZipCode:  head.get(row, "zip_code"),
			City:     head.get(row, "city"),
			State:    head.get(row, "state"),
		})
	}
	return len(out), l.insert(ctx, out)
}

func (l *Loader) loadLocations(ctx context.Context) (int, error) {
	head, rows, err := l.readTable(l.cfg.LocationsFile, locationColumns)
	if err != nil {
		return 0, err
	}
	out := make([]models.Location, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Location{
			ZipCode: head.get(row, "zip_code"),
			City:    head.get(row, "city"),
			State:   head.get(row, "state"),
		})
	}
	return len(out), l.insert(ctx, out)
}

func (l *Loader) loadReviews(ctx context.Context) (int, error) {
	head, rows, err := l.readTable(l.cfg.ReviewsFile, reviewColumns)
	if err != nil {
		return 0, err
	}
	out := make([]models.Review, 0, len(rows))
	for i, row := range rows {
		score, err := parseIntCell("order_reviews", "review_score", i, head.get(row, "review_score"))
		if err != nil {
			return 0, err
		}
		created, err := parseTimeCell("order_reviews", "creation_date", i, head.get(row, "creation_date"))
		if err != nil {
			return 0, err
		}
		answered, err := parseTimeCell("order_reviews", "answer_date", i, head.get(row, "answer_date"))
		if err != nil {
			return 0, err
		}
		out = append(out, models.Review{
			ReviewID:     head.get(row, "review_id"),
			OrderID:      head.get(row, "order_id"),
			ReviewScore:  score,
			CreationDate: created,
			AnswerDate:   answered,
		})
	}
	return len(out), l.insert(ctx, out)
}

func (l *Loader) insert(ctx context.Context, rows any) error {
	if reflect.ValueOf(rows).Len() == 0 {
		return nil
	}
	if err := l.client.DB().WithContext(ctx).CreateInBatches(rows, l.batch).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting dataset rows")
	}
	return nil
}

// readTable opens one delimited file, validates its header against the
// expected column set, and returns the data rows.
func (l *Loader) readTable(file string, want []string) (header, [][]string, error) {
	path := filepath.Join(l.cfg.Dir, file)
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("opening %s", path))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if d := []rune(l.cfg.Delimiter); len(d) > 0 {
		reader.Comma = d[0]
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeSchema, err, fmt.Sprintf("reading %s", path))
	}
	if len(records) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeSchema, fmt.Sprintf("%s has no header row", path))
	}

	head := header{}
	for i, col := range records[0] {
		head[col] = i
	}

	var missing []string
	for _, col := range want {
		if _, ok := head[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeSchema,
			fmt.Sprintf("%s is missing required columns", file)).WithDetails(missing)
	}

	return head, records[1:], nil
}
