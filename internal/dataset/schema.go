package dataset

// Expected header columns per table. Column order in the file does not
// matter; every listed column must be present.
var (
	customerColumns = []string{"customer_id", "customer_unique_id", "zip_code", "city", "state"}
	orderColumns    = []string{
		"order_id", "customer_id", "status", "purchase_time", "approved_time",
		"delivered_carrier_time", "delivered_customer_time", "estimated_delivery_time",
	}
	orderItemColumns = []string{"order_id", "product_id", "seller_id", "price", "freight_value", "order_date"}
	paymentColumns   = []string{"order_id", "payment_type", "payment_value"}
	productColumns   = []string{"product_id", "product_category_name"}
	categoryColumns  = []string{"product_category_name", "product_category_eng"}
	sellerColumns    = []string{"seller_id", "zip_code", "city", "state"}
	locationColumns  = []string{"zip_code", "city", "state"}
	reviewColumns    = []string{"review_id", "order_id", "review_score", "creation_date", "answer_date"}
)

// header maps column names to their position in the file.
type header map[string]int

func (h header) get(row []string, column string) string {
	idx, ok := h[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
