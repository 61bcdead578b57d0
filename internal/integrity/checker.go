package integrity

import (
	"context"
	"fmt"

	"github.com/andreluizsf/olist-analytics/pkg/db"
	pkgerrors "github.com/andreluizsf/olist-analytics/pkg/errors"
	"github.com/andreluizsf/olist-analytics/pkg/logger"
	"go.uber.org/multierr"
)

// edge is one foreign-key relationship of the dataset.
type edge struct {
	Table     string
	Column    string
	RefTable  string
	RefColumn string
}

// The dataset's foreign-key graph. Every inner-join report assumes these
// resolve; the stale-products report deliberately tolerates the product
// edge being unused (outer join).
var edges = []edge{
	{Table: "orders", Column: "customer_id", RefTable: "customers", RefColumn: "customer_id"},
	{Table: "order_items", Column: "order_id", RefTable: "orders", RefColumn: "order_id"},
	{Table: "order_items", Column: "product_id", RefTable: "products", RefColumn: "product_id"},
	{Table: "order_items", Column: "seller_id", RefTable: "sellers", RefColumn: "seller_id"},
	{Table: "order_payments", Column: "order_id", RefTable: "orders", RefColumn: "order_id"},
	{Table: "order_reviews", Column: "order_id", RefTable: "orders", RefColumn: "order_id"},
	{Table: "products", Column: "product_category_name", RefTable: "product_category", RefColumn: "product_category_name"},
}

// keysPerEdge caps how many offending keys one probe reports.
const keysPerEdge = 50

// Violation names one unresolved foreign key value.
type Violation struct {
	Table    string `json:"table"`
	Column   string `json:"column"`
	RefTable string `json:"ref_table"`
	Key      string `json:"key"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s.%s=%q has no match in %s", v.Table, v.Column, v.Key, v.RefTable)
}

// Checker verifies the dataset's referential integrity with anti-join probes.
type Checker struct {
	client *db.Client
	strict bool
	logg   *logger.Logger
}

func NewChecker(client *db.Client, strict bool, logg *logger.Logger) *Checker {
	return &Checker{client: client, strict: strict, logg: logg}
}

// Check probes every foreign-key edge. In strict mode any violation fails
// the run with MISSING_REFERENCE naming the offending keys; in lenient mode
// violations are logged and reports proceed (inner joins drop those rows).
func (c *Checker) Check(ctx context.Context) ([]Violation, error) {
	var violations []Violation
	var probeErr error

	for _, e := range edges {
		found, err := c.probe(ctx, e)
		if err != nil {
			probeErr = multierr.Append(probeErr, err)
			continue
		}
		violations = append(violations, found...)
	}

	if probeErr != nil {
		return violations, pkgerrors.Wrap(pkgerrors.CodeDependency, probeErr, "integrity probes failed")
	}

	if len(violations) == 0 {
		return nil, nil
	}

	if c.strict {
		return violations, pkgerrors.New(pkgerrors.CodeMissingReference,
			fmt.Sprintf("%d unresolved foreign keys", len(violations))).WithDetails(violations)
	}

	if c.logg != nil {
		for _, v := range violations {
			c.logg.Warn(c.logg.WithTable(ctx, v.Table), v.String())
		}
	}
	return violations, nil
}

func (c *Checker) probe(ctx context.Context, e edge) ([]Violation, error) {
	query := fmt.Sprintf(`
SELECT DISTINCT t.%[2]s AS key
FROM %[1]s t
LEFT JOIN %[3]s r ON r.%[4]s = t.%[2]s
WHERE r.%[4]s IS NULL AND t.%[2]s <> ''
ORDER BY t.%[2]s
LIMIT %[5]d
`, e.Table, e.Column, e.RefTable, e.RefColumn, keysPerEdge)

	var found []struct{ Key string }
	if err := c.client.Raw(ctx, query).Scan(&found).Error; err != nil {
		return nil, fmt.Errorf("probing %s.%s: %w", e.Table, e.Column, err)
	}

	violations := make([]Violation, 0, len(found))
	for _, f := range found {
		violations = append(violations, Violation{
			Table:    e.Table,
			Column:   e.Column,
			RefTable: e.RefTable,
			Key:      f.Key,
		})
	}
	return violations, nil
}
