package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/andreluizsf/olist-analytics/pkg/errors"
	"github.com/shopspring/decimal"
)

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// parseTimeCell parses a timestamp cell; empty cells are NULL.
func parseTimeCell(table, column string, row int, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			ts = ts.UTC()
			return &ts, nil
		}
	}
	return nil, cellError(table, column, row, fmt.Sprintf("unparseable timestamp %q", value))
}

func parseDecimalCell(table, column string, row int, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, cellError(table, column, row, fmt.Sprintf("unparseable decimal %q", value))
	}
	return d, nil
}

func parseIntCell(table, column string, row int, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, cellError(table, column, row, fmt.Sprintf("unparseable integer %q", value))
	}
	return n, nil
}

func cellError(table, column string, row int, msg string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeSchema,
		fmt.Sprintf("%s row %d column %s: %s", table, row+2, column, msg))
}
