package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/andreluizsf/olist-analytics/internal/reports/types"
)

// Write renders one report table as aligned plain text.
func Write(w io.Writer, table *types.Table) error {
	if table == nil {
		return fmt.Errorf("nil table")
	}

	if _, err := fmt.Fprintf(w, "== %s ==\n", table.Name); err != nil {
		return err
	}

	if len(table.Rows) == 0 {
		_, err := fmt.Fprintln(w, "(no rows)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Columns, "\t"))

	underline := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		underline[i] = strings.Repeat("-", len(col))
	}
	fmt.Fprintln(tw, strings.Join(underline, "\t"))

	for _, row := range table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "(%d rows)\n", len(table.Rows))
	return err
}
