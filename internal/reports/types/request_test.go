package types

import (
	"testing"

	pkgerrors "github.com/andreluizsf/olist-analytics/pkg/errors"
)

func TestRunRequestValidation(t *testing.T) {
	valid := RunRequest{Reports: []string{"sales_by_city", "stale_products"}, Strictness: "strict"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	unknown := RunRequest{Reports: []string{"sales_by_moon"}, Strictness: "lenient"}
	err := unknown.Validate()
	if err == nil {
		t.Fatal("expected unknown report name to fail validation")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}

	badMode := RunRequest{Strictness: "paranoid"}
	if err := badMode.Validate(); err == nil {
		t.Fatal("expected unknown strictness to fail validation")
	}
}

func TestRunRequestNamesDefaultsToMenu(t *testing.T) {
	req := RunRequest{Strictness: "lenient"}
	names := req.Names()
	if len(names) != len(Menu()) {
		t.Fatalf("expected full menu, got %d names", len(names))
	}
	if names[0] != ReportDuplicateCustomers || names[len(names)-1] != ReportStaleProducts {
		t.Fatalf("unexpected menu order: %v", names)
	}
}

func TestRunRequestNamesPreservesSelection(t *testing.T) {
	req := RunRequest{Reports: []string{"top_sellers", "sales_by_city"}, Strictness: "lenient"}
	names := req.Names()
	if len(names) != 2 || names[0] != ReportTopSellers || names[1] != ReportSalesByCity {
		t.Fatalf("unexpected names: %v", names)
	}
}
