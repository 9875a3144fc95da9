package ingest

import (
	"strings"
	"testing"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
)

func TestNormalizeHeaders(t *testing.T) {
	f := &Frame{Columns: []string{"Region", "Total+Sales", "Unit Price", "net.amount"}}
	if err := f.NormalizeHeaders(); err != nil {
		t.Fatalf("NormalizeHeaders: %v", err)
	}
	want := []string{"region", "total_sales", "unit_price", "net_amount"}
	for i, col := range want {
		if f.Columns[i] != col {
			t.Fatalf("column %d: expected %q, got %q", i, col, f.Columns[i])
		}
	}
}

func TestNormalizeHeadersRejectsID(t *testing.T) {
	for _, name := range []string{"id", "Id", "iD", "ID"} {
		f := &Frame{Columns: []string{"region", name}}
		err := f.NormalizeHeaders()
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("header %q: expected validation error, got %v", name, err)
		}
		if !strings.Contains(err.Error(), "cannot contain columns named id") {
			t.Fatalf("header %q: unexpected message %q", name, err.Error())
		}
	}
}

func TestNormalizeHeadersRejectsDuplicates(t *testing.T) {
	f := &Frame{Columns: []string{"Total Sales", "total_sales"}}
	err := f.NormalizeHeaders()
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for duplicate columns, got %v", err)
	}
}

func TestNormalizeHeadersRejectsUnsafeCharacters(t *testing.T) {
	f := &Frame{Columns: []string{`amount"); drop table x; --`}}
	err := f.NormalizeHeaders()
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unsafe header, got %v", err)
	}
}
