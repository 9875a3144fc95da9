package ingest

import (
	"testing"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
)

func TestNormalizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sales Report.csv", "sales_report.csv"},
		{"a.b.c.csv", "a_b_c.csv"},
		{"Total+Sales-2021.xlsx", "total_sales_2021.xlsx"},
		{"already_normal.csv", "already_normal.csv"},
		{"UPPER.CSV", "upper.csv"},
		{"no_extension", "no_extension"},
	}
	for _, tc := range cases {
		if got := NormalizeFileName(tc.in); got != tc.want {
			t.Fatalf("NormalizeFileName(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNormalizeFileNameIdempotent(t *testing.T) {
	inputs := []string{
		"Sales Report.csv",
		"a.b.c.csv",
		"Mixed+Case-File Name.v2.xlsx",
		"plain.csv",
	}
	for _, in := range inputs {
		once := NormalizeFileName(in)
		twice := NormalizeFileName(once)
		if once != twice {
			t.Fatalf("normalization not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestDeriveTableName(t *testing.T) {
	name, err := DeriveTableName("sales_report.csv")
	if err != nil {
		t.Fatalf("DeriveTableName: %v", err)
	}
	if name != "sales_report" {
		t.Fatalf("DeriveTableName: expected sales_report, got %q", name)
	}
}

func TestDeriveTableNameRejectsNumeric(t *testing.T) {
	_, err := DeriveTableName("12345.csv")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("numeric name: expected validation error, got %v", err)
	}
}

func TestDeriveTableNameRejectsUnsafeIdentifier(t *testing.T) {
	_, err := DeriveTableName(`sales";drop.csv`)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("unsafe identifier: expected validation error, got %v", err)
	}
}

func TestFileSuffix(t *testing.T) {
	if got := FileSuffix("sales_report.csv"); got != "csv" {
		t.Fatalf("FileSuffix: expected csv, got %q", got)
	}
	if got := FileSuffix("book.XLSX"); got != "xlsx" {
		t.Fatalf("FileSuffix: expected xlsx, got %q", got)
	}
}
