package ingest

import "testing"

func TestInferSchema(t *testing.T) {
	f := &Frame{
		Columns: []string{"count", "price", "flag", "label", "sparse"},
		Rows: [][]string{
			{"1", "1.5", "true", "abc", ""},
			{"2", "2", "false", "2021-01-01", ""},
			{"-3", "3.25", "TRUE", "def", "9"},
		},
	}
	got := InferSchema(f)
	want := []ColumnType{TypeBigint, TypeDouble, TypeBoolean, TypeText, TypeBigint}
	for i, ct := range want {
		if got[i] != ct {
			t.Fatalf("column %q: expected %s, got %s", f.Columns[i], ct, got[i])
		}
	}
}

func TestInferSchemaAllEmptyColumnIsText(t *testing.T) {
	f := &Frame{
		Columns: []string{"empty"},
		Rows:    [][]string{{""}, {"  "}, {""}},
	}
	got := InferSchema(f)
	if got[0] != TypeText {
		t.Fatalf("all-empty column: expected text, got %s", got[0])
	}
}

func TestInferSchemaIntegerNarrowerThanFloat(t *testing.T) {
	f := &Frame{
		Columns: []string{"mixed"},
		Rows:    [][]string{{"1"}, {"2.5"}},
	}
	got := InferSchema(f)
	if got[0] != TypeDouble {
		t.Fatalf("mixed int/float column: expected double precision, got %s", got[0])
	}
}

func TestConvertCell(t *testing.T) {
	if v := ConvertCell("", TypeBigint); v != nil {
		t.Fatalf("empty cell: expected nil, got %v", v)
	}
	if v := ConvertCell("42", TypeBigint); v != int64(42) {
		t.Fatalf("bigint cell: expected int64 42, got %#v", v)
	}
	if v := ConvertCell("2.5", TypeDouble); v != 2.5 {
		t.Fatalf("double cell: expected 2.5, got %#v", v)
	}
	if v := ConvertCell("TRUE", TypeBoolean); v != true {
		t.Fatalf("boolean cell: expected true, got %#v", v)
	}
	if v := ConvertCell("hello", TypeText); v != "hello" {
		t.Fatalf("text cell: expected hello, got %#v", v)
	}
}
