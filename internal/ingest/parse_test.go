package ingest

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
)

func TestParseCSV(t *testing.T) {
	data := []byte("Region,Total Sales\nnorth,100\nsouth,250\n")
	frame, err := Parse("sales.csv", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(frame.Columns) != 2 || frame.Columns[0] != "Region" {
		t.Fatalf("unexpected columns: %v", frame.Columns)
	}
	if len(frame.Rows) != 2 || frame.Rows[1][1] != "250" {
		t.Fatalf("unexpected rows: %v", frame.Rows)
	}
}

func TestParseCSVShortRowPadded(t *testing.T) {
	data := []byte("a,b,c\n1,2\n")
	frame, err := Parse("ragged.csv", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(frame.Rows) != 1 || len(frame.Rows[0]) != 3 {
		t.Fatalf("unexpected rows: %v", frame.Rows)
	}
	if frame.Rows[0][2] != "" {
		t.Fatalf("short row should be padded, got %q", frame.Rows[0][2])
	}
}

func TestParseCSVOverWideRowRejected(t *testing.T) {
	data := []byte("a,b\n1,2,3\n")
	_, err := Parse("wide.csv", data)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for extra fields, got %v", err)
	}
}

func TestParseCSVEmptyFile(t *testing.T) {
	_, err := Parse("empty.csv", nil)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseUnsupportedType(t *testing.T) {
	_, err := Parse("report.pdf", []byte("%PDF"))
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() == "" || !bytes.Contains([]byte(err.Error()), []byte("file type not supported")) {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestParseXLSX(t *testing.T) {
	data := buildWorkbook(t, map[string]string{
		"xl/sharedStrings.xml": `<?xml version="1.0"?>
<sst><si><t>Region</t></si><si><t>Total Sales</t></si><si><t>north</t></si><si><r><t>so</t></r><r><t>uth</t></r></si></sst>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
<row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>100</v></c></row>
<row r="3"><c r="A3" t="s"><v>3</v></c><c r="B3"><v>250</v></c></row>
</sheetData></worksheet>`,
	})
	frame, err := Parse("sales.xlsx", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if frame.Columns[0] != "Region" || frame.Columns[1] != "Total Sales" {
		t.Fatalf("unexpected columns: %v", frame.Columns)
	}
	if len(frame.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(frame.Rows))
	}
	if frame.Rows[1][0] != "south" {
		t.Fatalf("shared string runs should concatenate, got %q", frame.Rows[1][0])
	}
	if frame.Rows[0][1] != "100" {
		t.Fatalf("numeric cell: expected 100, got %q", frame.Rows[0][1])
	}
}

func TestParseXLSXSparseRowAlignment(t *testing.T) {
	data := buildWorkbook(t, map[string]string{
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet><sheetData>
<row r="1"><c r="A1" t="inlineStr"><is><t>a</t></is></c><c r="B1" t="inlineStr"><is><t>b</t></is></c><c r="C1" t="inlineStr"><is><t>c</t></is></c></row>
<row r="2"><c r="C2"><v>9</v></c></row>
</sheetData></worksheet>`,
	})
	frame, err := Parse("sparse.xlsx", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	row := frame.Rows[0]
	if row[0] != "" || row[1] != "" || row[2] != "9" {
		t.Fatalf("sparse row misaligned: %v", row)
	}
}

func TestParseXLSXBooleanCells(t *testing.T) {
	data := buildWorkbook(t, map[string]string{
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet><sheetData>
<row r="1"><c r="A1" t="inlineStr"><is><t>flag</t></is></c></row>
<row r="2"><c r="A2" t="b"><v>1</v></c></row>
<row r="3"><c r="A3" t="b"><v>0</v></c></row>
</sheetData></worksheet>`,
	})
	frame, err := Parse("flags.xlsx", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if frame.Rows[0][0] != "true" || frame.Rows[1][0] != "false" {
		t.Fatalf("boolean cells: %v", frame.Rows)
	}
}

func TestParseXLSXNotAnArchive(t *testing.T) {
	_, err := Parse("broken.xlsx", []byte("not a zip"))
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func buildWorkbook(tb testing.TB, files map[string]string) []byte {
	tb.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			tb.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			tb.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("close workbook: %v", err)
	}
	return buf.Bytes()
}
