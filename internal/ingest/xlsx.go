package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"sort"
	"strings"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
)

// Minimal OOXML workbook reader: shared strings plus the first worksheet,
// which is all a tabular upload carries. Cells are returned as strings and
// typed later by schema inference.

type xlsxSst struct {
	Items []xlsxSi `xml:"si"`
}

type xlsxSi struct {
	T    string   `xml:"t"`
	Runs []string `xml:"r>t"`
}

func (si xlsxSi) text() string {
	if len(si.Runs) > 0 {
		return strings.Join(si.Runs, "")
	}
	return si.T
}

type xlsxWorksheet struct {
	Rows []xlsxRow `xml:"sheetData>row"`
}

type xlsxRow struct {
	Cells []xlsxCell `xml:"c"`
}

type xlsxCell struct {
	Ref    string `xml:"r,attr"`
	Type   string `xml:"t,attr"`
	Value  string `xml:"v"`
	Inline string `xml:"is>t"`
}

func parseXLSX(data []byte) (*Frame, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "failed to open workbook archive", err)
	}

	shared, err := readSharedStrings(zr)
	if err != nil {
		return nil, err
	}

	sheetName := firstWorksheetName(zr)
	if sheetName == "" {
		return nil, apperr.Validation("workbook contains no worksheets")
	}
	body, err := readZipFile(zr, sheetName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "failed to read worksheet", err)
	}

	var sheet xlsxWorksheet
	if err := xml.Unmarshal(body, &sheet); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "failed to parse worksheet", err)
	}
	if len(sheet.Rows) == 0 {
		return nil, apperr.Validation("file contains no header row")
	}

	grid := make([][]string, 0, len(sheet.Rows))
	width := 0
	for _, row := range sheet.Rows {
		cells := expandRow(row, shared)
		if len(cells) > width {
			width = len(cells)
		}
		grid = append(grid, cells)
	}
	if width == 0 {
		return nil, apperr.Validation("file contains no header row")
	}

	frame := &Frame{Columns: padRow(grid[0], width)}
	for _, row := range grid[1:] {
		frame.Rows = append(frame.Rows, padRow(row, width))
	}
	return frame, nil
}

func readSharedStrings(zr *zip.Reader) ([]string, error) {
	body, err := readZipFile(zr, "xl/sharedStrings.xml")
	if err != nil {
		// Workbooks with purely numeric content carry no shared strings.
		return nil, nil
	}
	var sst xlsxSst
	if err := xml.Unmarshal(body, &sst); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "failed to parse shared strings", err)
	}
	out := make([]string, len(sst.Items))
	for i, si := range sst.Items {
		out[i] = si.text()
	}
	return out, nil
}

func firstWorksheetName(zr *zip.Reader) string {
	var names []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/sheet") && strings.HasSuffix(f.Name, ".xml") {
			names = append(names, f.Name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, io.ErrUnexpectedEOF
}

// expandRow places each cell at the column position encoded in its
// reference (e.g. "C3" -> index 2), so sparse rows keep their alignment.
func expandRow(row xlsxRow, shared []string) []string {
	cells := []string{}
	for i, c := range row.Cells {
		idx := columnIndex(c.Ref)
		if idx < 0 {
			idx = i
		}
		for len(cells) <= idx {
			cells = append(cells, "")
		}
		cells[idx] = cellValue(c, shared)
	}
	return cells
}

func columnIndex(ref string) int {
	idx := 0
	seen := false
	for _, r := range ref {
		if r < 'A' || r > 'Z' {
			break
		}
		idx = idx*26 + int(r-'A') + 1
		seen = true
	}
	if !seen {
		return -1
	}
	return idx - 1
}

func cellValue(c xlsxCell, shared []string) string {
	switch c.Type {
	case "s":
		i := 0
		for _, r := range c.Value {
			if r < '0' || r > '9' {
				return c.Value
			}
			i = i*10 + int(r-'0')
		}
		if i < len(shared) {
			return shared[i]
		}
		return ""
	case "inlineStr":
		return c.Inline
	case "b":
		if c.Value == "1" {
			return "true"
		}
		return "false"
	default:
		return c.Value
	}
}
