package ingest

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
)

// Parse dispatches on the normalized file name's suffix. Input is fully
// buffered by the caller; streaming parse is out of scope.
func Parse(normalizedFileName string, data []byte) (*Frame, error) {
	switch FileSuffix(normalizedFileName) {
	case "csv":
		return parseCSV(data)
	case "xlsx", "xlsm":
		return parseXLSX(data)
	default:
		return nil, apperr.Validation("file type not supported")
	}
}

func parseCSV(data []byte) (*Frame, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperr.Validation("file contains no header row")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "failed to parse csv header", err)
	}

	frame := &Frame{Columns: header}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, "failed to parse csv row", err)
		}
		// A row wider than the header carries cells no column can hold;
		// dropping them would lose user data, so the file is rejected.
		if len(record) > len(header) {
			return nil, apperr.Newf(apperr.KindValidation,
				"row %d has %d fields, expected %d", line, len(record), len(header))
		}
		frame.Rows = append(frame.Rows, padRow(record, len(header)))
	}
	return frame, nil
}

// padRow fills missing trailing cells with empty strings so short rows
// still line up with the inferred schema.
func padRow(record []string, width int) []string {
	if len(record) == width {
		return record
	}
	row := make([]string, width)
	copy(row, record)
	return row
}
