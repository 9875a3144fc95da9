package ingest

import (
	"strings"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
)

// Frame is a fully buffered tabular payload: an ordered header row plus
// string cells, exactly as parsed from the uploaded file.
type Frame struct {
	Columns []string
	Rows    [][]string
}

var headerFolds = strings.NewReplacer(
	" ", "_",
	"+", "_",
	".", "_",
	",", "_",
	"-", "_",
)

// NormalizeHeaders lowercases every column header and folds spaces, plus,
// dot, comma and hyphen to underscores. A column literally named "id" (any
// casing) is rejected: the pipeline injects its own surrogate key under that
// name. Header folding is a wider rule set than file names: commas appear
// in spreadsheet headers but never survive in file names that reach us.
func (f *Frame) NormalizeHeaders() error {
	normalized := make([]string, len(f.Columns))
	for i, col := range f.Columns {
		lowered := strings.ToLower(col)
		if lowered == "id" {
			return apperr.Validation("the original file cannot contain columns named id, Id, iD or ID")
		}
		name := headerFolds.Replace(lowered)
		if name == "" || !identPattern.MatchString(name) {
			return apperr.Newf(apperr.KindValidation, "column %q yields an invalid identifier", col)
		}
		normalized[i] = name
	}
	seen := make(map[string]struct{}, len(normalized))
	for _, name := range normalized {
		if _, dup := seen[name]; dup {
			return apperr.Newf(apperr.KindValidation, "column %q appears more than once after normalization", name)
		}
		seen[name] = struct{}{}
	}
	f.Columns = normalized
	return nil
}
