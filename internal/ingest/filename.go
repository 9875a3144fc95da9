package ingest

import (
	"regexp"
	"strings"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
)

var identPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// NormalizeFileName lowercases the name and folds spaces, plus and hyphen to
// underscores. Every dot except the last one is folded too, so exactly one
// extension separator survives: "Sales Report.v2.csv" -> "sales_report_v2.csv".
// The transform is idempotent.
func NormalizeFileName(fileName string) string {
	name := strings.ToLower(fileName)
	name = strings.ReplaceAll(name, " ", "_")
	if n := strings.Count(name, "."); n > 1 {
		name = strings.Replace(name, ".", "_", n-1)
	}
	name = strings.ReplaceAll(name, "+", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}

// DeriveTableName turns a normalized file name into the physical table
// identifier by stripping the extension. Purely numeric identifiers are
// rejected (they cannot stand as unquoted SQL identifiers), as is anything
// that still contains characters outside [a-z0-9_] after normalization.
// The identifier ends up in generated query text, so the allow-list is
// strict by construction.
func DeriveTableName(normalizedFileName string) (string, error) {
	tableName, _, _ := strings.Cut(normalizedFileName, ".")
	if tableName == "" {
		return "", apperr.Validation("file name yields an empty table name")
	}
	if isNumeric(tableName) {
		return "", apperr.Validation("file name cannot be pure numbers")
	}
	if !identPattern.MatchString(tableName) {
		return "", apperr.Newf(apperr.KindValidation, "file name yields an invalid table name: %q", tableName)
	}
	return tableName, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FileSuffix returns the lowercased extension of the (normalized) name,
// without the dot.
func FileSuffix(fileName string) string {
	parts := strings.Split(fileName, ".")
	return strings.ToLower(parts[len(parts)-1])
}
