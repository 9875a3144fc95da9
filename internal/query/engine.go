package query

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
)

var identPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Column is one attribute of a physical table as reported by the catalog.
type Column struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
}

// Engine reads physical tables that were materialized at ingestion time.
// Table and column names are dynamic, so every identifier is checked
// against the [a-z0-9_] allow-list and, for projections, against the live
// catalog before it is spliced into SQL text. Values always travel as
// bind arguments.
type Engine struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEngine(db *gorm.DB, baseLog *logger.Logger) *Engine {
	return &Engine{db: db, log: baseLog.With("component", "QueryEngine")}
}

// Columns describes the table's attributes in catalog order.
func (e *Engine) Columns(ctx context.Context, tableName string) ([]Column, error) {
	if !identPattern.MatchString(tableName) {
		return nil, apperr.Newf(apperr.KindValidation, "invalid table identifier: %q", tableName)
	}
	types, err := e.db.WithContext(ctx).Migrator().ColumnTypes(tableName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to describe table", err)
	}
	columns := make([]Column, 0, len(types))
	for _, ct := range types {
		columns = append(columns, Column{
			Name:     ct.Name(),
			DataType: strings.ToLower(ct.DatabaseTypeName()),
		})
	}
	return columns, nil
}

// Select reads rows from the table, ordered by the surrogate id so paging
// is stable. An empty attrNames means every column; otherwise each
// requested name must exist in the catalog, and a single unknown column
// fails the whole call rather than returning a partial projection.
func (e *Engine) Select(ctx context.Context, tableName string, attrNames []string, skip, limit int) ([]map[string]any, error) {
	catalog, err := e.Columns(ctx, tableName)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(catalog))
	for _, col := range catalog {
		known[col.Name] = struct{}{}
	}

	selected := attrNames
	if len(selected) == 0 {
		selected = make([]string, len(catalog))
		for i, col := range catalog {
			selected[i] = col.Name
		}
	} else {
		for _, name := range selected {
			if _, ok := known[name]; !ok {
				return nil, apperr.Newf(apperr.KindNotFound,
					"no corresponding attribute name: %s for the table", name)
			}
		}
	}

	quoted := make([]string, len(selected))
	for i, name := range selected {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	stmt := fmt.Sprintf(`SELECT %s FROM %q ORDER BY "id" OFFSET ? LIMIT ?`,
		strings.Join(quoted, ", "), tableName)

	rows, err := e.db.WithContext(ctx).Raw(stmt, skip, limit).Rows()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to query table", err)
	}
	defer rows.Close()

	results := []map[string]any{}
	values := make([]any, len(selected))
	pointers := make([]any, len(selected))
	for i := range values {
		pointers[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, apperr.Wrap(apperr.KindBackend, "failed to scan row", err)
		}
		record := make(map[string]any, len(selected))
		for i, name := range selected {
			record[name] = normalizeValue(values[i])
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to read rows", err)
	}
	return results, nil
}

// Count returns the table's row count.
func (e *Engine) Count(ctx context.Context, tableName string) (int64, error) {
	if !identPattern.MatchString(tableName) {
		return 0, apperr.Newf(apperr.KindValidation, "invalid table identifier: %q", tableName)
	}
	var count int64
	stmt := fmt.Sprintf(`SELECT count(*) FROM %q`, tableName)
	if err := e.db.WithContext(ctx).Raw(stmt).Scan(&count).Error; err != nil {
		return 0, apperr.Wrap(apperr.KindBackend, "failed to count rows", err)
	}
	return count, nil
}

// The pgx text protocol hands some column types back as raw bytes; those
// render as base64 once they hit JSON, so they are folded to strings here.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
