package ingest

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
)

const insertBatchSize = 500

// Materializer owns the physical side of ingestion: it turns a parsed frame
// into a real relational table. Identifiers reaching this layer have already
// passed the [a-z0-9_] allow-list, and are still quoted in every statement.
type Materializer struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMaterializer(db *gorm.DB, baseLog *logger.Logger) *Materializer {
	return &Materializer{db: db, log: baseLog.With("component", "Materializer")}
}

// Materialize creates the physical table and loads the frame into it. The
// load is two-phase: rows are bulk-inserted with an explicit surrogate id
// (1-based, source row order) first, and the primary key is attached
// afterwards, since the bulk path cannot carry a pre-declared generated key.
// On any failure the partly built table is dropped before returning.
func (m *Materializer) Materialize(ctx context.Context, tableName string, frame *Frame, schema []ColumnType) error {
	if err := m.createTable(ctx, tableName, frame.Columns, schema); err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to create physical table", err)
	}
	if err := m.bulkLoad(ctx, tableName, frame, schema); err != nil {
		m.compensate(ctx, tableName)
		return apperr.Wrap(apperr.KindBackend, "failed to load rows into physical table", err)
	}
	if err := m.attachPrimaryKey(ctx, tableName); err != nil {
		m.compensate(ctx, tableName)
		return apperr.Wrap(apperr.KindBackend, "failed to attach primary key", err)
	}
	return nil
}

func (m *Materializer) createTable(ctx context.Context, tableName string, columns []string, schema []ColumnType) error {
	defs := make([]string, 0, len(columns)+1)
	defs = append(defs, `"id" bigint NOT NULL`)
	for i, col := range columns {
		defs = append(defs, fmt.Sprintf("%q %s", col, schema[i]))
	}
	stmt := fmt.Sprintf("CREATE TABLE %q (%s)", tableName, strings.Join(defs, ", "))
	return m.db.WithContext(ctx).Exec(stmt).Error
}

func (m *Materializer) bulkLoad(ctx context.Context, tableName string, frame *Frame, schema []ColumnType) error {
	if len(frame.Rows) == 0 {
		return nil
	}

	quoted := make([]string, 0, len(frame.Columns)+1)
	quoted = append(quoted, `"id"`)
	for _, col := range frame.Columns {
		quoted = append(quoted, fmt.Sprintf("%q", col))
	}
	colList := strings.Join(quoted, ", ")
	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(quoted)), ", ") + ")"

	for start := 0; start < len(frame.Rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(frame.Rows) {
			end = len(frame.Rows)
		}
		batch := frame.Rows[start:end]

		placeholders := make([]string, len(batch))
		args := make([]any, 0, len(batch)*len(quoted))
		for i, row := range batch {
			placeholders[i] = rowPlaceholder
			args = append(args, int64(start+i+1)) // surrogate key, 1-based
			for c, cell := range row {
				args = append(args, ConvertCell(cell, schema[c]))
			}
		}
		stmt := fmt.Sprintf("INSERT INTO %q (%s) VALUES %s", tableName, colList, strings.Join(placeholders, ", "))
		if err := m.db.WithContext(ctx).Exec(stmt, args...).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *Materializer) attachPrimaryKey(ctx context.Context, tableName string) error {
	stmt := fmt.Sprintf(`ALTER TABLE %q ADD PRIMARY KEY ("id")`, tableName)
	return m.db.WithContext(ctx).Exec(stmt).Error
}

// Drop removes the physical table. Used both by table deletion and as the
// compensation step when a later ingestion phase fails.
func (m *Materializer) Drop(ctx context.Context, tableName string) error {
	if !identPattern.MatchString(tableName) {
		return apperr.Newf(apperr.KindValidation, "invalid table identifier: %q", tableName)
	}
	stmt := fmt.Sprintf("DROP TABLE IF EXISTS %q", tableName)
	if err := m.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to drop physical table", err)
	}
	return nil
}

func (m *Materializer) compensate(ctx context.Context, tableName string) {
	if err := m.Drop(ctx, tableName); err != nil {
		m.log.Error("Failed to drop partially materialized table", "table_name", tableName, "error", err)
	}
}
