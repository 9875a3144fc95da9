package ingest

import (
	"context"

	"gorm.io/gorm"

	tablerepo "github.com/yungbote/datahub-backend/internal/data/repos/table"
	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
)

// Pipeline turns an uploaded tabular file into a physical table plus its
// registry row. All validation happens before any mutation; failures after
// materialization trigger a compensating drop so no half-ingested table
// lingers (a crash between the two steps can still leak one; there is no
// cross-engine transaction).
type Pipeline struct {
	db           *gorm.DB
	log          *logger.Logger
	tableRepo    tablerepo.TableRepo
	materializer *Materializer
}

func NewPipeline(db *gorm.DB, baseLog *logger.Logger, tableRepo tablerepo.TableRepo) *Pipeline {
	pipeLog := baseLog.With("component", "IngestPipeline")
	return &Pipeline{
		db:           db,
		log:          pipeLog,
		tableRepo:    tableRepo,
		materializer: NewMaterializer(db, baseLog),
	}
}

// Run executes the full ingestion sequence for an already authenticated
// principal and returns the created registry row.
func (p *Pipeline) Run(ctx context.Context, principal *domain.User, fileName string, data []byte) (*domain.Table, error) {
	normalized := NormalizeFileName(fileName)

	tableName, err := DeriveTableName(normalized)
	if err != nil {
		return nil, err
	}

	exists, err := p.tableRepo.NameExists(ctx, nil, tableName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to check table name uniqueness", err)
	}
	if exists {
		return nil, apperr.Newf(apperr.KindConflict,
			"table with table_name: %s already exists in the database, try renaming the file", tableName)
	}

	frame, err := Parse(normalized, data)
	if err != nil {
		return nil, err
	}
	if err := frame.NormalizeHeaders(); err != nil {
		return nil, err
	}

	schema := InferSchema(frame)
	if err := p.materializer.Materialize(ctx, tableName, frame, schema); err != nil {
		return nil, err
	}

	row := &domain.Table{
		Name:             tableName,
		OriginalFileName: fileName,
		AddedBy:          principal.Email,
		NumOfRows:        int64(len(frame.Rows)),
		OwnerID:          &principal.ID,
	}
	created, err := p.tableRepo.Create(ctx, nil, row)
	if err != nil {
		// The physical table exists but its registry row does not; drop it
		// rather than leave an unreachable table behind.
		if dropErr := p.materializer.Drop(ctx, tableName); dropErr != nil {
			p.log.Error("Failed to drop physical table after registry write failure",
				"table_name", tableName, "error", dropErr)
		}
		return nil, apperr.Wrap(apperr.KindBackend, "failed to create table registry row", err)
	}

	p.log.Info("Ingested file into physical table",
		"table_name", tableName, "num_of_rows", created.NumOfRows, "added_by", created.AddedBy)
	return created, nil
}

// DropPhysical removes the backing table for a registry row.
func (p *Pipeline) DropPhysical(ctx context.Context, tableName string) error {
	return p.materializer.Drop(ctx, tableName)
}
