package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/datahub-backend/internal/access"
	tablerepo "github.com/yungbote/datahub-backend/internal/data/repos/table"
	userrepo "github.com/yungbote/datahub-backend/internal/data/repos/user"
	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/ingest"
	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
	"github.com/yungbote/datahub-backend/internal/query"
)

// TableCreate is the manual registry-row input; ingestion writes its own
// rows through the pipeline instead.
type TableCreate struct {
	TableName        string
	DataType         string
	Units            datatypes.JSON
	OriginalFileName string
	AddedBy          string
	NumOfRows        int64
	Instructions     datatypes.JSON
	AdditionalInfo   datatypes.JSON
}

// TableUpdate carries only the enrichment fields the caller wants changed.
type TableUpdate struct {
	DataType       *string
	Units          datatypes.JSON
	Instructions   datatypes.JSON
	AdditionalInfo datatypes.JSON
}

type TableService interface {
	Ingest(ctx context.Context, principal *domain.User, fileName string, data []byte) (*domain.Table, error)
	DropByName(ctx context.Context, principal *domain.User, tableName string) error
	Create(ctx context.Context, principal *domain.User, in TableCreate) (*domain.Table, error)
	Update(ctx context.Context, principal *domain.User, tableID uuid.UUID, in TableUpdate) (*domain.Table, error)
	Delete(ctx context.Context, principal *domain.User, tableID uuid.UUID) (*domain.Table, error)
	ListAll(ctx context.Context, skip, limit int) ([]*domain.Table, error)
	ListOwned(ctx context.Context, principal *domain.User, skip, limit int) ([]*domain.Table, error)
	ListShared(ctx context.Context, principal *domain.User, skip, limit int) ([]*domain.Table, error)
	Share(ctx context.Context, principal *domain.User, tableID uuid.UUID, userEmail string) error
	Unshare(ctx context.Context, principal *domain.User, tableID, userID uuid.UUID) error
	SharedUsers(ctx context.Context, principal *domain.User, tableID uuid.UUID, skip, limit int) ([]*domain.User, error)
	Query(ctx context.Context, principal *domain.User, tableName string, attrNames []string, skip, limit int) ([]map[string]any, error)
	Count(ctx context.Context, principal *domain.User, tableName string) (int64, error)
	ColumnNames(ctx context.Context, principal *domain.User, tableName string) ([]string, error)
}

type tableService struct {
	log       *logger.Logger
	tableRepo tablerepo.TableRepo
	userRepo  userrepo.UserRepo
	pipeline  *ingest.Pipeline
	engine    *query.Engine
}

func NewTableService(
	baseLog *logger.Logger,
	tableRepo tablerepo.TableRepo,
	userRepo userrepo.UserRepo,
	pipeline *ingest.Pipeline,
	engine *query.Engine,
) TableService {
	serviceLog := baseLog.With("service", "TableService")
	return &tableService{
		log:       serviceLog,
		tableRepo: tableRepo,
		userRepo:  userRepo,
		pipeline:  pipeline,
		engine:    engine,
	}
}

func (ts *tableService) resolve(ctx context.Context, principal *domain.User, table *domain.Table, policy access.Policy) error {
	sharedIDs, err := ts.userRepo.SharedTableIDs(ctx, nil, principal.ID)
	if err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to load shared table grants", err)
	}
	_, err = access.Resolve(access.NewPrincipal(principal, sharedIDs), table, policy)
	return err
}

func (ts *tableService) resolveByID(ctx context.Context, principal *domain.User, tableID uuid.UUID, policy access.Policy) (*domain.Table, error) {
	table, err := ts.tableRepo.GetByID(ctx, nil, tableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no table found with the id provided")
		}
		return nil, apperr.Wrap(apperr.KindBackend, "failed to load table", err)
	}
	if err := ts.resolve(ctx, principal, table, policy); err != nil {
		return nil, err
	}
	return table, nil
}

func (ts *tableService) resolveByName(ctx context.Context, principal *domain.User, tableName string, policy access.Policy) (*domain.Table, error) {
	table, err := ts.tableRepo.GetByName(ctx, nil, tableName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no corresponding table found")
		}
		return nil, apperr.Wrap(apperr.KindBackend, "failed to load table", err)
	}
	if err := ts.resolve(ctx, principal, table, policy); err != nil {
		return nil, err
	}
	return table, nil
}

// Ingest materializes an uploaded file as a physical table owned by the
// principal and returns its registry row.
func (ts *tableService) Ingest(ctx context.Context, principal *domain.User, fileName string, data []byte) (*domain.Table, error) {
	return ts.pipeline.Run(ctx, principal, fileName, data)
}

// DropByName removes the physical table and its registry row.
func (ts *tableService) DropByName(ctx context.Context, principal *domain.User, tableName string) error {
	table, err := ts.resolveByName(ctx, principal, tableName, access.Strict)
	if err != nil {
		return err
	}
	if err := ts.tableRepo.Delete(ctx, nil, table.ID); err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to delete table registry row", err)
	}
	if err := ts.pipeline.DropPhysical(ctx, table.Name); err != nil {
		return err
	}
	ts.log.Info("Dropped table", "table_name", tableName)
	return nil
}

func (ts *tableService) Create(ctx context.Context, principal *domain.User, in TableCreate) (*domain.Table, error) {
	if in.TableName == "" {
		return nil, apperr.Validation("table_name is required")
	}
	exists, err := ts.tableRepo.NameExists(ctx, nil, in.TableName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to check table name uniqueness", err)
	}
	if exists {
		return nil, apperr.Newf(apperr.KindConflict,
			"table with table_name: %s already exists in the database, try renaming the file", in.TableName)
	}
	table := &domain.Table{
		Name:             in.TableName,
		DataType:         in.DataType,
		Units:            in.Units,
		OriginalFileName: in.OriginalFileName,
		AddedBy:          in.AddedBy,
		NumOfRows:        in.NumOfRows,
		Instructions:     in.Instructions,
		AdditionalInfo:   in.AdditionalInfo,
		OwnerID:          &principal.ID,
	}
	if table.AddedBy == "" {
		table.AddedBy = principal.Email
	}
	created, err := ts.tableRepo.Create(ctx, nil, table)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to create table registry row", err)
	}
	return created, nil
}

func (ts *tableService) Update(ctx context.Context, principal *domain.User, tableID uuid.UUID, in TableUpdate) (*domain.Table, error) {
	if _, err := ts.resolveByID(ctx, principal, tableID, access.Strict); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.DataType != nil {
		fields["data_type"] = *in.DataType
	}
	if in.Units != nil {
		fields["units"] = in.Units
	}
	if in.Instructions != nil {
		fields["instructions"] = in.Instructions
	}
	if in.AdditionalInfo != nil {
		fields["additional_information"] = in.AdditionalInfo
	}
	if len(fields) > 0 {
		if err := ts.tableRepo.Update(ctx, nil, tableID, fields); err != nil {
			return nil, apperr.Wrap(apperr.KindBackend, "failed to update table", err)
		}
	}
	table, err := ts.tableRepo.GetByID(ctx, nil, tableID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to reload table", err)
	}
	return table, nil
}

// Delete removes the registry row and then drops the physical table.
func (ts *tableService) Delete(ctx context.Context, principal *domain.User, tableID uuid.UUID) (*domain.Table, error) {
	table, err := ts.resolveByID(ctx, principal, tableID, access.Strict)
	if err != nil {
		return nil, err
	}
	if err := ts.tableRepo.Delete(ctx, nil, tableID); err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to delete table registry row", err)
	}
	if err := ts.pipeline.DropPhysical(ctx, table.Name); err != nil {
		return nil, err
	}
	return table, nil
}

func (ts *tableService) ListAll(ctx context.Context, skip, limit int) ([]*domain.Table, error) {
	tables, err := ts.tableRepo.List(ctx, nil, skip, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to list tables", err)
	}
	return tables, nil
}

func (ts *tableService) ListOwned(ctx context.Context, principal *domain.User, skip, limit int) ([]*domain.Table, error) {
	tables, err := ts.tableRepo.ListByOwner(ctx, nil, principal.ID, skip, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to list owned tables", err)
	}
	return tables, nil
}

func (ts *tableService) ListShared(ctx context.Context, principal *domain.User, skip, limit int) ([]*domain.Table, error) {
	tables, err := ts.tableRepo.ListSharedWith(ctx, nil, principal.ID, skip, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to list shared tables", err)
	}
	return tables, nil
}

func (ts *tableService) Share(ctx context.Context, principal *domain.User, tableID uuid.UUID, userEmail string) error {
	table, err := ts.resolveByID(ctx, principal, tableID, access.Strict)
	if err != nil {
		return err
	}
	grantee, err := ts.userRepo.GetByEmail(ctx, nil, userEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("no user found with the email provided")
		}
		return apperr.Wrap(apperr.KindBackend, "failed to load user", err)
	}
	if table.OwnerID != nil && grantee.ID == *table.OwnerID {
		return apperr.Validation("cannot share his own table to himself")
	}
	if err := ts.tableRepo.Share(ctx, nil, tableID, grantee.ID); err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to share table", err)
	}
	ts.log.Info("Shared table", "table_id", tableID, "user_id", grantee.ID)
	return nil
}

func (ts *tableService) Unshare(ctx context.Context, principal *domain.User, tableID, userID uuid.UUID) error {
	if _, err := ts.resolveByID(ctx, principal, tableID, access.Strict); err != nil {
		return err
	}
	if _, err := ts.userRepo.GetByID(ctx, nil, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("no user found with the id provided")
		}
		return apperr.Wrap(apperr.KindBackend, "failed to load user", err)
	}
	if err := ts.tableRepo.Unshare(ctx, nil, tableID, userID); err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to stop sharing table", err)
	}
	return nil
}

func (ts *tableService) SharedUsers(ctx context.Context, principal *domain.User, tableID uuid.UUID, skip, limit int) ([]*domain.User, error) {
	if _, err := ts.resolveByID(ctx, principal, tableID, access.Strict); err != nil {
		return nil, err
	}
	users, err := ts.tableRepo.ListSharedUsers(ctx, nil, tableID, skip, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to list shared users", err)
	}
	return users, nil
}

// Query reads rows from the physical table after a shared-read resolution
// on its registry row.
func (ts *tableService) Query(ctx context.Context, principal *domain.User, tableName string, attrNames []string, skip, limit int) ([]map[string]any, error) {
	table, err := ts.resolveByName(ctx, principal, tableName, access.SharedRead)
	if err != nil {
		return nil, err
	}
	return ts.engine.Select(ctx, table.Name, attrNames, skip, limit)
}

func (ts *tableService) Count(ctx context.Context, principal *domain.User, tableName string) (int64, error) {
	table, err := ts.resolveByName(ctx, principal, tableName, access.SharedRead)
	if err != nil {
		return 0, err
	}
	return ts.engine.Count(ctx, table.Name)
}

func (ts *tableService) ColumnNames(ctx context.Context, principal *domain.User, tableName string) ([]string, error) {
	table, err := ts.resolveByName(ctx, principal, tableName, access.SharedRead)
	if err != nil {
		return nil, err
	}
	columns, err := ts.engine.Columns(ctx, table.Name)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return names, nil
}
