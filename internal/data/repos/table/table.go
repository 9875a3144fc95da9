package table

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
)

type TableRepo interface {
	Create(ctx context.Context, tx *gorm.DB, table *domain.Table) (*domain.Table, error)
	GetByID(ctx context.Context, tx *gorm.DB, tableID uuid.UUID) (*domain.Table, error)
	GetByName(ctx context.Context, tx *gorm.DB, tableName string) (*domain.Table, error)
	NameExists(ctx context.Context, tx *gorm.DB, tableName string) (bool, error)
	List(ctx context.Context, tx *gorm.DB, skip, limit int) ([]*domain.Table, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, skip, limit int) ([]*domain.Table, error)
	ListSharedWith(ctx context.Context, tx *gorm.DB, userID uuid.UUID, skip, limit int) ([]*domain.Table, error)
	Update(ctx context.Context, tx *gorm.DB, tableID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, tableID uuid.UUID) error
	Share(ctx context.Context, tx *gorm.DB, tableID, userID uuid.UUID) error
	Unshare(ctx context.Context, tx *gorm.DB, tableID, userID uuid.UUID) error
	ListSharedUsers(ctx context.Context, tx *gorm.DB, tableID uuid.UUID, skip, limit int) ([]*domain.User, error)
}

type tableRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTableRepo(db *gorm.DB, baseLog *logger.Logger) TableRepo {
	repoLog := baseLog.With("repo", "TableRepo")
	return &tableRepo{db: db, log: repoLog}
}

func (tr *tableRepo) Create(ctx context.Context, tx *gorm.DB, table *domain.Table) (*domain.Table, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Create(table).Error; err != nil {
		return nil, err
	}
	return table, nil
}

func (tr *tableRepo) GetByID(ctx context.Context, tx *gorm.DB, tableID uuid.UUID) (*domain.Table, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var result domain.Table
	if err := transaction.WithContext(ctx).
		Where("id = ?", tableID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *tableRepo) GetByName(ctx context.Context, tx *gorm.DB, tableName string) (*domain.Table, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var result domain.Table
	if err := transaction.WithContext(ctx).
		Where("table_name = ?", tableName).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *tableRepo) NameExists(ctx context.Context, tx *gorm.DB, tableName string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Table{}).
		Where("table_name = ?", tableName).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (tr *tableRepo) List(ctx context.Context, tx *gorm.DB, skip, limit int) ([]*domain.Table, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*domain.Table
	if err := transaction.WithContext(ctx).
		Order("created_at").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tableRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, skip, limit int) ([]*domain.Table, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*domain.Table
	if err := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tableRepo) ListSharedWith(ctx context.Context, tx *gorm.DB, userID uuid.UUID, skip, limit int) ([]*domain.Table, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*domain.Table
	if err := transaction.WithContext(ctx).
		Joins(`JOIN user_table_relation utr ON utr.table_id = table_registry.id`).
		Where("utr.user_id = ?", userID).
		Order("table_registry.created_at").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tableRepo) Update(ctx context.Context, tx *gorm.DB, tableID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.Table{}).
		Where("id = ?", tableID).
		Updates(fields).Error
}

func (tr *tableRepo) Delete(ctx context.Context, tx *gorm.DB, tableID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", tableID).
		Delete(&domain.Table{}).Error
}

func (tr *tableRepo) Share(ctx context.Context, tx *gorm.DB, tableID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	return transaction.WithContext(ctx).Exec(
		`INSERT INTO user_table_relation (user_id, table_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		userID, tableID,
	).Error
}

func (tr *tableRepo) Unshare(ctx context.Context, tx *gorm.DB, tableID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	return transaction.WithContext(ctx).Exec(
		`DELETE FROM user_table_relation WHERE user_id = ? AND table_id = ?`,
		userID, tableID,
	).Error
}

func (tr *tableRepo) ListSharedUsers(ctx context.Context, tx *gorm.DB, tableID uuid.UUID, skip, limit int) ([]*domain.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*domain.User
	if err := transaction.WithContext(ctx).
		Model(&domain.User{}).
		Joins(`JOIN user_table_relation utr ON utr.user_id = "user".id`).
		Where("utr.table_id = ?", tableID).
		Order(`"user".created_at`).
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
