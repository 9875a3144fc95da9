package bucket

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
)

type BucketMetadataRepo interface {
	Create(ctx context.Context, tx *gorm.DB, metadata *domain.BucketMetadata) (*domain.BucketMetadata, error)
	GetByID(ctx context.Context, tx *gorm.DB, metadataID uuid.UUID) (*domain.BucketMetadata, error)
	GetByBucketID(ctx context.Context, tx *gorm.DB, bucketID uuid.UUID) (*domain.BucketMetadata, error)
	Update(ctx context.Context, tx *gorm.DB, metadataID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, metadataID uuid.UUID) error
}

type bucketMetadataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBucketMetadataRepo(db *gorm.DB, baseLog *logger.Logger) BucketMetadataRepo {
	repoLog := baseLog.With("repo", "BucketMetadataRepo")
	return &bucketMetadataRepo{db: db, log: repoLog}
}

func (mr *bucketMetadataRepo) Create(ctx context.Context, tx *gorm.DB, metadata *domain.BucketMetadata) (*domain.BucketMetadata, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if err := transaction.WithContext(ctx).Create(metadata).Error; err != nil {
		return nil, err
	}
	return metadata, nil
}

func (mr *bucketMetadataRepo) GetByID(ctx context.Context, tx *gorm.DB, metadataID uuid.UUID) (*domain.BucketMetadata, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var result domain.BucketMetadata
	if err := transaction.WithContext(ctx).
		Where("id = ?", metadataID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *bucketMetadataRepo) GetByBucketID(ctx context.Context, tx *gorm.DB, bucketID uuid.UUID) (*domain.BucketMetadata, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var result domain.BucketMetadata
	if err := transaction.WithContext(ctx).
		Where("bucket_id = ?", bucketID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *bucketMetadataRepo) Update(ctx context.Context, tx *gorm.DB, metadataID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.BucketMetadata{}).
		Where("id = ?", metadataID).
		Updates(fields).Error
}

func (mr *bucketMetadataRepo) Delete(ctx context.Context, tx *gorm.DB, metadataID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", metadataID).
		Delete(&domain.BucketMetadata{}).Error
}
