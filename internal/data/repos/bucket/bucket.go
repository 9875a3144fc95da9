package bucket

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
)

type BucketRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bucket *domain.Bucket) (*domain.Bucket, error)
	GetByID(ctx context.Context, tx *gorm.DB, bucketID uuid.UUID) (*domain.Bucket, error)
	List(ctx context.Context, tx *gorm.DB, skip, limit int) ([]*domain.Bucket, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, skip, limit int) ([]*domain.Bucket, error)
	ListSharedWith(ctx context.Context, tx *gorm.DB, userID uuid.UUID, skip, limit int) ([]*domain.Bucket, error)
	Update(ctx context.Context, tx *gorm.DB, bucketID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, bucketID uuid.UUID) error
	Share(ctx context.Context, tx *gorm.DB, bucketID, userID uuid.UUID) error
	Unshare(ctx context.Context, tx *gorm.DB, bucketID, userID uuid.UUID) error
	ListSharedUsers(ctx context.Context, tx *gorm.DB, bucketID uuid.UUID, skip, limit int) ([]*domain.User, error)
}

type bucketRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBucketRepo(db *gorm.DB, baseLog *logger.Logger) BucketRepo {
	repoLog := baseLog.With("repo", "BucketRepo")
	return &bucketRepo{db: db, log: repoLog}
}

func (br *bucketRepo) Create(ctx context.Context, tx *gorm.DB, bucket *domain.Bucket) (*domain.Bucket, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	if err := transaction.WithContext(ctx).Create(bucket).Error; err != nil {
		return nil, err
	}
	return bucket, nil
}

func (br *bucketRepo) GetByID(ctx context.Context, tx *gorm.DB, bucketID uuid.UUID) (*domain.Bucket, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var result domain.Bucket
	if err := transaction.WithContext(ctx).
		Where("id = ?", bucketID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (br *bucketRepo) List(ctx context.Context, tx *gorm.DB, skip, limit int) ([]*domain.Bucket, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*domain.Bucket
	if err := transaction.WithContext(ctx).
		Order("created_at").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (br *bucketRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, skip, limit int) ([]*domain.Bucket, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*domain.Bucket
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

func (br *bucketRepo) ListSharedWith(ctx context.Context, tx *gorm.DB, userID uuid.UUID, skip, limit int) ([]*domain.Bucket, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*domain.Bucket
	if err := transaction.WithContext(ctx).
		Joins(`JOIN user_bucket_relation ubr ON ubr.bucket_id = bucket.id`).
		Where("ubr.user_id = ?", userID).
		Order("bucket.created_at").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (br *bucketRepo) Update(ctx context.Context, tx *gorm.DB, bucketID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.Bucket{}).
		Where("id = ?", bucketID).
		Updates(fields).Error
}

func (br *bucketRepo) Delete(ctx context.Context, tx *gorm.DB, bucketID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", bucketID).
		Delete(&domain.Bucket{}).Error
}

// Share adds the user to the bucket's shared set. Re-sharing an existing
// grant is a no-op.
func (br *bucketRepo) Share(ctx context.Context, tx *gorm.DB, bucketID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	return transaction.WithContext(ctx).Exec(
		`INSERT INTO user_bucket_relation (user_id, bucket_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		userID, bucketID,
	).Error
}

// Unshare removes the grant; removing a grant that does not exist is a
// silent no-op.
func (br *bucketRepo) Unshare(ctx context.Context, tx *gorm.DB, bucketID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	return transaction.WithContext(ctx).Exec(
		`DELETE FROM user_bucket_relation WHERE user_id = ? AND bucket_id = ?`,
		userID, bucketID,
	).Error
}

func (br *bucketRepo) ListSharedUsers(ctx context.Context, tx *gorm.DB, bucketID uuid.UUID, skip, limit int) ([]*domain.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*domain.User
	if err := transaction.WithContext(ctx).
		Model(&domain.User{}).
		Joins(`JOIN user_bucket_relation ubr ON ubr.user_id = "user".id`).
		Where("ubr.bucket_id = ?", bucketID).
		Order(`"user".created_at`).
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
