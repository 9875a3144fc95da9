package domain

import (
	"time"

	"github.com/google/uuid"
)

// BucketMetadata holds the optional descriptive record attached to a bucket.
// At most one per bucket; removed together with its bucket.
type BucketMetadata struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Author      string    `gorm:"not null;column:author" json:"author"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	BucketID    uuid.UUID `gorm:"type:uuid;index;not null;column:bucket_id" json:"bucket_id"`
	Bucket      *Bucket   `gorm:"constraint:OnDelete:CASCADE;foreignKey:BucketID;references:ID" json:"-"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (BucketMetadata) TableName() string {
	return "bucket_metadata"
}
