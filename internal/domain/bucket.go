package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bucket is the registry row for a physical object-storage container of the
// same name. Deleting the owner keeps the row with a null owner.
type Bucket struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BucketName string     `gorm:"not null;column:bucket_name" json:"bucket_name"`
	OwnerID    *uuid.UUID `gorm:"type:uuid;index;column:owner_id" json:"owner_id"`
	Owner      *User      `gorm:"constraint:OnDelete:SET NULL;foreignKey:OwnerID;references:ID" json:"-"`
	CreatedAt  time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:now()" json:"updated_at"`

	Metadata *BucketMetadata `gorm:"foreignKey:BucketID" json:"metadata,omitempty"`

	SharedUsers []*User `gorm:"many2many:user_bucket_relation;constraint:OnDelete:CASCADE" json:"-"`
}

func (Bucket) TableName() string {
	return "bucket"
}
