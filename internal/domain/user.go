package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Organization   string    `gorm:"index;column:organization" json:"organization"`
	HashedPassword string    `gorm:"not null;column:hashed_password" json:"-"`
	IsActive       bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	IsSuperuser    bool      `gorm:"not null;default:false;column:is_superuser" json:"is_superuser"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updated_at"`

	// Buckets/Tables created by the user himself.
	Buckets []*Bucket `gorm:"foreignKey:OwnerID" json:"-"`
	Tables  []*Table  `gorm:"foreignKey:OwnerID" json:"-"`

	// Buckets/Tables shared to the user by other users. Membership only,
	// never ownership.
	SharedBuckets []*Bucket `gorm:"many2many:user_bucket_relation;constraint:OnDelete:CASCADE" json:"-"`
	SharedTables  []*Table  `gorm:"many2many:user_table_relation;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "user"
}
