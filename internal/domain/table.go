package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Table is the registry row for a physical relational table materialized by
// the ingestion pipeline. The physical table's row schema is discovered from
// the uploaded file, never declared ahead of time.
type Table struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name             string         `gorm:"uniqueIndex;not null;column:table_name" json:"table_name"`
	DataType         string         `gorm:"column:data_type" json:"data_type"`
	Units            datatypes.JSON `gorm:"column:units" json:"units"`
	OriginalFileName string         `gorm:"index;column:original_file_name" json:"original_file_name"`
	AddedBy          string         `gorm:"index;column:added_by" json:"added_by"`
	NumOfRows        int64          `gorm:"column:num_of_rows" json:"num_of_rows"`
	Instructions     datatypes.JSON `gorm:"column:instructions" json:"instructions"`
	AdditionalInfo   datatypes.JSON `gorm:"column:additional_information" json:"additional_information"`
	OwnerID          *uuid.UUID     `gorm:"type:uuid;index;column:owner_id" json:"owner_id"`
	Owner            *User          `gorm:"constraint:OnDelete:SET NULL;foreignKey:OwnerID;references:ID" json:"-"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`

	SharedUsers []*User `gorm:"many2many:user_table_relation;constraint:OnDelete:CASCADE" json:"-"`
}

func (Table) TableName() string {
	return "table_registry"
}
