package model

import (
	"time"
)

// Tenant represents an organisation sharing the schema with others.
// All tenant-owned rows are isolated by their tenant_id column.
type Tenant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Domain    string    `json:"domain,omitempty" gorm:"type:varchar(100)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
