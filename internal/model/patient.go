package model

import (
	"time"
)

// Patient is a tenant-owned medical record. Create-and-list only;
// there is no update or delete path.
type Patient struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TenantID    uint      `json:"tenant_id" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	DateOfBirth string    `json:"date_of_birth,omitempty" gorm:"type:varchar(10)"`
	Notes       string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Tenant Tenant `json:"-" gorm:"foreignKey:TenantID"`
}
