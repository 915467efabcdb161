// internal/models/admin.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// SellerApplication is a buyer's request for the seller role. An admin
// reviews it and approval switches the account role.
type SellerApplication struct {
	BaseModel
	UserID     uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	Message    string       `json:"message" gorm:"type:text"`
	Status     ReviewStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	AdminNote  string       `json:"admin_note,omitempty" gorm:"type:text"`
	ReviewedBy *uuid.UUID   `json:"reviewed_by" gorm:"type:uuid"`
	ReviewedAt *time.Time   `json:"reviewed_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
