// internal/models/store.go
package models

import (
	"github.com/google/uuid"
)

type Store struct {
	BaseModel
	OwnerID     uuid.UUID   `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name        string      `json:"name" gorm:"size:100;not null"`
	Slug        string      `json:"slug" gorm:"uniqueIndex;size:120;not null"`
	Description string      `json:"description" gorm:"type:text"`
	LogoURL     string      `json:"logo_url" gorm:"size:512"`
	Email       string      `json:"email" gorm:"size:255"`
	Phone       string      `json:"phone" gorm:"size:16"`
	Address     string      `json:"address" gorm:"size:255"`
	Status      StoreStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`

	// Relationships
	Owner    User            `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Listings []SellerProduct `json:"listings,omitempty" gorm:"foreignKey:StoreID"`
}
