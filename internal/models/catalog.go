// internal/models/catalog.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Category struct {
	BaseModel
	Name     string     `json:"name" gorm:"size:100;not null"`
	Slug     string     `json:"slug" gorm:"uniqueIndex;size:120;not null"`
	Icon     string     `json:"icon" gorm:"size:50"`
	ParentID *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`

	// Relationships
	Parent   *Category `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

// Product is a shared catalog entry. Stores do not own products; they
// list them through SellerProduct with their own price and stock.
type Product struct {
	BaseModel
	CategoryID  uuid.UUID      `json:"category_id" gorm:"type:uuid;not null;index"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;size:280;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`

	// Relationships
	Category Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Listings []SellerProduct `json:"listings,omitempty" gorm:"foreignKey:ProductID"`
}

// ProductRequest is a seller-submitted catalog addition. A manager reviews
// it; approval creates the Product and notifies the seller by email.
type ProductRequest struct {
	BaseModel
	RequesterID uuid.UUID      `json:"requester_id" gorm:"type:uuid;not null;index"`
	StoreID     uuid.UUID      `json:"store_id" gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID      `json:"category_id" gorm:"type:uuid;not null"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`
	Status      ReviewStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ManagerNote string         `json:"manager_note,omitempty" gorm:"type:text"`
	ReviewedBy  *uuid.UUID     `json:"reviewed_by" gorm:"type:uuid"`
	ProductID   *uuid.UUID     `json:"product_id" gorm:"type:uuid"`

	// Relationships
	Requester User     `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Store     Store    `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	Category  Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
