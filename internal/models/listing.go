// internal/models/listing.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SellerProduct is a store's listing of a catalog product with its own
// price and stock. A store lists a given product at most once.
type SellerProduct struct {
	BaseModel
	StoreID   uuid.UUID       `json:"store_id" gorm:"type:uuid;not null;uniqueIndex:idx_listings_store_product"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_listings_store_product"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity  int             `json:"quantity" gorm:"default:0"`

	// Relationships
	Store     Store             `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	Product   Product           `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Discounts []ProductDiscount `json:"discounts,omitempty" gorm:"many2many:discount_seller_products"`
}
