// internal/models/discount.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDiscount is a discount campaign managed by content managers.
// It is either store-wide (StoreID set) or bound to an explicit set of
// seller products. Validity is recomputed at read time from the window,
// never flipped by a background job.
type ProductDiscount struct {
	BaseModel
	Name        string          `json:"name" gorm:"size:100;not null"`
	Slug        string          `json:"slug" gorm:"uniqueIndex;size:120;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Kind        DiscountKind    `json:"kind" gorm:"type:varchar(20);not null;default:'percentage'"`
	Value       decimal.Decimal `json:"value" gorm:"type:decimal(10,2);not null"`
	ValidFrom   time.Time       `json:"valid_from" gorm:"type:date;not null;index"`
	ValidTo     time.Time       `json:"valid_to" gorm:"type:date;not null;index"`
	IsActive    bool            `json:"is_active" gorm:"default:true;index"`
	StoreID     *uuid.UUID      `json:"store_id" gorm:"type:uuid;index"`
	CreatedBy   uuid.UUID       `json:"created_by" gorm:"type:uuid;not null"`

	// Relationships
	Store          *Store          `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	SellerProducts []SellerProduct `json:"seller_products,omitempty" gorm:"many2many:discount_seller_products"`
}

// CurrentOn reports whether the campaign applies on the given day.
// Both window bounds are inclusive.
func (d *ProductDiscount) CurrentOn(t time.Time) bool {
	if !d.IsActive {
		return false
	}
	day := toDate(t)
	return !day.Before(toDate(d.ValidFrom)) && !day.After(toDate(d.ValidTo))
}

// StoreWide reports whether the campaign covers every listing of a store.
func (d *ProductDiscount) StoreWide() bool {
	return d.StoreID != nil
}

func toDate(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
