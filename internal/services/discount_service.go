// internal/services/discount_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/megano/storefront/internal/models"
	"github.com/megano/storefront/internal/pricing"
	"github.com/megano/storefront/internal/utils"
)

// DiscountService owns discount campaigns and the priced views built
// from them: the campaign detail page and priced store fronts.
type DiscountService struct {
	db *gorm.DB

	// now is swappable in tests; validity windows are date-based so the
	// instant only matters at day boundaries.
	now func() time.Time
}

type CreateDiscountRequest struct {
	Name        string              `json:"name" validate:"required,min=3,max=100"`
	Description string              `json:"description,omitempty"`
	Kind        models.DiscountKind `json:"kind" validate:"required"`
	Value       decimal.Decimal     `json:"value" validate:"required"`
	ValidFrom   time.Time           `json:"valid_from" validate:"required"`
	ValidTo     time.Time           `json:"valid_to" validate:"required"`
	IsActive    *bool               `json:"is_active,omitempty"`
	StoreID     *uuid.UUID          `json:"store_id,omitempty"`
	ListingIDs  []uuid.UUID         `json:"listing_ids,omitempty"`
}

type UpdateDiscountRequest struct {
	Name        string           `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Description string           `json:"description,omitempty"`
	Value       *decimal.Decimal `json:"value,omitempty"`
	ValidFrom   *time.Time       `json:"valid_from,omitempty"`
	ValidTo     *time.Time       `json:"valid_to,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
	ListingIDs  []uuid.UUID      `json:"listing_ids,omitempty"`
}

// DiscountDetail is the campaign page view: the campaign plus each
// covered listing with its original and effective price.
type DiscountDetail struct {
	Discount *models.ProductDiscount `json:"discount"`
	Products []PricedProduct         `json:"products"`
}

// PricedProduct pairs a listing with its display prices.
type PricedProduct struct {
	Listing        models.SellerProduct `json:"listing"`
	Price          decimal.Decimal      `json:"price"`
	EffectivePrice decimal.Decimal      `json:"effective_price"`
	Discounted     bool                 `json:"discounted"`
}

func NewDiscountService(db *gorm.DB) *DiscountService {
	return &DiscountService{db: db, now: time.Now}
}

func (s *DiscountService) CreateDiscount(managerID uuid.UUID, req *CreateDiscountRequest) (*models.ProductDiscount, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	descriptor := pricing.Discount{Kind: pricing.Kind(req.Kind), Value: req.Value}
	if err := descriptor.Validate(); err != nil {
		return nil, err
	}

	if req.ValidTo.Before(req.ValidFrom) {
		return nil, errors.New("valid_to must not precede valid_from")
	}

	if req.StoreID != nil && len(req.ListingIDs) > 0 {
		return nil, errors.New("a discount is either store-wide or bound to listings, not both")
	}

	if req.StoreID != nil {
		var store models.Store
		if err := s.db.First(&store, *req.StoreID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("store not found")
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	discount := &models.ProductDiscount{
		Name:        req.Name,
		Slug:        s.uniqueSlug(req.Name),
		Description: req.Description,
		Kind:        req.Kind,
		Value:       req.Value.Round(2),
		ValidFrom:   req.ValidFrom,
		ValidTo:     req.ValidTo,
		IsActive:    isActive,
		StoreID:     req.StoreID,
		CreatedBy:   managerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(discount).Error; err != nil {
			return fmt.Errorf("failed to create discount: %w", err)
		}

		if len(req.ListingIDs) > 0 {
			listings, err := s.loadListings(tx, req.ListingIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(discount).Association("SellerProducts").Append(listings); err != nil {
				return fmt.Errorf("failed to attach listings: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("SellerProducts").Preload("Store").First(discount, discount.ID)
	return discount, nil
}

func (s *DiscountService) UpdateDiscount(id uuid.UUID, req *UpdateDiscountRequest) (*models.ProductDiscount, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var discount models.ProductDiscount
	if err := s.db.First(&discount, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("discount not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != "" && req.Name != discount.Name {
		updates["name"] = req.Name
		updates["slug"] = s.uniqueSlug(req.Name)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Value != nil {
		descriptor := pricing.Discount{Kind: pricing.Kind(discount.Kind), Value: *req.Value}
		if err := descriptor.Validate(); err != nil {
			return nil, err
		}
		updates["value"] = req.Value.Round(2)
	}

	validFrom := discount.ValidFrom
	validTo := discount.ValidTo
	if req.ValidFrom != nil {
		validFrom = *req.ValidFrom
		updates["valid_from"] = validFrom
	}
	if req.ValidTo != nil {
		validTo = *req.ValidTo
		updates["valid_to"] = validTo
	}
	if validTo.Before(validFrom) {
		return nil, errors.New("valid_to must not precede valid_from")
	}

	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&discount).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update discount: %w", err)
			}
		}

		if req.ListingIDs != nil {
			if discount.StoreWide() {
				return errors.New("store-wide discounts do not carry a listing set")
			}
			listings, err := s.loadListings(tx, req.ListingIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&discount).Association("SellerProducts").Replace(listings); err != nil {
				return fmt.Errorf("failed to replace listings: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("SellerProducts").Preload("Store").First(&discount, id)
	return &discount, nil
}

func (s *DiscountService) DeleteDiscount(id uuid.UUID) error {
	var discount models.ProductDiscount
	if err := s.db.First(&discount, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("discount not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Select("SellerProducts").Delete(&discount).Error; err != nil {
		return fmt.Errorf("failed to delete discount: %w", err)
	}

	return nil
}

// GetCurrentDiscounts lists active campaigns whose validity window
// contains today, newest first. Both bounds are inclusive.
func (s *DiscountService) GetCurrentDiscounts(params utils.PaginationParams) ([]models.ProductDiscount, int64, error) {
	today := dateOf(s.now())

	query := s.db.Model(&models.ProductDiscount{}).
		Where("is_active = ? AND valid_from <= ? AND valid_to >= ?", true, today, today).
		Preload("Store")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count discounts: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "valid_to", "name"})
	query = utils.ApplyPagination(query, params)

	var discounts []models.ProductDiscount
	if err := query.Find(&discounts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch discounts: %w", err)
	}

	return discounts, total, nil
}

// GetDiscountDetail resolves effective prices for every listing the
// campaign covers. Listings with corrupt negative prices are dropped
// from the view and logged instead of failing the whole page.
func (s *DiscountService) GetDiscountDetail(slug string) (*DiscountDetail, error) {
	var discount models.ProductDiscount
	if err := s.db.Preload("SellerProducts").Preload("SellerProducts.Product").
		Preload("SellerProducts.Store").Preload("Store").
		Where("slug = ?", slug).First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("discount not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	listings := discount.SellerProducts
	if discount.StoreWide() {
		var storeListings []models.SellerProduct
		if err := s.db.Where("store_id = ?", *discount.StoreID).
			Preload("Product").Preload("Store").
			Find(&storeListings).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch store listings: %w", err)
		}
		listings = storeListings
	}

	products, err := s.resolvePrices(listings, &discount)
	if err != nil {
		return nil, err
	}

	return &DiscountDetail{Discount: &discount, Products: products}, nil
}

// GetStoreFront prices a store's listings against its best current
// store-wide campaign. Without one, listings carry their base price.
func (s *DiscountService) GetStoreFront(storeID uuid.UUID) ([]PricedProduct, error) {
	var listings []models.SellerProduct
	if err := s.db.Where("store_id = ?", storeID).
		Preload("Product").Preload("Product.Category").
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch store listings: %w", err)
	}

	today := dateOf(s.now())
	var discount models.ProductDiscount
	err := s.db.Where("store_id = ? AND is_active = ? AND valid_from <= ? AND valid_to >= ?",
		storeID, true, today, today).
		Order("created_at DESC").
		First(&discount).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("database error: %w", err)
		}
		return s.resolvePrices(listings, nil)
	}

	return s.resolvePrices(listings, &discount)
}

// resolvePrices adapts model rows to the pricing package and applies its
// policy for bad data: an out-of-range discount is ignored for display,
// a negative base price drops only the affected listing.
func (s *DiscountService) resolvePrices(listings []models.SellerProduct, discount *models.ProductDiscount) ([]PricedProduct, error) {
	clean := make([]pricing.Listing, 0, len(listings))
	kept := make([]models.SellerProduct, 0, len(listings))
	for _, l := range listings {
		if l.Price.IsNegative() {
			logrus.WithFields(logrus.Fields{
				"listing_id": l.ID,
				"price":      l.Price.String(),
			}).Warn("Listing with negative base price excluded from display")
			continue
		}
		clean = append(clean, pricing.Listing{ID: l.ID, StoreID: l.StoreID, BasePrice: l.Price})
		kept = append(kept, l)
	}

	descriptor := descriptorOf(discount)
	if descriptor != nil {
		if err := descriptor.Validate(); err != nil {
			logrus.WithError(err).WithField("discount_id", discount.ID).
				Warn("Discount with out-of-range magnitude ignored for display")
			descriptor = nil
		}
	}

	priced, err := pricing.Resolve(clean, descriptor, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve prices: %w", err)
	}

	products := make([]PricedProduct, len(priced))
	for i, p := range priced {
		products[i] = PricedProduct{
			Listing:        kept[i],
			Price:          p.BasePrice,
			EffectivePrice: p.EffectivePrice,
			Discounted:     p.Discounted,
		}
	}
	return products, nil
}

func descriptorOf(d *models.ProductDiscount) *pricing.Discount {
	if d == nil || !d.IsActive {
		return nil
	}
	descriptor := &pricing.Discount{
		ID:        d.ID,
		Kind:      pricing.Kind(d.Kind),
		Value:     d.Value,
		ValidFrom: d.ValidFrom,
		ValidTo:   d.ValidTo,
		StoreID:   d.StoreID,
	}
	for _, l := range d.SellerProducts {
		descriptor.ListingIDs = append(descriptor.ListingIDs, l.ID)
	}
	return descriptor
}

func (s *DiscountService) loadListings(tx *gorm.DB, ids []uuid.UUID) ([]models.SellerProduct, error) {
	var listings []models.SellerProduct
	if err := tx.Where("id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}
	if len(listings) != len(ids) {
		return nil, errors.New("one or more listings not found")
	}
	return listings, nil
}

func (s *DiscountService) uniqueSlug(name string) string {
	base := utils.Slugify(name)
	slug := base
	for i := 2; ; i++ {
		var count int64
		s.db.Model(&models.ProductDiscount{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
