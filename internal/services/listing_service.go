// internal/services/listing_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/megano/storefront/internal/models"
	"github.com/megano/storefront/internal/utils"
)

// ListingService manages seller products: a store's listings of catalog
// products with their own price and stock.
type ListingService struct {
	db *gorm.DB
}

type CreateListingRequest struct {
	StoreID   uuid.UUID       `json:"store_id" validate:"required"`
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"required"`
	Quantity  int             `json:"quantity" validate:"min=0"`
}

type UpdateListingRequest struct {
	Price    *decimal.Decimal `json:"price,omitempty"`
	Quantity *int             `json:"quantity,omitempty" validate:"omitempty,min=0"`
}

var ErrDuplicateListing = errors.New("this product already exists in this store")

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

func (s *ListingService) CreateListing(sellerID uuid.UUID, req *CreateListingRequest) (*models.SellerProduct, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Price.IsNegative() {
		return nil, errors.New("price must not be negative")
	}

	if _, err := s.ownedStore(req.StoreID, sellerID); err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// A store lists a given product at most once
	var count int64
	s.db.Model(&models.SellerProduct{}).
		Where("store_id = ? AND product_id = ?", req.StoreID, req.ProductID).
		Count(&count)
	if count > 0 {
		return nil, ErrDuplicateListing
	}

	listing := &models.SellerProduct{
		StoreID:   req.StoreID,
		ProductID: req.ProductID,
		Price:     req.Price.Round(2),
		Quantity:  req.Quantity,
	}

	if err := s.db.Create(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	s.db.Preload("Product").Preload("Product.Category").Preload("Store").First(listing, listing.ID)
	return listing, nil
}

// GetSellerListings returns every listing across the seller's stores,
// the seller room's inventory view.
func (s *ListingService) GetSellerListings(sellerID uuid.UUID, params utils.PaginationParams) ([]models.SellerProduct, int64, error) {
	query := s.db.Model(&models.SellerProduct{}).
		Joins("JOIN stores ON stores.id = seller_products.store_id").
		Where("stores.owner_id = ?", sellerID).
		Preload("Product").Preload("Product.Category").Preload("Store")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "updated_at", "price", "quantity"})
	query = utils.ApplyPagination(query, params)

	var listings []models.SellerProduct
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}

func (s *ListingService) GetStoreListings(storeID uuid.UUID) ([]models.SellerProduct, error) {
	var listings []models.SellerProduct
	if err := s.db.Where("store_id = ?", storeID).
		Preload("Product").Preload("Product.Category").
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch store listings: %w", err)
	}
	return listings, nil
}

func (s *ListingService) GetListing(id uuid.UUID) (*models.SellerProduct, error) {
	var listing models.SellerProduct
	if err := s.db.Preload("Product").Preload("Product.Category").Preload("Store").
		First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("listing not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &listing, nil
}

func (s *ListingService) UpdateListing(id uuid.UUID, sellerID uuid.UUID, req *UpdateListingRequest) (*models.SellerProduct, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	listing, err := s.ownedListing(id, sellerID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.New("price must not be negative")
		}
		updates["price"] = req.Price.Round(2)
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}

	if len(updates) > 0 {
		if err := s.db.Model(listing).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update listing: %w", err)
		}
	}

	s.db.Preload("Product").Preload("Product.Category").Preload("Store").First(listing, id)
	return listing, nil
}

func (s *ListingService) DeleteListing(id uuid.UUID, sellerID uuid.UUID) error {
	listing, err := s.ownedListing(id, sellerID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(listing).Error; err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	return nil
}

func (s *ListingService) ownedListing(id uuid.UUID, sellerID uuid.UUID) (*models.SellerProduct, error) {
	var listing models.SellerProduct
	if err := s.db.Preload("Store").First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("listing not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if listing.Store.OwnerID != sellerID {
		var user models.User
		if err := s.db.First(&user, sellerID).Error; err != nil || !user.IsManager() {
			return nil, errors.New("unauthorized to manage this listing")
		}
	}

	return &listing, nil
}

func (s *ListingService) ownedStore(storeID uuid.UUID, sellerID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := s.db.First(&store, storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if store.OwnerID != sellerID {
		var user models.User
		if err := s.db.First(&user, sellerID).Error; err != nil || !user.IsManager() {
			return nil, errors.New("unauthorized to manage this store")
		}
	}

	return &store, nil
}
