// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/megano/storefront/internal/models"
	"github.com/megano/storefront/internal/utils"
)

// CatalogService owns the shared product catalog: categories, products
// and the moderated flow through which sellers add new products.
type CatalogService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type ProductSearchParams struct {
	utils.PaginationParams
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
}

type SubmitProductRequestRequest struct {
	StoreID     uuid.UUID `json:"store_id" validate:"required"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	Name        string    `json:"name" validate:"required,min=3,max=255"`
	Description string    `json:"description" validate:"required,min=10"`
	Images      []string  `json:"images,omitempty"`
}

type ReviewProductRequestRequest struct {
	Note string `json:"note,omitempty"`
}

func NewCatalogService(db *gorm.DB, notificationService *NotificationService) *CatalogService {
	return &CatalogService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *CatalogService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// SearchProducts lists catalog products, optionally narrowed to a
// category. Used both by the public catalog and by the seller room's
// category filter when composing a new listing.
func (s *CatalogService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Category")

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if len(params.Tags) > 0 {
		query = query.Where("tags && ?", params.Tags)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *CatalogService) GetProductBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").
		Preload("Listings", func(db *gorm.DB) *gorm.DB { return db.Order("price ASC") }).
		Preload("Listings.Store").
		Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// SubmitProductRequest files a catalog addition for manager review.
func (s *CatalogService) SubmitProductRequest(requesterID uuid.UUID, req *SubmitProductRequestRequest) (*models.ProductRequest, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var store models.Store
	if err := s.db.First(&store, req.StoreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if store.OwnerID != requesterID {
		return nil, errors.New("unauthorized to request products for this store")
	}

	var category models.Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	request := &models.ProductRequest{
		RequesterID: requesterID,
		StoreID:     req.StoreID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Images:      req.Images,
		Status:      models.ReviewStatusPending,
	}

	if err := s.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create product request: %w", err)
	}

	return request, nil
}

func (s *CatalogService) GetProductRequests(status models.ReviewStatus, params utils.PaginationParams) ([]models.ProductRequest, int64, error) {
	query := s.db.Model(&models.ProductRequest{}).
		Preload("Requester").Preload("Store").Preload("Category")

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count product requests: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "status"})
	query = utils.ApplyPagination(query, params)

	var requests []models.ProductRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch product requests: %w", err)
	}

	return requests, total, nil
}

// ApproveProductRequest creates the catalog product and lets the
// requester know by email. The whole step runs in one transaction so a
// failed product insert never leaves an approved request behind.
func (s *CatalogService) ApproveProductRequest(id uuid.UUID, managerID uuid.UUID, req *ReviewProductRequestRequest) (*models.ProductRequest, error) {
	var request models.ProductRequest

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Requester").First(&request, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("product request not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if request.Status != models.ReviewStatusPending {
			return errors.New("product request already reviewed")
		}

		product := &models.Product{
			CategoryID:  request.CategoryID,
			Name:        request.Name,
			Slug:        s.uniqueProductSlug(tx, request.Name),
			Description: request.Description,
			Images:      request.Images,
		}
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":       models.ReviewStatusApproved,
			"manager_note": req.Note,
			"reviewed_by":  managerID,
			"product_id":   product.ID,
			"updated_at":   now,
		}
		if err := tx.Model(&request).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update product request: %w", err)
		}

		request.ProductID = &product.ID
		request.Product = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		go s.notificationService.SendProductRequestReviewedEmail(&request.Requester, &request, true)
	}

	return &request, nil
}

func (s *CatalogService) RejectProductRequest(id uuid.UUID, managerID uuid.UUID, req *ReviewProductRequestRequest) (*models.ProductRequest, error) {
	var request models.ProductRequest
	if err := s.db.Preload("Requester").First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product request not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if request.Status != models.ReviewStatusPending {
		return nil, errors.New("product request already reviewed")
	}

	updates := map[string]interface{}{
		"status":       models.ReviewStatusRejected,
		"manager_note": req.Note,
		"reviewed_by":  managerID,
	}
	if err := s.db.Model(&request).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product request: %w", err)
	}

	if s.notificationService != nil {
		go s.notificationService.SendProductRequestReviewedEmail(&request.Requester, &request, false)
	}

	return &request, nil
}

func (s *CatalogService) uniqueProductSlug(tx *gorm.DB, name string) string {
	base := utils.Slugify(name)
	slug := base
	for i := 2; ; i++ {
		var count int64
		tx.Model(&models.Product{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
