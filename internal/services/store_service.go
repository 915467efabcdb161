// internal/services/store_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/megano/storefront/internal/models"
	"github.com/megano/storefront/internal/utils"
)

type StoreService struct {
	db *gorm.DB
}

type CreateStoreRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,phone"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=255"`
	LogoURL     string `json:"logo_url,omitempty" validate:"omitempty,url,max=512"`
}

type UpdateStoreRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,phone"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=255"`
	LogoURL     string `json:"logo_url,omitempty" validate:"omitempty,url,max=512"`
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

func (s *StoreService) CreateStore(ownerID uuid.UUID, req *CreateStoreRequest) (*models.Store, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var owner models.User
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		return nil, fmt.Errorf("owner not found: %w", err)
	}

	if owner.Status != models.UserStatusActive {
		return nil, errors.New("owner account is not active")
	}

	if !owner.IsSeller() {
		return nil, errors.New("only sellers can create stores")
	}

	store := &models.Store{
		OwnerID:     ownerID,
		Name:        req.Name,
		Slug:        s.uniqueSlug(req.Name),
		Description: req.Description,
		Email:       req.Email,
		Phone:       utils.NormalizePhone(req.Phone),
		Address:     req.Address,
		LogoURL:     req.LogoURL,
		Status:      models.StoreStatusActive,
	}

	if err := s.db.Create(store).Error; err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	return store, nil
}

// GetUserStores returns the seller room view: every store the user owns.
func (s *StoreService) GetUserStores(ownerID uuid.UUID) ([]models.Store, error) {
	var stores []models.Store
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch stores: %w", err)
	}
	return stores, nil
}

func (s *StoreService) GetStoreBySlug(slug string) (*models.Store, error) {
	var store models.Store
	if err := s.db.Preload("Owner").Where("slug = ? AND status = ?", slug, models.StoreStatusActive).
		First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &store, nil
}

func (s *StoreService) UpdateStore(id uuid.UUID, ownerID uuid.UUID, req *UpdateStoreRequest) (*models.Store, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	store, err := s.ownedStore(id, ownerID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" && req.Name != store.Name {
		updates["name"] = req.Name
		updates["slug"] = s.uniqueSlug(req.Name)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = utils.NormalizePhone(req.Phone)
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.LogoURL != "" {
		updates["logo_url"] = req.LogoURL
	}

	if len(updates) > 0 {
		if err := s.db.Model(store).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update store: %w", err)
		}
	}

	s.db.First(store, id)
	return store, nil
}

// DeleteStore removes the store together with its listings and store-wide
// discount campaigns.
func (s *StoreService) DeleteStore(id uuid.UUID, ownerID uuid.UUID) error {
	store, err := s.ownedStore(id, ownerID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&models.SellerProduct{}).Error; err != nil {
			return fmt.Errorf("failed to delete listings: %w", err)
		}

		if err := tx.Where("store_id = ?", id).Delete(&models.ProductDiscount{}).Error; err != nil {
			return fmt.Errorf("failed to delete store discounts: %w", err)
		}

		if err := tx.Delete(store).Error; err != nil {
			return fmt.Errorf("failed to delete store: %w", err)
		}

		return nil
	})
}

// ownedStore loads the store and verifies the caller may manage it.
// Managers and admins pass the ownership check.
func (s *StoreService) ownedStore(id uuid.UUID, userID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := s.db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if store.OwnerID != userID {
		var user models.User
		if err := s.db.First(&user, userID).Error; err != nil || !user.IsManager() {
			return nil, errors.New("unauthorized to manage this store")
		}
	}

	return &store, nil
}

func (s *StoreService) uniqueSlug(name string) string {
	base := utils.Slugify(name)
	slug := base
	for i := 2; ; i++ {
		var count int64
		s.db.Model(&models.Store{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
