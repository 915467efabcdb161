// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/megano/storefront/internal/models"
	"github.com/megano/storefront/internal/utils"
)

type AdminService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type AdminDashboardStats struct {
	TotalUsers                int64   `json:"total_users"`
	ActiveUsers               int64   `json:"active_users"`
	NewUsersThisMonth         int64   `json:"new_users_this_month"`
	TotalSellers              int64   `json:"total_sellers"`
	TotalStores               int64   `json:"total_stores"`
	ActiveStores              int64   `json:"active_stores"`
	TotalProducts             int64   `json:"total_products"`
	TotalListings             int64   `json:"total_listings"`
	PendingProductRequests    int64   `json:"pending_product_requests"`
	PendingSellerApplications int64   `json:"pending_seller_applications"`
	CurrentDiscounts          int64   `json:"current_discounts"`
	UserGrowth                float64 `json:"user_growth"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Role          *models.UserRole   `json:"role,omitempty"`
	Status        *models.UserStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}

type SellerApplicationRequest struct {
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

func NewAdminService(db *gorm.DB, notificationService *NotificationService) *AdminService {
	return &AdminService{
		db:                  db,
		notificationService: notificationService,
	}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)
	today := dateOf(now)

	// User statistics
	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)
	s.db.Model(&models.User{}).Where("role = ?", models.UserRoleSeller).Count(&stats.TotalSellers)

	// Store and catalog statistics
	s.db.Model(&models.Store{}).Count(&stats.TotalStores)
	s.db.Model(&models.Store{}).Where("status = ?", models.StoreStatusActive).Count(&stats.ActiveStores)
	s.db.Model(&models.Product{}).Count(&stats.TotalProducts)
	s.db.Model(&models.SellerProduct{}).Count(&stats.TotalListings)

	// Moderation queues
	s.db.Model(&models.ProductRequest{}).
		Where("status = ?", models.ReviewStatusPending).Count(&stats.PendingProductRequests)
	s.db.Model(&models.SellerApplication{}).
		Where("status = ?", models.ReviewStatusPending).Count(&stats.PendingSellerApplications)

	// Running campaigns
	s.db.Model(&models.ProductDiscount{}).
		Where("is_active = ? AND valid_from <= ? AND valid_to >= ?", true, today, today).
		Count(&stats.CurrentDiscounts)

	// Growth calculation
	var lastMonthUsers int64
	s.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart).
		Count(&lastMonthUsers)

	if lastMonthUsers > 0 {
		stats.UserGrowth = float64(stats.NewUsersThisMonth-lastMonthUsers) / float64(lastMonthUsers) * 100
	}

	return stats, nil
}

// User Management
func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	// Apply filters
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "updated_at", "username", "email", "role", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

func (s *AdminService) UpdateUserStatus(userID uuid.UUID, status models.UserStatus, adminID uuid.UUID, reason string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Admin accounts are only modified by themselves
	if user.Role == models.UserRoleAdmin && user.ID != adminID {
		return errors.New("cannot modify admin user status")
	}

	oldStatus := user.Status
	user.Status = status

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	go s.createAuditLog(adminID, "UPDATE_USER_STATUS", "user", &userID,
		map[string]interface{}{"status": status, "old_status": oldStatus, "reason": reason})

	if s.notificationService != nil {
		go s.notificationService.SendUserStatusChangeEmail(&user, oldStatus, reason)
	}

	return nil
}

func (s *AdminService) UpdateUserRole(userID uuid.UUID, role models.UserRole, adminID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if user.Role == models.UserRoleAdmin && user.ID != adminID {
		return errors.New("cannot modify admin user role")
	}

	oldRole := user.Role
	user.Role = role

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	go s.createAuditLog(adminID, "UPDATE_USER_ROLE", "user", &userID,
		map[string]interface{}{"role": role, "old_role": oldRole})

	return nil
}

// Seller Applications
func (s *AdminService) SubmitSellerApplication(userID uuid.UUID, req *SellerApplicationRequest) (*models.SellerApplication, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.IsSeller() {
		return nil, errors.New("user already has seller access")
	}

	var pending int64
	s.db.Model(&models.SellerApplication{}).
		Where("user_id = ? AND status = ?", userID, models.ReviewStatusPending).
		Count(&pending)
	if pending > 0 {
		return nil, errors.New("a seller application is already pending")
	}

	application := &models.SellerApplication{
		UserID:  userID,
		Message: req.Message,
		Status:  models.ReviewStatusPending,
	}

	if err := s.db.Create(application).Error; err != nil {
		return nil, fmt.Errorf("failed to create seller application: %w", err)
	}

	return application, nil
}

func (s *AdminService) GetSellerApplications(status models.ReviewStatus, params utils.PaginationParams) ([]models.SellerApplication, int64, error) {
	query := s.db.Model(&models.SellerApplication{}).Preload("User")

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count seller applications: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "status"})
	query = utils.ApplyPagination(query, params)

	var applications []models.SellerApplication
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch seller applications: %w", err)
	}

	return applications, total, nil
}

// ReviewSellerApplication settles a pending application. Approval
// switches the applicant's role to seller in the same transaction.
func (s *AdminService) ReviewSellerApplication(applicationID, adminID uuid.UUID, approve bool, note string) (*models.SellerApplication, error) {
	var application models.SellerApplication
	if err := s.db.Preload("User").First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("seller application not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if application.Status != models.ReviewStatusPending {
		return nil, errors.New("seller application is not pending")
	}

	now := time.Now()
	status := models.ReviewStatusRejected
	if approve {
		status = models.ReviewStatusApproved
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      status,
			"admin_note":  note,
			"reviewed_by": adminID,
			"reviewed_at": now,
		}
		if err := tx.Model(&application).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update seller application: %w", err)
		}

		if approve && application.User.Role == models.UserRoleBuyer {
			if err := tx.Model(&models.User{}).
				Where("id = ?", application.UserID).
				Update("role", models.UserRoleSeller).Error; err != nil {
				return fmt.Errorf("failed to update user role: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.createAuditLog(adminID, "REVIEW_SELLER_APPLICATION", "seller_application", &application.ID,
		map[string]interface{}{"status": status, "note": note})

	if s.notificationService != nil {
		go s.notificationService.SendSellerApplicationReviewedEmail(&application.User, &application, approve)
	}

	s.db.Preload("User").First(&application, applicationID)
	return &application, nil
}

// Audit Logs
func (s *AdminService) GetAuditLogs(params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{}).Preload("User")

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("action ILIKE ? OR resource_type ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "action", "resource_type"})
	query = utils.ApplyPagination(query, params)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}

func (s *AdminService) createAuditLog(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, values map[string]interface{}) {
	log := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		NewValues:    models.JSONB(values),
	}

	if err := s.db.Create(log).Error; err != nil {
		logrus.WithError(err).Warn("Failed to write audit log entry")
	}
}
