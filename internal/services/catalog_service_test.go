// internal/services/catalog_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/megano/storefront/internal/models"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CatalogService

	seller   models.User
	manager  models.User
	store    models.Store
	category models.Category
}

func (s *CatalogServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewCatalogService(s.db, nil)

	s.seller = models.User{Username: "seller", Email: "seller@example.com", Role: models.UserRoleSeller, Status: models.UserStatusActive}
	s.manager = models.User{Username: "manager", Email: "manager@example.com", Role: models.UserRoleManager, Status: models.UserStatusActive}
	s.Require().NoError(s.db.Create(&s.seller).Error)
	s.Require().NoError(s.db.Create(&s.manager).Error)

	s.store = models.Store{OwnerID: s.seller.ID, Name: "Garden Shed", Slug: "garden-shed", Status: models.StoreStatusActive}
	s.Require().NoError(s.db.Create(&s.store).Error)

	s.category = models.Category{Name: "Tools", Slug: "tools"}
	s.Require().NoError(s.db.Create(&s.category).Error)
}

func (s *CatalogServiceTestSuite) submitRequest(name string) *models.ProductRequest {
	request, err := s.service.SubmitProductRequest(s.seller.ID, &SubmitProductRequestRequest{
		StoreID:     s.store.ID,
		CategoryID:  s.category.ID,
		Name:        name,
		Description: "A sturdy tool for everyday gardening.",
	})
	s.Require().NoError(err)
	return request
}

func (s *CatalogServiceTestSuite) TestSubmitProductRequest() {
	request := s.submitRequest("Steel Rake")
	s.Equal(models.ReviewStatusPending, request.Status)
	s.Equal(s.seller.ID, request.RequesterID)
}

func (s *CatalogServiceTestSuite) TestSubmitRequiresStoreOwnership() {
	_, err := s.service.SubmitProductRequest(s.manager.ID, &SubmitProductRequestRequest{
		StoreID:     s.store.ID,
		CategoryID:  s.category.ID,
		Name:        "Steel Rake",
		Description: "A sturdy tool for everyday gardening.",
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "unauthorized")
}

func (s *CatalogServiceTestSuite) TestApproveCreatesCatalogProduct() {
	request := s.submitRequest("Steel Rake")

	reviewed, err := s.service.ApproveProductRequest(request.ID, s.manager.ID, &ReviewProductRequestRequest{Note: "fits the category"})
	s.Require().NoError(err)
	s.Equal(models.ReviewStatusApproved, reviewed.Status)
	s.Require().NotNil(reviewed.ProductID)

	product, err := s.service.GetProductBySlug("steel-rake")
	s.Require().NoError(err)
	s.Equal("Steel Rake", product.Name)
	s.Equal(s.category.ID, product.CategoryID)
}

func (s *CatalogServiceTestSuite) TestApproveTwiceFails() {
	request := s.submitRequest("Steel Rake")

	_, err := s.service.ApproveProductRequest(request.ID, s.manager.ID, &ReviewProductRequestRequest{})
	s.Require().NoError(err)

	_, err = s.service.ApproveProductRequest(request.ID, s.manager.ID, &ReviewProductRequestRequest{})
	s.Require().Error(err)
	s.Contains(err.Error(), "already reviewed")
}

func (s *CatalogServiceTestSuite) TestApproveDisambiguatesSlugs() {
	first := s.submitRequest("Steel Rake")
	second := s.submitRequest("Steel Rake")

	_, err := s.service.ApproveProductRequest(first.ID, s.manager.ID, &ReviewProductRequestRequest{})
	s.Require().NoError(err)
	_, err = s.service.ApproveProductRequest(second.ID, s.manager.ID, &ReviewProductRequestRequest{})
	s.Require().NoError(err)

	product, err := s.service.GetProductBySlug("steel-rake-2")
	s.Require().NoError(err)
	s.Equal("Steel Rake", product.Name)
}

func (s *CatalogServiceTestSuite) TestRejectLeavesCatalogUntouched() {
	request := s.submitRequest("Plastic Rake")

	reviewed, err := s.service.RejectProductRequest(request.ID, s.manager.ID, &ReviewProductRequestRequest{Note: "duplicate of an existing product"})
	s.Require().NoError(err)
	s.Equal(models.ReviewStatusRejected, reviewed.Status)
	s.Equal("duplicate of an existing product", reviewed.ManagerNote)

	_, err = s.service.GetProductBySlug("plastic-rake")
	s.Require().Error(err)
}

func (s *CatalogServiceTestSuite) TestGetProductRequestsFiltersByStatus() {
	s.submitRequest("Steel Rake")
	rejected := s.submitRequest("Plastic Rake")
	_, err := s.service.RejectProductRequest(rejected.ID, s.manager.ID, &ReviewProductRequestRequest{})
	s.Require().NoError(err)

	pending, total, err := s.service.GetProductRequests(models.ReviewStatusPending, testPagination())
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(pending, 1)
	s.Equal("Steel Rake", pending[0].Name)
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
