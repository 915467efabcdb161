// internal/services/store_service_test.go
package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/megano/storefront/internal/models"
)

type StoreServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *StoreService

	seller models.User
	buyer  models.User
}

func (s *StoreServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewStoreService(s.db)

	s.seller = models.User{Username: "seller", Email: "seller@example.com", Role: models.UserRoleSeller, Status: models.UserStatusActive}
	s.buyer = models.User{Username: "buyer", Email: "buyer@example.com", Role: models.UserRoleBuyer, Status: models.UserStatusActive}
	s.Require().NoError(s.db.Create(&s.seller).Error)
	s.Require().NoError(s.db.Create(&s.buyer).Error)
}

func (s *StoreServiceTestSuite) TestCreateStore() {
	store, err := s.service.CreateStore(s.seller.ID, &CreateStoreRequest{
		Name:        "Vinyl Vault",
		Description: "Second-hand records",
	})
	s.Require().NoError(err)
	s.Equal("vinyl-vault", store.Slug)
	s.Equal(models.StoreStatusActive, store.Status)
}

func (s *StoreServiceTestSuite) TestBuyersCannotCreateStores() {
	_, err := s.service.CreateStore(s.buyer.ID, &CreateStoreRequest{Name: "Sneaky Shop"})
	s.Require().Error(err)
	s.Contains(err.Error(), "sellers")
}

func (s *StoreServiceTestSuite) TestSlugCollisionsGetSuffixes() {
	first, err := s.service.CreateStore(s.seller.ID, &CreateStoreRequest{Name: "Vinyl Vault"})
	s.Require().NoError(err)
	second, err := s.service.CreateStore(s.seller.ID, &CreateStoreRequest{Name: "Vinyl Vault"})
	s.Require().NoError(err)

	s.Equal("vinyl-vault", first.Slug)
	s.Equal("vinyl-vault-2", second.Slug)
}

func (s *StoreServiceTestSuite) TestRenameRefreshesSlug() {
	store, err := s.service.CreateStore(s.seller.ID, &CreateStoreRequest{Name: "Vinyl Vault"})
	s.Require().NoError(err)

	updated, err := s.service.UpdateStore(store.ID, s.seller.ID, &UpdateStoreRequest{Name: "Record Realm"})
	s.Require().NoError(err)
	s.Equal("record-realm", updated.Slug)
}

func (s *StoreServiceTestSuite) TestGetStoreBySlugSkipsDisabled() {
	store, err := s.service.CreateStore(s.seller.ID, &CreateStoreRequest{Name: "Vinyl Vault"})
	s.Require().NoError(err)

	s.Require().NoError(s.db.Model(store).Update("status", models.StoreStatusDisabled).Error)

	_, err = s.service.GetStoreBySlug("vinyl-vault")
	s.Require().Error(err)
}

func (s *StoreServiceTestSuite) TestDeleteStoreRemovesListings() {
	store, err := s.service.CreateStore(s.seller.ID, &CreateStoreRequest{Name: "Vinyl Vault"})
	s.Require().NoError(err)

	category := models.Category{Name: "Music", Slug: "music"}
	s.Require().NoError(s.db.Create(&category).Error)
	product := models.Product{CategoryID: category.ID, Name: "LP", Slug: "lp"}
	s.Require().NoError(s.db.Create(&product).Error)
	listing := models.SellerProduct{StoreID: store.ID, ProductID: product.ID, Price: decimal.RequireFromString("30.00")}
	s.Require().NoError(s.db.Create(&listing).Error)

	s.Require().NoError(s.service.DeleteStore(store.ID, s.seller.ID))

	var count int64
	s.db.Model(&models.SellerProduct{}).Where("store_id = ?", store.ID).Count(&count)
	s.Equal(int64(0), count)

	_, err = s.service.GetStoreBySlug("vinyl-vault")
	s.Require().Error(err)
}

func (s *StoreServiceTestSuite) TestOwnershipEnforced() {
	store, err := s.service.CreateStore(s.seller.ID, &CreateStoreRequest{Name: "Vinyl Vault"})
	s.Require().NoError(err)

	_, err = s.service.UpdateStore(store.ID, s.buyer.ID, &UpdateStoreRequest{Name: "Taken Over"})
	s.Require().Error(err)
	s.Contains(err.Error(), "unauthorized")
}

func TestStoreServiceSuite(t *testing.T) {
	suite.Run(t, new(StoreServiceTestSuite))
}
