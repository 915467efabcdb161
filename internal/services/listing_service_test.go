// internal/services/listing_service_test.go
package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/megano/storefront/internal/models"
	"github.com/megano/storefront/internal/utils"
)

func testPagination() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

type ListingServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ListingService

	seller   models.User
	intruder models.User
	manager  models.User
	store    models.Store
	product  models.Product
}

func (s *ListingServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewListingService(s.db)

	s.seller = models.User{Username: "seller", Email: "seller@example.com", Role: models.UserRoleSeller, Status: models.UserStatusActive}
	s.intruder = models.User{Username: "intruder", Email: "intruder@example.com", Role: models.UserRoleSeller, Status: models.UserStatusActive}
	s.manager = models.User{Username: "manager", Email: "manager@example.com", Role: models.UserRoleManager, Status: models.UserStatusActive}
	s.Require().NoError(s.db.Create(&s.seller).Error)
	s.Require().NoError(s.db.Create(&s.intruder).Error)
	s.Require().NoError(s.db.Create(&s.manager).Error)

	s.store = models.Store{OwnerID: s.seller.ID, Name: "Book Nook", Slug: "book-nook", Status: models.StoreStatusActive}
	s.Require().NoError(s.db.Create(&s.store).Error)

	category := models.Category{Name: "Books", Slug: "books"}
	s.Require().NoError(s.db.Create(&category).Error)

	s.product = models.Product{CategoryID: category.ID, Name: "Go in Practice", Slug: "go-in-practice"}
	s.Require().NoError(s.db.Create(&s.product).Error)
}

func (s *ListingServiceTestSuite) TestCreateListing() {
	listing, err := s.service.CreateListing(s.seller.ID, &CreateListingRequest{
		StoreID:   s.store.ID,
		ProductID: s.product.ID,
		Price:     decimal.RequireFromString("19.999"),
		Quantity:  3,
	})
	s.Require().NoError(err)
	s.Equal(s.store.ID, listing.StoreID)
	s.Equal(3, listing.Quantity)
	// Prices are stored with two decimal places
	s.True(listing.Price.Equal(decimal.RequireFromString("20.00")), "price %s", listing.Price)
}

func (s *ListingServiceTestSuite) TestCreateListingRejectsDuplicate() {
	_, err := s.service.CreateListing(s.seller.ID, &CreateListingRequest{
		StoreID:   s.store.ID,
		ProductID: s.product.ID,
		Price:     decimal.RequireFromString("19.99"),
	})
	s.Require().NoError(err)

	_, err = s.service.CreateListing(s.seller.ID, &CreateListingRequest{
		StoreID:   s.store.ID,
		ProductID: s.product.ID,
		Price:     decimal.RequireFromString("24.99"),
	})
	s.Require().Error(err)
	s.ErrorIs(err, ErrDuplicateListing)
}

func (s *ListingServiceTestSuite) TestCreateListingRejectsNegativePrice() {
	_, err := s.service.CreateListing(s.seller.ID, &CreateListingRequest{
		StoreID:   s.store.ID,
		ProductID: s.product.ID,
		Price:     decimal.RequireFromString("-1"),
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "price")
}

func (s *ListingServiceTestSuite) TestCreateListingRequiresStoreOwnership() {
	_, err := s.service.CreateListing(s.intruder.ID, &CreateListingRequest{
		StoreID:   s.store.ID,
		ProductID: s.product.ID,
		Price:     decimal.RequireFromString("19.99"),
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "unauthorized")
}

func (s *ListingServiceTestSuite) TestManagerMayManageAnyListing() {
	listing, err := s.service.CreateListing(s.seller.ID, &CreateListingRequest{
		StoreID:   s.store.ID,
		ProductID: s.product.ID,
		Price:     decimal.RequireFromString("19.99"),
	})
	s.Require().NoError(err)

	price := decimal.RequireFromString("14.99")
	updated, err := s.service.UpdateListing(listing.ID, s.manager.ID, &UpdateListingRequest{Price: &price})
	s.Require().NoError(err)
	s.True(updated.Price.Equal(price))
}

func (s *ListingServiceTestSuite) TestUpdateListing() {
	listing, err := s.service.CreateListing(s.seller.ID, &CreateListingRequest{
		StoreID:   s.store.ID,
		ProductID: s.product.ID,
		Price:     decimal.RequireFromString("19.99"),
		Quantity:  3,
	})
	s.Require().NoError(err)

	quantity := 7
	updated, err := s.service.UpdateListing(listing.ID, s.seller.ID, &UpdateListingRequest{Quantity: &quantity})
	s.Require().NoError(err)
	s.Equal(7, updated.Quantity)
	// Untouched fields keep their values
	s.True(updated.Price.Equal(decimal.RequireFromString("19.99")))
}

func (s *ListingServiceTestSuite) TestUpdateListingRejectsNegativePrice() {
	listing, err := s.service.CreateListing(s.seller.ID, &CreateListingRequest{
		StoreID:   s.store.ID,
		ProductID: s.product.ID,
		Price:     decimal.RequireFromString("19.99"),
	})
	s.Require().NoError(err)

	price := decimal.RequireFromString("-0.01")
	_, err = s.service.UpdateListing(listing.ID, s.seller.ID, &UpdateListingRequest{Price: &price})
	s.Require().Error(err)
}

func (s *ListingServiceTestSuite) TestGetSellerListings() {
	_, err := s.service.CreateListing(s.seller.ID, &CreateListingRequest{
		StoreID:   s.store.ID,
		ProductID: s.product.ID,
		Price:     decimal.RequireFromString("19.99"),
	})
	s.Require().NoError(err)

	listings, total, err := s.service.GetSellerListings(s.seller.ID, testPagination())
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(listings, 1)

	// Other sellers see nothing
	listings, total, err = s.service.GetSellerListings(s.intruder.ID, testPagination())
	s.Require().NoError(err)
	s.Equal(int64(0), total)
	s.Len(listings, 0)
}

func (s *ListingServiceTestSuite) TestGetStoreListings() {
	_, err := s.service.CreateListing(s.seller.ID, &CreateListingRequest{
		StoreID:   s.store.ID,
		ProductID: s.product.ID,
		Price:     decimal.RequireFromString("19.99"),
	})
	s.Require().NoError(err)

	listings, err := s.service.GetStoreListings(s.store.ID)
	s.Require().NoError(err)
	s.Require().Len(listings, 1)
	s.Equal("Go in Practice", listings[0].Product.Name)
}

func (s *ListingServiceTestSuite) TestDeleteListing() {
	listing, err := s.service.CreateListing(s.seller.ID, &CreateListingRequest{
		StoreID:   s.store.ID,
		ProductID: s.product.ID,
		Price:     decimal.RequireFromString("19.99"),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteListing(listing.ID, s.seller.ID))

	_, err = s.service.GetListing(listing.ID)
	s.Require().Error(err)
}

func TestListingServiceSuite(t *testing.T) {
	suite.Run(t, new(ListingServiceTestSuite))
}
