// internal/services/discount_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/megano/storefront/internal/models"
	"github.com/megano/storefront/internal/pricing"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Category{},
		&models.Product{},
		&models.SellerProduct{},
		&models.ProductDiscount{},
		&models.ProductRequest{},
		&models.SellerApplication{},
		&models.AuditLog{},
	))

	return db
}

type DiscountServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *DiscountService

	manager  models.User
	seller   models.User
	store    models.Store
	category models.Category
	cheap    models.SellerProduct
	pricey   models.SellerProduct
}

// Fixed so validity windows in fixtures stay deterministic.
var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func (s *DiscountServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewDiscountService(s.db)
	s.service.now = func() time.Time { return testNow }

	s.manager = models.User{Username: "manager", Email: "manager@example.com", Role: models.UserRoleManager, Status: models.UserStatusActive}
	s.seller = models.User{Username: "seller", Email: "seller@example.com", Role: models.UserRoleSeller, Status: models.UserStatusActive}
	s.Require().NoError(s.db.Create(&s.manager).Error)
	s.Require().NoError(s.db.Create(&s.seller).Error)

	s.store = models.Store{OwnerID: s.seller.ID, Name: "Tech Corner", Slug: "tech-corner", Status: models.StoreStatusActive}
	s.Require().NoError(s.db.Create(&s.store).Error)

	s.category = models.Category{Name: "Electronics", Slug: "electronics"}
	s.Require().NoError(s.db.Create(&s.category).Error)

	headphones := models.Product{CategoryID: s.category.ID, Name: "Headphones", Slug: "headphones"}
	laptop := models.Product{CategoryID: s.category.ID, Name: "Laptop", Slug: "laptop"}
	s.Require().NoError(s.db.Create(&headphones).Error)
	s.Require().NoError(s.db.Create(&laptop).Error)

	s.cheap = models.SellerProduct{StoreID: s.store.ID, ProductID: headphones.ID, Price: decimal.RequireFromString("50.00"), Quantity: 10}
	s.pricey = models.SellerProduct{StoreID: s.store.ID, ProductID: laptop.ID, Price: decimal.RequireFromString("100.00"), Quantity: 5}
	s.Require().NoError(s.db.Create(&s.cheap).Error)
	s.Require().NoError(s.db.Create(&s.pricey).Error)
}

func (s *DiscountServiceTestSuite) createDiscount(req *CreateDiscountRequest) *models.ProductDiscount {
	discount, err := s.service.CreateDiscount(s.manager.ID, req)
	s.Require().NoError(err)
	return discount
}

func (s *DiscountServiceTestSuite) TestCreateDiscountRejectsExcessivePercentage() {
	_, err := s.service.CreateDiscount(s.manager.ID, &CreateDiscountRequest{
		Name:      "Broken Sale",
		Kind:      models.DiscountKindPercentage,
		Value:     decimal.RequireFromString("150"),
		ValidFrom: testNow,
		ValidTo:   testNow.AddDate(0, 0, 7),
	})
	s.Require().Error(err)
	s.ErrorIs(err, pricing.ErrInvalidDiscount)
}

func (s *DiscountServiceTestSuite) TestCreateDiscountRejectsNegativeValue() {
	_, err := s.service.CreateDiscount(s.manager.ID, &CreateDiscountRequest{
		Name:      "Negative Sale",
		Kind:      models.DiscountKindAmount,
		Value:     decimal.RequireFromString("-5"),
		ValidFrom: testNow,
		ValidTo:   testNow.AddDate(0, 0, 7),
	})
	s.Require().Error(err)
	s.ErrorIs(err, pricing.ErrInvalidDiscount)
}

func (s *DiscountServiceTestSuite) TestCreateDiscountRejectsInvertedWindow() {
	_, err := s.service.CreateDiscount(s.manager.ID, &CreateDiscountRequest{
		Name:      "Backwards Sale",
		Kind:      models.DiscountKindPercentage,
		Value:     decimal.RequireFromString("10"),
		ValidFrom: testNow.AddDate(0, 0, 7),
		ValidTo:   testNow,
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "valid_to")
}

func (s *DiscountServiceTestSuite) TestGetCurrentDiscountsFiltersByWindow() {
	s.createDiscount(&CreateDiscountRequest{
		Name:       "Running Sale",
		Kind:       models.DiscountKindPercentage,
		Value:      decimal.RequireFromString("20"),
		ValidFrom:  testNow.AddDate(0, 0, -1),
		ValidTo:    testNow.AddDate(0, 0, 1),
		ListingIDs: []uuid.UUID{s.cheap.ID},
	})
	s.createDiscount(&CreateDiscountRequest{
		Name:       "Expired Sale",
		Kind:       models.DiscountKindPercentage,
		Value:      decimal.RequireFromString("30"),
		ValidFrom:  testNow.AddDate(0, 0, -10),
		ValidTo:    testNow.AddDate(0, 0, -5),
		ListingIDs: []uuid.UUID{s.cheap.ID},
	})
	inactive := false
	s.createDiscount(&CreateDiscountRequest{
		Name:       "Disabled Sale",
		Kind:       models.DiscountKindPercentage,
		Value:      decimal.RequireFromString("40"),
		ValidFrom:  testNow.AddDate(0, 0, -1),
		ValidTo:    testNow.AddDate(0, 0, 1),
		IsActive:   &inactive,
		ListingIDs: []uuid.UUID{s.cheap.ID},
	})

	discounts, total, err := s.service.GetCurrentDiscounts(testPagination())
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(discounts, 1)
	s.Equal("Running Sale", discounts[0].Name)
}

func (s *DiscountServiceTestSuite) TestCurrentWindowBoundsAreInclusive() {
	// Window ends today: still current for the entire day.
	s.createDiscount(&CreateDiscountRequest{
		Name:       "Last Day Sale",
		Kind:       models.DiscountKindPercentage,
		Value:      decimal.RequireFromString("20"),
		ValidFrom:  testNow.AddDate(0, 0, -7),
		ValidTo:    testNow,
		ListingIDs: []uuid.UUID{s.cheap.ID},
	})

	_, total, err := s.service.GetCurrentDiscounts(testPagination())
	s.Require().NoError(err)
	s.Equal(int64(1), total)
}

func (s *DiscountServiceTestSuite) TestDiscountDetailAppliesPercentage() {
	s.createDiscount(&CreateDiscountRequest{
		Name:       "Laptop Sale",
		Kind:       models.DiscountKindPercentage,
		Value:      decimal.RequireFromString("20"),
		ValidFrom:  testNow.AddDate(0, 0, -1),
		ValidTo:    testNow.AddDate(0, 0, 1),
		ListingIDs: []uuid.UUID{s.pricey.ID},
	})

	detail, err := s.service.GetDiscountDetail("laptop-sale")
	s.Require().NoError(err)
	s.Require().Len(detail.Products, 1)

	product := detail.Products[0]
	s.True(product.Discounted)
	s.True(product.Price.Equal(decimal.RequireFromString("100.00")), "base price %s", product.Price)
	s.True(product.EffectivePrice.Equal(decimal.RequireFromString("80.00")), "effective price %s", product.EffectivePrice)
}

func (s *DiscountServiceTestSuite) TestDiscountDetailClampsAmountAtZero() {
	s.createDiscount(&CreateDiscountRequest{
		Name:       "Deep Cut",
		Kind:       models.DiscountKindAmount,
		Value:      decimal.RequireFromString("60"),
		ValidFrom:  testNow.AddDate(0, 0, -1),
		ValidTo:    testNow.AddDate(0, 0, 1),
		ListingIDs: []uuid.UUID{s.cheap.ID},
	})

	detail, err := s.service.GetDiscountDetail("deep-cut")
	s.Require().NoError(err)
	s.Require().Len(detail.Products, 1)

	product := detail.Products[0]
	s.True(product.Discounted)
	s.True(product.EffectivePrice.IsZero(), "effective price %s", product.EffectivePrice)
}

func (s *DiscountServiceTestSuite) TestExpiredDiscountLeavesBasePrices() {
	s.createDiscount(&CreateDiscountRequest{
		Name:       "Old Sale",
		Kind:       models.DiscountKindPercentage,
		Value:      decimal.RequireFromString("50"),
		ValidFrom:  testNow.AddDate(0, 0, -10),
		ValidTo:    testNow.AddDate(0, 0, -5),
		ListingIDs: []uuid.UUID{s.pricey.ID},
	})

	detail, err := s.service.GetDiscountDetail("old-sale")
	s.Require().NoError(err)
	s.Require().Len(detail.Products, 1)

	product := detail.Products[0]
	s.False(product.Discounted)
	s.True(product.EffectivePrice.Equal(product.Price))
}

func (s *DiscountServiceTestSuite) TestStoreWideDiscountPricesStoreFront() {
	s.createDiscount(&CreateDiscountRequest{
		Name:      "Store Party",
		Kind:      models.DiscountKindPercentage,
		Value:     decimal.RequireFromString("10"),
		ValidFrom: testNow.AddDate(0, 0, -1),
		ValidTo:   testNow.AddDate(0, 0, 1),
		StoreID:   &s.store.ID,
	})

	products, err := s.service.GetStoreFront(s.store.ID)
	s.Require().NoError(err)
	s.Require().Len(products, 2)

	for _, product := range products {
		s.True(product.Discounted, "listing %s", product.Listing.ID)
		expected := product.Price.Mul(decimal.RequireFromString("0.9")).Round(2)
		s.True(product.EffectivePrice.Equal(expected),
			"expected %s, got %s", expected, product.EffectivePrice)
	}
}

func (s *DiscountServiceTestSuite) TestStoreFrontWithoutDiscount() {
	products, err := s.service.GetStoreFront(s.store.ID)
	s.Require().NoError(err)
	s.Require().Len(products, 2)

	for _, product := range products {
		s.False(product.Discounted)
		s.True(product.EffectivePrice.Equal(product.Price))
	}
}

func (s *DiscountServiceTestSuite) TestStoreWideAndListingSetAreExclusive() {
	_, err := s.service.CreateDiscount(s.manager.ID, &CreateDiscountRequest{
		Name:       "Confused Sale",
		Kind:       models.DiscountKindPercentage,
		Value:      decimal.RequireFromString("10"),
		ValidFrom:  testNow,
		ValidTo:    testNow.AddDate(0, 0, 7),
		StoreID:    &s.store.ID,
		ListingIDs: []uuid.UUID{s.cheap.ID},
	})
	s.Require().Error(err)
}

func (s *DiscountServiceTestSuite) TestDeleteDiscount() {
	discount := s.createDiscount(&CreateDiscountRequest{
		Name:       "Short Lived",
		Kind:       models.DiscountKindAmount,
		Value:      decimal.RequireFromString("5"),
		ValidFrom:  testNow,
		ValidTo:    testNow.AddDate(0, 0, 7),
		ListingIDs: []uuid.UUID{s.cheap.ID},
	})

	s.Require().NoError(s.service.DeleteDiscount(discount.ID))

	_, _, err := s.service.GetCurrentDiscounts(testPagination())
	s.Require().NoError(err)

	_, err = s.service.GetDiscountDetail(discount.Slug)
	s.Require().Error(err)
}

func TestDiscountServiceSuite(t *testing.T) {
	suite.Run(t, new(DiscountServiceTestSuite))
}
