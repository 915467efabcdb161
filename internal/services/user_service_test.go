// internal/services/user_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/megano/storefront/internal/models"
)

type UserServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *UserService

	user models.User
}

func (s *UserServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewUserService(s.db)

	s.user = models.User{Username: "casey", Email: "casey@example.com", Role: models.UserRoleSeller, Status: models.UserStatusActive}
	s.Require().NoError(s.db.Create(&s.user).Error)
}

func (s *UserServiceTestSuite) TestGetUser() {
	user, err := s.service.GetUser(s.user.ID)
	s.Require().NoError(err)
	s.Equal("casey", user.Username)
}

func (s *UserServiceTestSuite) TestUpdateProfileNormalizesPhone() {
	user, err := s.service.UpdateProfile(s.user.ID, &UpdateProfileRequest{
		Phone: "+7 (900) 123-45-67",
		City:  "Kazan",
	})
	s.Require().NoError(err)
	s.Equal("+79001234567", user.Phone)
	s.Equal("Kazan", user.City)
}

func (s *UserServiceTestSuite) TestUpdateProfileKeepsUntouchedFields() {
	_, err := s.service.UpdateProfile(s.user.ID, &UpdateProfileRequest{City: "Kazan"})
	s.Require().NoError(err)

	user, err := s.service.UpdateProfile(s.user.ID, &UpdateProfileRequest{FirstName: "Casey"})
	s.Require().NoError(err)
	s.Equal("Kazan", user.City)
	s.Equal("Casey", user.FirstName)
}

func (s *UserServiceTestSuite) TestDeleteAccountDisablesStores() {
	store := models.Store{OwnerID: s.user.ID, Name: "Casey's Corner", Slug: "caseys-corner", Status: models.StoreStatusActive}
	s.Require().NoError(s.db.Create(&store).Error)

	s.Require().NoError(s.service.DeleteAccount(s.user.ID))

	_, err := s.service.GetUser(s.user.ID)
	s.Require().Error(err)

	var reloaded models.Store
	s.Require().NoError(s.db.First(&reloaded, store.ID).Error)
	s.Equal(models.StoreStatusDisabled, reloaded.Status)
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
