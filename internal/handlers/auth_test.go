// internal/handlers/auth_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/megano/storefront/internal/config"
	"github.com/megano/storefront/internal/middleware"
	"github.com/megano/storefront/internal/models"
	"github.com/megano/storefront/internal/services"
	"github.com/megano/storefront/internal/utils"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

// newTestEnv wires the route tree the way the production router does,
// minus the rate limiters so tests do not trip shared buckets.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	storageService, err := services.NewStorageService(cfg)
	require.NoError(t, err)

	authService := services.NewAuthService(db, cfg, nil)
	userService := services.NewUserService(db)
	storeService := services.NewStoreService(db)
	catalogService := services.NewCatalogService(db, nil)
	discountService := services.NewDiscountService(db)
	adminService := services.NewAdminService(db, nil)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService, storageService)
	storeHandler := NewStoreHandler(storeService, discountService, storageService)
	catalogHandler := NewCatalogHandler(catalogService, storageService)
	adminHandler := NewAdminHandler(adminService)

	r := gin.New()
	r.Use(middleware.I18nMiddleware())

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.PUT("/profile", userHandler.UpdateProfile)
		}

		seller := v1.Group("/seller")
		seller.Use(middleware.AuthRequired(), middleware.SellerRequired())
		{
			seller.GET("/stores", storeHandler.GetMyStores)
		}

		manager := v1.Group("/manager")
		manager.Use(middleware.AuthRequired(), middleware.ManagerRequired())
		{
			manager.GET("/product-requests", catalogHandler.GetProductRequests)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
		}
	}

	return &testEnv{db: db, router: r}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

type AuthRoutesTestSuite struct {
	suite.Suite
	env *testEnv
}

func (s *AuthRoutesTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
}

func (s *AuthRoutesTestSuite) register() map[string]interface{} {
	w := s.env.request(s.T(), "POST", "/v1/auth/register", "", gin.H{
		"username": "casey",
		"email":    "casey@example.com",
		"password": "SecretPass123!",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	response := decodeResponse(s.T(), w)
	s.Require().True(response["success"].(bool))
	return response["data"].(map[string]interface{})
}

func (s *AuthRoutesTestSuite) TestRegisterLoginAndProfile() {
	data := s.register()
	s.NotEmpty(data["token"])
	s.NotEmpty(data["refresh_token"])

	w := s.env.request(s.T(), "POST", "/v1/auth/login", "", gin.H{
		"email":    "casey@example.com",
		"password": "SecretPass123!",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	token := decodeResponse(s.T(), w)["data"].(map[string]interface{})["token"].(string)
	s.Require().NotEmpty(token)

	w = s.env.request(s.T(), "GET", "/v1/auth/me", token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	user := decodeResponse(s.T(), w)["data"].(map[string]interface{})["user"].(map[string]interface{})
	s.Equal("casey@example.com", user["email"])
	s.Equal("buyer", user["role"])
}

func (s *AuthRoutesTestSuite) TestLoginRejectsWrongPassword() {
	s.register()

	w := s.env.request(s.T(), "POST", "/v1/auth/login", "", gin.H{
		"email":    "casey@example.com",
		"password": "WrongPass123!",
	})
	s.Require().Equal(http.StatusUnauthorized, w.Code)

	response := decodeResponse(s.T(), w)
	s.False(response["success"].(bool))
}

func (s *AuthRoutesTestSuite) TestRefreshTokenRoundTrip() {
	data := s.register()
	refreshToken := data["refresh_token"].(string)

	w := s.env.request(s.T(), "POST", "/v1/auth/refresh", "", gin.H{
		"refresh_token": refreshToken,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.NotEmpty(decodeResponse(s.T(), w)["data"].(map[string]interface{})["token"])
}

func (s *AuthRoutesTestSuite) TestProfileRequiresToken() {
	w := s.env.request(s.T(), "GET", "/v1/auth/me", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthRoutesTestSuite) TestProfileRejectsGarbageToken() {
	w := s.env.request(s.T(), "GET", "/v1/auth/me", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthRoutesTestSuite) TestRegisterValidatesInput() {
	w := s.env.request(s.T(), "POST", "/v1/auth/register", "", gin.H{
		"username": "casey",
		"email":    "not-an-email",
		"password": "weak",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func TestAuthRoutesSuite(t *testing.T) {
	suite.Run(t, new(AuthRoutesTestSuite))
}
