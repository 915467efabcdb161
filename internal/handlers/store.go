// internal/handlers/store.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/megano/storefront/internal/i18n"
	"github.com/megano/storefront/internal/services"
	"github.com/megano/storefront/internal/utils"
)

type StoreHandler struct {
	storeService    *services.StoreService
	discountService *services.DiscountService
	storageService  *services.StorageService
}

func NewStoreHandler(storeService *services.StoreService, discountService *services.DiscountService, storageService *services.StorageService) *StoreHandler {
	return &StoreHandler{
		storeService:    storeService,
		discountService: discountService,
		storageService:  storageService,
	}
}

// POST /seller/stores
func (h *StoreHandler) CreateStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	store, err := h.storeService.CreateStore(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreCreated),
		"store":   store,
	})
}

// GET /seller/stores
func (h *StoreHandler) GetMyStores(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stores, err := h.storeService.GetUserStores(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stores": stores,
	})
}

// GET /stores/:slug
//
// Public store page: the store itself plus its listings priced against
// the store's current store-wide discount.
func (h *StoreHandler) GetStore(c *gin.Context) {
	slug := c.Param("slug")

	store, err := h.storeService.GetStoreBySlug(slug)
	if err != nil {
		utils.NotFoundResponse(c, "store")
		return
	}

	products, err := h.discountService.GetStoreFront(store.ID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"store":    store,
		"products": products,
	})
}

// PUT /seller/stores/:id
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	var req services.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	store, err := h.storeService.UpdateStore(storeID, userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreUpdated),
		"store":   store,
	})
}

// DELETE /seller/stores/:id
func (h *StoreHandler) DeleteStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	if err := h.storeService.DeleteStore(storeID, userID); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreDeleted),
	})
}

// POST /seller/stores/:id/logo
func (h *StoreHandler) UploadLogo(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	file, header, err := c.Request.FormFile("logo")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()

	options := h.storageService.GetDefaultUploadOptions("store_logos")
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	store, err := h.storeService.UpdateStore(storeID, userID, &services.UpdateStoreRequest{LogoURL: result.URL})
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyFileUploadSuccess),
		"logo_url": store.LogoURL,
	})
}
