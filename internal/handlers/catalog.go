// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/megano/storefront/internal/i18n"
	"github.com/megano/storefront/internal/models"
	"github.com/megano/storefront/internal/services"
	"github.com/megano/storefront/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
	storageService *services.StorageService
}

func NewCatalogHandler(catalogService *services.CatalogService, storageService *services.StorageService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		storageService: storageService,
	}
}

// GET /catalog/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalogService.GetCategories()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"categories": categories,
	})
}

// GET /catalog/products
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	params := services.ProductSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		categoryID, err := uuid.Parse(categoryIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid category ID", nil)
			return
		}
		params.CategoryID = &categoryID
	}

	if tags := c.QueryArray("tag"); len(tags) > 0 {
		params.Tags = tags
	}

	products, total, err := h.catalogService.SearchProducts(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params.PaginationParams))
}

// GET /catalog/products/:slug
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProductBySlug(c.Param("slug"))
	if err != nil {
		utils.NotFoundResponse(c, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// POST /seller/product-requests
func (h *CatalogHandler) SubmitProductRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.SubmitProductRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	request, err := h.catalogService.SubmitProductRequest(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRequestSubmitted),
		"request": request,
	})
}

// GET /manager/product-requests
func (h *CatalogHandler) GetProductRequests(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.ReviewStatus(c.DefaultQuery("status", string(models.ReviewStatusPending)))

	requests, total, err := h.catalogService.GetProductRequests(status, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}

// POST /manager/product-requests/:id/approve
func (h *CatalogHandler) ApproveProductRequest(c *gin.Context) {
	h.reviewProductRequest(c, true)
}

// POST /manager/product-requests/:id/reject
func (h *CatalogHandler) RejectProductRequest(c *gin.Context) {
	h.reviewProductRequest(c, false)
}

func (h *CatalogHandler) reviewProductRequest(c *gin.Context, approve bool) {
	lang := utils.GetLangFromContext(c)
	managerID, ok := requireUserID(c)
	if !ok {
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID", nil)
		return
	}

	var req services.ReviewProductRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	var request *models.ProductRequest
	var messageKey string
	if approve {
		request, err = h.catalogService.ApproveProductRequest(requestID, managerID, &req)
		messageKey = i18n.KeyRequestApproved
	} else {
		request, err = h.catalogService.RejectProductRequest(requestID, managerID, &req)
		messageKey = i18n.KeyRequestRejected
	}
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"request": request,
	})
}

// POST /seller/product-requests/upload-images
func (h *CatalogHandler) UploadProductImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	_, ok := requireUserID(c)
	if !ok {
		return
	}

	// Parse multipart form
	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, "No images uploaded", nil)
		return
	}

	var uploadedImages []map[string]interface{}
	options := h.storageService.GetDefaultUploadOptions("products")

	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			continue
		}

		// Validate image
		if err := h.storageService.ValidateImage(file); err != nil {
			file.Close()
			continue
		}

		result, err := h.storageService.UploadFile(file, fileHeader, options)
		file.Close()

		if err != nil {
			continue
		}

		uploadedImages = append(uploadedImages, map[string]interface{}{
			"url":       result.URL,
			"key":       result.Key,
			"size":      result.Size,
			"mime_type": result.MimeType,
		})
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"images":  uploadedImages,
	})
}
