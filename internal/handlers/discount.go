// internal/handlers/discount.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/megano/storefront/internal/i18n"
	"github.com/megano/storefront/internal/services"
	"github.com/megano/storefront/internal/utils"
)

type DiscountHandler struct {
	discountService *services.DiscountService
}

func NewDiscountHandler(discountService *services.DiscountService) *DiscountHandler {
	return &DiscountHandler{
		discountService: discountService,
	}
}

// GET /discounts
//
// Public list of campaigns running today.
func (h *DiscountHandler) GetCurrentDiscounts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	discounts, total, err := h.discountService.GetCurrentDiscounts(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(discounts, total, params))
}

// GET /discounts/:slug
//
// Campaign page with effective prices for every covered listing.
func (h *DiscountHandler) GetDiscountDetail(c *gin.Context) {
	detail, err := h.discountService.GetDiscountDetail(c.Param("slug"))
	if err != nil {
		utils.NotFoundResponse(c, "discount")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"discount": detail.Discount,
		"products": detail.Products,
	})
}

// POST /manager/discounts
func (h *DiscountHandler) CreateDiscount(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	managerID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	discount, err := h.discountService.CreateDiscount(managerID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyDiscountCreated),
		"discount": discount,
	})
}

// PUT /manager/discounts/:id
func (h *DiscountHandler) UpdateDiscount(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	discountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid discount ID", nil)
		return
	}

	var req services.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	discount, err := h.discountService.UpdateDiscount(discountID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyDiscountUpdated),
		"discount": discount,
	})
}

// DELETE /manager/discounts/:id
func (h *DiscountHandler) DeleteDiscount(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	discountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid discount ID", nil)
		return
	}

	if err := h.discountService.DeleteDiscount(discountID); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDiscountDeleted),
	})
}
