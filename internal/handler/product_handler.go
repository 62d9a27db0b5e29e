package handler

import (
	"github.com/gin-gonic/gin"

	"fooddelivery/internal/repository"
	"fooddelivery/pkg/utils"
)

// ProductHandler product endpoints
type ProductHandler struct {
	products *repository.ProductRepository
}

// NewProductHandler create product handler
func NewProductHandler(products *repository.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListStoreProducts GET /api/v1/stores/:id/products
func (h *ProductHandler) ListStoreProducts(c *gin.Context) {
	storeID, err := utils.ParseIDParam(c.Param("id"))
	if err != nil {
		utils.Error(c, utils.CodeInvalidParam, "invalid store id")
		return
	}

	page, pageSize := parsePagination(c)

	products, total, err := h.products.ListByStore(c.Request.Context(), storeID, page, pageSize)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessPageResponse(c, products, total, page, pageSize)
}

// GetProduct GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := utils.ParseIDParam(c.Param("id"))
	if err != nil {
		utils.Error(c, utils.CodeInvalidParam, "invalid product id")
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), productID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}
