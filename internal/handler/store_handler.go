package handler

import (
	"github.com/gin-gonic/gin"

	"fooddelivery/internal/repository"
	"fooddelivery/pkg/utils"
)

// StoreHandler store endpoints
type StoreHandler struct {
	stores *repository.StoreRepository
}

// NewStoreHandler create store handler
func NewStoreHandler(stores *repository.StoreRepository) *StoreHandler {
	return &StoreHandler{stores: stores}
}

// ListStores GET /api/v1/stores
func (h *StoreHandler) ListStores(c *gin.Context) {
	page, pageSize := parsePagination(c)
	category := c.Query("category")

	stores, total, err := h.stores.List(c.Request.Context(), page, pageSize, category)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessPageResponse(c, stores, total, page, pageSize)
}

// GetStore GET /api/v1/stores/:id
func (h *StoreHandler) GetStore(c *gin.Context) {
	storeID, err := utils.ParseIDParam(c.Param("id"))
	if err != nil {
		utils.Error(c, utils.CodeInvalidParam, "invalid store id")
		return
	}

	store, err := h.stores.GetByID(c.Request.Context(), storeID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, store)
}
