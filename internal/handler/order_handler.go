package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"fooddelivery/internal/middleware"
	"fooddelivery/internal/model"
	"fooddelivery/internal/service/checkout"
	"fooddelivery/pkg/utils"
)

type checkoutService interface {
	CreateCheckout(ctx context.Context, customerID uint64, req *checkout.CheckoutRequest) (*model.Order, error)
	GetOrder(ctx context.Context, orderID uint64, user *checkout.UserInfo) (*model.Order, error)
	ListOrders(ctx context.Context, user *checkout.UserInfo, page, pageSize int) ([]*model.Order, int64, error)
	RefundOrder(ctx context.Context, orderID uint64, user *checkout.UserInfo) error
}

// OrderHandler order endpoints
type OrderHandler struct {
	service checkoutService
}

// NewOrderHandler create order handler
func NewOrderHandler(service checkoutService) *OrderHandler {
	return &OrderHandler{service: service}
}

// CreateCheckout POST /api/v1/orders
func (h *OrderHandler) CreateCheckout(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.Error(c, utils.CodeUnauthorized, "not authenticated")
		return
	}

	var req checkout.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, "invalid request body: "+err.Error())
		return
	}

	order, err := h.service.CreateCheckout(c.Request.Context(), userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// GetOrder GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		utils.Error(c, utils.CodeUnauthorized, "not authenticated")
		return
	}

	orderID, err := utils.ParseIDParam(c.Param("id"))
	if err != nil {
		utils.Error(c, utils.CodeInvalidParam, "invalid order id")
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), orderID, user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// ListOrders GET /api/v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		utils.Error(c, utils.CodeUnauthorized, "not authenticated")
		return
	}

	page, pageSize := parsePagination(c)

	orders, total, err := h.service.ListOrders(c.Request.Context(), user, page, pageSize)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessPageResponse(c, orders, total, page, pageSize)
}

// RefundOrder DELETE /api/v1/orders/:id
func (h *OrderHandler) RefundOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		utils.Error(c, utils.CodeUnauthorized, "not authenticated")
		return
	}

	orderID, err := utils.ParseIDParam(c.Param("id"))
	if err != nil {
		utils.Error(c, utils.CodeInvalidParam, "invalid order id")
		return
	}

	if err := h.service.RefundOrder(c.Request.Context(), orderID, user); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"order_id": orderID, "status": "refunded"})
}

func currentUser(c *gin.Context) (*checkout.UserInfo, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return nil, false
	}
	return &checkout.UserInfo{
		ID:      id,
		Role:    c.GetString(middleware.ContextUserRole),
		StoreID: middleware.CurrentStoreID(c),
	}, true
}

// parsePagination falls back to the defaults on anything out of range
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err := utils.ValidatePagination(page, pageSize); err != nil {
		return 1, 10
	}
	return page, pageSize
}
