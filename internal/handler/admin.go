package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/flicky/go-shop/internal/dto"
	"github.com/flicky/go-shop/internal/middleware"
	"github.com/flicky/go-shop/internal/model"
	"github.com/flicky/go-shop/internal/service"
)

type AdminHandler struct {
	shop *service.Shop
}

func NewAdminHandler(shop *service.Shop) *AdminHandler {
	return &AdminHandler{shop: shop}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.shop.Users(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		writeError(c, err)
		return
	}

	items := lo.Map(users, func(u *model.User, _ int) dto.UserResponse {
		return toUserResponse(u)
	})
	c.JSON(http.StatusOK, dto.UserListResponse{Users: items, Total: len(items)})
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.shop.AllOrders(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderListResponse(orders))
}

func (h *AdminHandler) SetOrderStatus(c *gin.Context) {
	var req dto.SetOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := model.ParseOrderStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "valid_statuses": model.OrderStatuses()})
		return
	}

	order, err := h.shop.SetOrderStatus(c.Request.Context(), middleware.GetSession(c), c.Param("id"), status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}
