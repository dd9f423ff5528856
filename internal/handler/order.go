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

type OrderHandler struct {
	shop *service.Shop
}

func NewOrderHandler(shop *service.Shop) *OrderHandler {
	return &OrderHandler{shop: shop}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	order, err := h.shop.PlaceOrder(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders := h.shop.Orders(c.Request.Context(), middleware.GetSession(c))
	c.JSON(http.StatusOK, toOrderListResponse(orders))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.shop.Order(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) ReturnOrder(c *gin.Context) {
	order, err := h.shop.ReturnOrder(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	orderItems := order.Items()
	items := make([]dto.OrderItemResponse, 0, len(orderItems))
	for _, item := range orderItems {
		items = append(items, dto.OrderItemResponse{
			ProductID: item.Product.ID(),
			Name:      item.Product.Name(),
			Quantity:  item.Quantity,
			Price:     item.Product.Price(),
		})
	}
	return dto.OrderResponse{
		ID:         order.ID(),
		UserID:     order.UserID(),
		Status:     order.Status(),
		TotalPrice: order.TotalPrice(),
		Items:      items,
		CreatedAt:  order.CreatedAt(),
	}
}

func toOrderListResponse(orders []*model.Order) dto.OrderListResponse {
	items := lo.Map(orders, func(o *model.Order, _ int) dto.OrderResponse {
		return toOrderResponse(o)
	})
	return dto.OrderListResponse{Orders: items, Total: len(items)}
}
