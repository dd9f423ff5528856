package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/flicky/go-shop/internal/dto"
	"github.com/flicky/go-shop/internal/middleware"
	"github.com/flicky/go-shop/internal/model"
	"github.com/flicky/go-shop/internal/service"
)

type CartHandler struct {
	shop *service.Shop
}

func NewCartHandler(shop *service.Shop) *CartHandler {
	return &CartHandler{shop: shop}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart := h.shop.Cart(c.Request.Context(), middleware.GetSession(c))
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := middleware.GetSession(c)
	if err := h.shop.AddToCart(c.Request.Context(), sess, req.ProductID, req.Quantity); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCartResponse(sess.User.Cart))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req dto.RemoveCartItemRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := middleware.GetSession(c)
	if err := h.shop.RemoveFromCart(c.Request.Context(), sess, c.Param("product_id"), req.Quantity); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCartResponse(sess.User.Cart))
}

func toCartResponse(cart *model.Cart) dto.CartResponse {
	cartItems := cart.Items()
	items := make([]dto.CartItemResponse, 0, len(cartItems))
	total := decimal.Zero
	for _, item := range cartItems {
		total = total.Add(item.LineTotal())
		items = append(items, dto.CartItemResponse{
			ProductID: item.Product.ID(),
			Name:      item.Product.Name(),
			Price:     item.Product.Price(),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}
	return dto.CartResponse{Items: items, TotalPrice: total}
}
