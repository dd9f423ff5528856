package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/go-shop/internal/dto"
	"github.com/flicky/go-shop/internal/middleware"
	"github.com/flicky/go-shop/internal/service"
)

type AccountHandler struct {
	shop *service.Shop
}

func NewAccountHandler(shop *service.Shop) *AccountHandler {
	return &AccountHandler{shop: shop}
}

func (h *AccountHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, toUserResponse(middleware.GetSession(c).User))
}

func (h *AccountHandler) Rename(c *gin.Context) {
	var req dto.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := middleware.GetSession(c)
	if err := h.shop.RenameSelf(c.Request.Context(), sess, req.Username); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(sess.User))
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.shop.ChangePassword(c.Request.Context(), middleware.GetSession(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
