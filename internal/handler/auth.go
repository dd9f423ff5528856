package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flicky/go-shop/internal/dto"
	"github.com/flicky/go-shop/internal/middleware"
	"github.com/flicky/go-shop/internal/model"
	"github.com/flicky/go-shop/internal/service"
)

type AuthHandler struct {
	shop      *service.Shop
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthHandler(shop *service.Shop, jwtSecret string, jwtExpiry time.Duration) *AuthHandler {
	return &AuthHandler{shop: shop, jwtSecret: jwtSecret, jwtExpiry: jwtExpiry}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.shop.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.shop.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, sess, h.jwtExpiry)
	if err != nil {
		h.shop.Logout(c.Request.Context(), sess.ID)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: toUserResponse(sess.User)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.shop.Logout(c.Request.Context(), middleware.GetSession(c).ID)
	c.Status(http.StatusNoContent)
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Username:   u.Username(),
		Role:       u.Role,
		OrderCount: u.OrderCount(),
	}
}
