package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/flicky/go-shop/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Role       model.Role `json:"role"`
	OrderCount int        `json:"order_count"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// --- Account ---

type RenameRequest struct {
	Username string `json:"username" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// --- Product ---

type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Manufacturer string          `json:"manufacturer"`
	Price        decimal.Decimal `json:"price"`
	Categories   []string        `json:"categories"`
	Rating       *float64        `json:"rating,omitempty"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// SearchRequest selects one filter. Keyword and manufacturer searches use Q;
// price searches use Min and Max, both inclusive.
type SearchRequest struct {
	Kind string `form:"kind,default=keyword" binding:"oneof=keyword price manufacturer"`
	Q    string `form:"q"`
	Min  string `form:"min"`
	Max  string `form:"max"`
}

type RateProductRequest struct {
	Rating float64 `json:"rating" binding:"required"`
}

// --- Cart ---

type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type RemoveCartItemRequest struct {
	Quantity int `form:"quantity" binding:"required,min=1"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

type CartItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// --- Order ---

type OrderResponse struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	Status     model.OrderStatus   `json:"status"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"created_at"`
}

type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

type SetOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
