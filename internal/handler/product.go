package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/flicky/go-shop/internal/cache"
	"github.com/flicky/go-shop/internal/dto"
	"github.com/flicky/go-shop/internal/filter"
	"github.com/flicky/go-shop/internal/middleware"
	"github.com/flicky/go-shop/internal/model"
	"github.com/flicky/go-shop/internal/service"
)

type ProductHandler struct {
	shop  *service.Shop
	cache *cache.ProductCache
}

// NewProductHandler serves the catalog. productCache may be nil.
func NewProductHandler(shop *service.Shop, productCache *cache.ProductCache) *ProductHandler {
	return &ProductHandler{shop: shop, cache: productCache}
}

func (h *ProductHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var resp dto.ProductListResponse
	if h.cache.GetList(ctx, &resp) {
		c.JSON(http.StatusOK, resp)
		return
	}

	gen := h.cache.Generation(ctx)
	resp = toProductListResponse(h.shop.Products(ctx))
	h.cache.SetList(ctx, gen, resp)
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var resp dto.ProductResponse
	if h.cache.GetProduct(ctx, id, &resp) {
		c.JSON(http.StatusOK, resp)
		return
	}

	gen := h.cache.Generation(ctx)
	p, err := h.shop.Product(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	resp = toProductResponse(p)
	h.cache.SetProduct(ctx, gen, id, resp)
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := buildFilter(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toProductListResponse(h.shop.Search(c.Request.Context(), f)))
}

func (h *ProductHandler) Rate(c *gin.Context) {
	var req dto.RateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	p, err := h.shop.RateProduct(ctx, middleware.GetSession(c), c.Param("id"), req.Rating)
	if err != nil {
		writeError(c, err)
		return
	}

	h.cache.Invalidate(ctx, p.ID())
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Recommendations(c *gin.Context) {
	products := h.shop.Recommendations(c.Request.Context(), middleware.GetSession(c))
	c.JSON(http.StatusOK, toProductListResponse(products))
}

func buildFilter(req dto.SearchRequest) (filter.Filter, error) {
	switch req.Kind {
	case "price":
		minPrice, err := decimal.NewFromString(req.Min)
		if err != nil {
			return nil, fmt.Errorf("invalid min price %q", req.Min)
		}
		maxPrice, err := decimal.NewFromString(req.Max)
		if err != nil {
			return nil, fmt.Errorf("invalid max price %q", req.Max)
		}
		return filter.NewPriceRange(minPrice, maxPrice), nil
	case "manufacturer":
		return filter.NewManufacturer(req.Q), nil
	default:
		return filter.NewKeyword(req.Q), nil
	}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:           p.ID(),
		Name:         p.Name(),
		Manufacturer: p.Manufacturer(),
		Price:        p.Price(),
		Categories:   p.Categories(),
	}
	if r, ok := p.Rating(); ok {
		resp.Rating = lo.ToPtr(r)
	}
	return resp
}

func toProductListResponse(products []*model.Product) dto.ProductListResponse {
	items := lo.Map(products, func(p *model.Product, _ int) dto.ProductResponse {
		return toProductResponse(p)
	})
	return dto.ProductListResponse{Products: items, Total: len(items)}
}
