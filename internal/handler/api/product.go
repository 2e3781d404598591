package api

import (
	"net/http"

	reqdto "salonbook/internal/handler/dto/request"
	resdto "salonbook/internal/handler/dto/response"
	"salonbook/internal/handler/httperr"
	"salonbook/internal/handler/middleware"
	"salonbook/internal/usecase/commands"
	"salonbook/internal/usecase/queries"
	"salonbook/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	products *commands.ProductService
	query    *queries.CatalogQueryService
}

func NewCatalogHandler(products *commands.ProductService, query *queries.CatalogQueryService) *CatalogHandler {
	return &CatalogHandler{products: products, query: query}
}

// @Summary List products
// @Description Lists on-shelf products with display stock
// @Tags catalog
// @Produce json
// @Success 200 {array} queries.ProductView
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	views, err := h.query.ListProducts(c.Request.Context())
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Get product
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} queries.ProductView
// @Failure 404 {object} httperr.Response
// @Router /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	view, err := h.query.GetProduct(c.Request.Context(), id)
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List services
// @Tags catalog
// @Produce json
// @Success 200 {array} queries.ServiceItemView
// @Router /services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	views, err := h.query.ListServices(c.Request.Context())
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Create product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CreateProductRequest true "Product"
// @Success 201 {object} response.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req reqdto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request format", nil)
		return
	}

	id, err := h.products.Create(c.Request.Context(), middleware.GetActor(c), shared.CreateProductInput{
		Name:       req.Name,
		Category:   req.Category,
		PriceCents: req.PriceCents,
	})
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Update product
// @Description Partial update; only supplied fields change
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body request.UpdateProductRequest true "Fields to change"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/products/{id} [patch]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}

	var req reqdto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request format", nil)
		return
	}

	if err := h.products.Update(c.Request.Context(), middleware.GetActor(c), shared.UpdateProductInput{
		ID:         id,
		Name:       req.Name,
		Category:   req.Category,
		PriceCents: req.PriceCents,
		Status:     req.Status,
	}); err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
