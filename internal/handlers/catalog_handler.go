package handlers

import (
	"context"
	"net/http"

	"github.com/Siddharth20050904/inventory-management/internal/models"
	"github.com/Siddharth20050904/inventory-management/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog services.CatalogService
	changed func(ctx context.Context)
	logger  *zap.Logger
}

func NewCatalogHandler(catalog services.CatalogService, changed func(ctx context.Context), logger *zap.Logger) *CatalogHandler {
	if changed == nil {
		changed = func(context.Context) {}
	}
	return &CatalogHandler{catalog: catalog, changed: changed, logger: logger}
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		badRequest(c, "invalid request format")
		return
	}
	if err := h.catalog.CreateProduct(c.Request.Context(), &product); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.changed(c.Request.Context())
	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": products, "total": len(products)})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		badRequest(c, "invalid request format")
		return
	}
	product.ID = id
	if err := h.catalog.UpdateProduct(c.Request.Context(), &product); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.changed(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		badRequest(c, "invalid request format")
		return
	}
	if err := h.catalog.CreateCustomer(c.Request.Context(), &customer); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	customers, err := h.catalog.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": customers, "total": len(customers)})
}

func (h *CatalogHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := h.catalog.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CatalogHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		badRequest(c, "invalid request format")
		return
	}
	customer.ID = id
	if err := h.catalog.UpdateCustomer(c.Request.Context(), &customer); err != nil {
		respondError(c, h.logger, err)
		return
	}
	updated, err := h.catalog.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
