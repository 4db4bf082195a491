package handlers

import (
	"context"
	"net/http"

	"github.com/Siddharth20050904/inventory-management/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders  services.OrderService
	changed func(ctx context.Context)
	logger  *zap.Logger
}

// NewOrderHandler wires the order endpoints. changed runs after every successful write; it may be nil.
func NewOrderHandler(orders services.OrderService, changed func(ctx context.Context), logger *zap.Logger) *OrderHandler {
	if changed == nil {
		changed = func(context.Context) {}
	}
	return &OrderHandler{orders: orders, changed: changed, logger: logger}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var in services.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request format")
		return
	}
	order, err := h.orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.changed(c.Request.Context())
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) List(c *gin.Context) {
	days, ok := queryInt(c, "days", 30)
	if !ok {
		return
	}
	orders, err := h.orders.ListRecentOrders(c.Request.Context(), days)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders, "total": len(orders)})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in services.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request format")
		return
	}
	order, err := h.orders.UpdateOrder(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.changed(c.Request.Context())
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orders.MarkDelivered(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.changed(c.Request.Context())
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) MarkPaid(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orders.MarkPaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.changed(c.Request.Context())
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.orders.CancelOrder(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.changed(c.Request.Context())
	c.Status(http.StatusNoContent)
}
