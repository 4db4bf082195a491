package handlers

import (
	"net/http"

	"github.com/Siddharth20050904/inventory-management/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PurchaseHandler struct {
	purchases services.PurchaseService
	logger    *zap.Logger
}

func NewPurchaseHandler(purchases services.PurchaseService, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, logger: logger}
}

func (h *PurchaseHandler) Create(c *gin.Context) {
	var in services.PurchaseOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request format")
		return
	}
	po, err := h.purchases.CreatePurchaseOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, po)
}

func (h *PurchaseHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}
	orders, err := h.purchases.ListPurchaseOrders(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders, "limit": limit, "offset": offset})
}

func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	po, err := h.purchases.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *PurchaseHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch services.PurchaseOrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request format")
		return
	}
	po, err := h.purchases.UpdatePurchaseOrderDetails(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *PurchaseHandler) MarkDelivered(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	po, err := h.purchases.MarkPurchaseDelivered(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *PurchaseHandler) MarkPaid(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	po, err := h.purchases.MarkPurchasePaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, po)
}
