package handlers

import (
	"net/http"
	"time"

	"github.com/Siddharth20050904/inventory-management/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type ReportHandler struct {
	reports   services.ReportService
	orders    services.OrderService
	reminders services.ReminderService
	logger    *zap.Logger
}

func NewReportHandler(reports services.ReportService, orders services.OrderService, reminders services.ReminderService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, orders: orders, reminders: reminders, logger: logger}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	d, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *ReportHandler) Sales(c *gin.Context) {
	r := services.SalesRange(c.DefaultQuery("range", string(services.RangeMonthly)))
	points, err := h.reports.SalesAndProfit(c.Request.Context(), r)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": r, "points": points})
}

// Orders lists orders created between from and to, both inclusive calendar days.
func (h *ReportHandler) Orders(c *gin.Context) {
	from, err := time.ParseInLocation(dateLayout, c.Query("from"), time.Local)
	if err != nil {
		badRequest(c, "from must be YYYY-MM-DD")
		return
	}
	to, err := time.ParseInLocation(dateLayout, c.Query("to"), time.Local)
	if err != nil {
		badRequest(c, "to must be YYYY-MM-DD")
		return
	}
	orders, err := h.orders.ListOrdersBetween(c.Request.Context(), from, to.AddDate(0, 0, 1).Add(-time.Nanosecond))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders, "total": len(orders)})
}

func (h *ReportHandler) PendingPayments(c *gin.Context) {
	orders, err := h.reports.PendingPayments(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders, "total": len(orders)})
}

func (h *ReportHandler) SendReminders(c *gin.Context) {
	run, err := h.reminders.SendOverdueReminders(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
