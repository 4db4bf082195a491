package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	API       *APIHandler
	Orders    *OrderHandler
	Purchases *PurchaseHandler
	Catalog   *CatalogHandler
	Reports   *ReportHandler
}

func NewRouter(h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	api := router.Group("/api")
	{
		api.GET("/health", h.API.Health)

		orders := api.Group("/orders")
		orders.POST("", h.Orders.Create)
		orders.GET("", h.Orders.List)
		orders.GET("/:id", h.Orders.Get)
		orders.PUT("/:id", h.Orders.Update)
		orders.POST("/:id/deliver", h.Orders.MarkDelivered)
		orders.POST("/:id/pay", h.Orders.MarkPaid)
		orders.DELETE("/:id", h.Orders.Cancel)

		purchases := api.Group("/purchase-orders")
		purchases.POST("", h.Purchases.Create)
		purchases.GET("", h.Purchases.List)
		purchases.GET("/:id", h.Purchases.Get)
		purchases.PATCH("/:id", h.Purchases.Update)
		purchases.POST("/:id/deliver", h.Purchases.MarkDelivered)
		purchases.POST("/:id/pay", h.Purchases.MarkPaid)

		products := api.Group("/products")
		products.POST("", h.Catalog.CreateProduct)
		products.GET("", h.Catalog.ListProducts)
		products.GET("/:id", h.Catalog.GetProduct)
		products.PUT("/:id", h.Catalog.UpdateProduct)
		products.DELETE("/:id", h.Catalog.DeleteProduct)

		customers := api.Group("/customers")
		customers.POST("", h.Catalog.CreateCustomer)
		customers.GET("", h.Catalog.ListCustomers)
		customers.GET("/:id", h.Catalog.GetCustomer)
		customers.PUT("/:id", h.Catalog.UpdateCustomer)
		customers.DELETE("/:id", h.Catalog.DeleteCustomer)

		reports := api.Group("/reports")
		reports.GET("/dashboard", h.Reports.Dashboard)
		reports.GET("/sales", h.Reports.Sales)
		reports.GET("/orders", h.Reports.Orders)

		api.GET("/payments/pending", h.Reports.PendingPayments)
		api.POST("/payments/reminders", h.Reports.SendReminders)
	}

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
