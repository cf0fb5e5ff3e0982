package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Products  *handlers.ProductHandler
	Invoices  *handlers.InvoiceHandler
	Stock     *handlers.StockHandler
	Dashboard *handlers.DashboardHandler
	Settings  *handlers.SettingsHandler
	Webhook   *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/webhook", h.Webhook.Verify)
	r.POST("/webhook", h.Webhook.Receive)
	r.POST("/send-message", h.Webhook.SendMessage)

	api := r.Group("/api")

	products := api.Group("/products")
	products.GET("", h.Products.List)
	products.POST("", h.Products.Create)
	products.GET("/:id", h.Products.Get)
	products.PUT("/:id", h.Products.Update)
	products.DELETE("/:id", h.Products.Delete)
	products.PATCH("/:id/reorder-level", h.Products.SetReorderLevel)

	register := api.Group("/registers/:terminal/invoice")
	register.GET("", h.Invoices.Current)
	register.POST("/new", h.Invoices.New)
	register.POST("/items", h.Invoices.AddItem)
	register.POST("/scan", h.Invoices.Scan)
	register.DELETE("/items/:itemID", h.Invoices.RemoveItem)
	register.POST("/save", h.Invoices.Save)
	register.POST("/print", h.Invoices.Print)

	api.POST("/invoices/totals", h.Invoices.Totals)

	api.GET("/stock/alerts", h.Stock.Alerts)
	api.POST("/stock/export", h.Stock.Export)
	api.POST("/stock/:id/order", h.Stock.Order)

	api.GET("/dashboard", h.Dashboard.Dashboard)
	api.GET("/statistics", h.Dashboard.Statistics)

	api.GET("/settings", h.Settings.Get)
	api.PUT("/settings/store", h.Settings.UpdateStore)
	api.PUT("/settings/tax", h.Settings.UpdateTax)
	api.PUT("/settings/printer", h.Settings.UpdatePrinter)
	api.PUT("/settings/preferences", h.Settings.UpdatePreferences)

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
