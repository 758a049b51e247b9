package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tidianess/assetflow/internal/server/handlers"
	"github.com/tidianess/assetflow/internal/server/middleware"
)

// Handlers bundles the HTTP adapters wired into the engine.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Stock     *handlers.StockHandler
	Materials *handlers.MaterialHandler
	Assets    *handlers.AssetHandler
	Export    *handlers.ExportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, jwtSecret string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/auth/login", h.Auth.Login)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api", middleware.RequireAuth(jwtSecret, logger))

	stock := api.Group("/stock")
	{
		stock.POST("/items", h.Stock.CreateItem)
		stock.GET("/items", h.Stock.ListItems)
		stock.GET("/items/:code", h.Stock.GetItem)
		stock.DELETE("/items/:code", h.Stock.RetireItem)
		stock.GET("/items/:code/summary", h.Stock.Summary)
		stock.GET("/items/:code/history", h.Stock.History)
		stock.GET("/summary", h.Stock.SummaryAll)

		stock.POST("/issues", h.Stock.Issue)
		stock.POST("/returns", h.Stock.Return)
		stock.POST("/adjustments", h.Stock.Adjust)

		stock.POST("/requests", h.Stock.CreateRequest)
		stock.GET("/requests", h.Stock.ListRequests)
		stock.POST("/requests/:ref/reject", h.Stock.RejectRequest)
	}

	materials := api.Group("/materials")
	{
		materials.POST("", h.Materials.Register)
		materials.GET("", h.Materials.List)
		materials.GET("/:code", h.Materials.Get)
		materials.GET("/:code/valuation", h.Materials.Valuation)
		materials.POST("/:code/dispose", h.Materials.Dispose)
	}

	equipment := api.Group("/equipment")
	{
		equipment.POST("", h.Assets.Register)
		equipment.GET("", h.Assets.List)
		equipment.GET("/:tag", h.Assets.Get)
		equipment.PATCH("/:tag/status", h.Assets.SetStatus)
		equipment.POST("/:tag/transfers", h.Assets.Transfer)
		equipment.GET("/:tag/transfers", h.Assets.Transfers)
		equipment.POST("/:tag/certificates", h.Assets.AddCertificate)
		equipment.GET("/:tag/certificates", h.Assets.Certificates)
	}
	api.GET("/certificates/expiring", h.Assets.ExpiringCertificates)

	export := api.Group("/export")
	{
		export.GET("/templates/:kind", h.Export.Template)
		export.GET("/stock-report", h.Export.StockReport)
	}

	if logger != nil {
		logger.Info("router initialized")
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
