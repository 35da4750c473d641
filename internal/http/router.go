package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"stockd/internal/config"
	"stockd/internal/http/controller"
	"stockd/internal/http/middleware"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
		otelgin.Middleware(cfg.OTELServiceName),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(200)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	inv := router.Group("/inventory")
	inv.POST("/add", handler.Add)
	inv.POST("/remove", handler.Remove)
	inv.GET("", handler.Report)
	inv.GET("/items/:item", handler.Quantity)
	inv.GET("/low-stock", handler.LowStock)
	inv.GET("/log", handler.LogEntries)
	inv.POST("/save", handler.SaveFile)
	inv.POST("/load", handler.LoadFile)
	inv.POST("/adjust/publish", handler.PublishAdjustment)

	router.GET("/events", handler.Events)

	return router
}
