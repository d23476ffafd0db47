package app

import (
	_ "github.com/Nazarious-ucu/weather-updates/docs"
	"github.com/Nazarious-ucu/weather-updates/internal/handlers/subscription"
	"github.com/Nazarious-ucu/weather-updates/internal/handlers/weather"
	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
)

// NewRouter mounts the public API under /api plus swagger and metrics.
func NewRouter(m *metrics.Metrics, subHandler *subscription.Handler, weatherHandler *weather.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), m.HTTPMiddleware())

	api := router.Group("/api")
	api.POST("/subscribe", subHandler.Subscribe)
	api.GET("/confirm/:token", subHandler.Confirm)
	api.GET("/unsubscribe/:token", subHandler.Unsubscribe)
	api.GET("/weather", weatherHandler.GetWeather)

	router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))

	return router
}
