package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouterConfig holds the HTTP surface settings.
type RouterConfig struct {
	CORSOrigins    []string
	CORSAllowAll   bool
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires the routes and middleware of the report service.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	corsConfig := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", requestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	router.Use(cors.New(corsConfig))

	uploadHandlers := []gin.HandlerFunc{}
	if cfg.RateLimitRPS > 0 {
		limiter := NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
		uploadHandlers = append(uploadHandlers, limiter.RateLimit(h))
	}
	uploadHandlers = append(uploadHandlers, h.HandleUpload)

	router.POST("/upload", uploadHandlers...)
	router.GET("/healthcheck", h.HandleHealthcheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
