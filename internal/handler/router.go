package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sayso-interpreter/internal/middleware"
	"sayso-interpreter/internal/service"
)

// Router 注册路由与中间件；allowedOrigins 为空时允许任意来源
func Router(svc *service.MessageService, logger *zap.Logger, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery(logger), middleware.Logger(logger))
	r.Use(cors.New(corsConfig(allowedOrigins)))

	h := NewMessageHandler(svc)
	v1 := r.Group("/api/v1")
	{
		v1.POST("/parse", h.Parse)
		v1.POST("/message", h.Message)
		v1.GET("/intents", h.Intents)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cfg
}
