// Package httpapi exposes the work-order service as a local JSON API for a
// browser front-end running on the same machine.
package httpapi

import (
	"time"

	"github.com/dmitrijs2005/aircontrol/internal/client/services"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
	"github.com/gin-gonic/gin"
)

// NewRouter creates the gin engine with every route registered.
func NewRouter(wo services.WorkOrderService, log logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	h := NewHandler(wo, log)

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.Use(rateLimit(clientRate, clientBurst))
	{
		api.GET("/os", h.List)
		api.GET("/os/counts", h.Counts)
		api.GET("/os/:id", h.Detail)
		api.POST("/os", h.Create)
		api.PUT("/os/:id/status", h.SetStatus)
		api.DELETE("/os/:id", h.Delete)
		api.GET("/photos/:id", h.Photo)
	}

	return r
}

func requestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
