// Package diag serves the on-bench diagnostic surface for a node:
// health, readiness, a live status snapshot, and Prometheus metrics.
package diag

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/mkuiper/rclink/internal/observability"
)

// StatusFunc returns a point-in-time snapshot of the node it serves.
type StatusFunc func() map[string]any

type Server struct {
	id       string
	appeared time.Time
	status   StatusFunc
	router   *gin.Engine
}

func New(id string, corsOrigins []string, status StatusFunc) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(id))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		id:       id,
		appeared: time.Now(),
		status:   status,
		router:   r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) error {
	log.Info().Str("node", s.id).Str("addr", addr).Msg("diag server listening")
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"node":    s.id,
			"version": "0.0.1",
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"uptime": time.Since(s.appeared).String(),
			"node":   s.id,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/status", func(c *gin.Context) {
		snapshot := map[string]any{}
		if s.status != nil {
			snapshot = s.status()
		}
		c.JSON(http.StatusOK, gin.H{
			"node":   s.id,
			"uptime": time.Since(s.appeared).String(),
			"state":  snapshot,
		})
	})
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
