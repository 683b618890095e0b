package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// authMiddleware checks the X-Auth-Key header on protected routes. An empty
// configured key disables the check, which is only sensible for local paper
// trading.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.AuthKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-Auth-Key") != s.cfg.AuthKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid or missing X-Auth-Key"})
			return
		}
		c.Next()
	}
}

// corsMiddleware allows cross-origin calls from webhook tooling and the
// dashboard.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Auth-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// metricsMiddleware records per-route request counts and latency.
func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.recorder.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
