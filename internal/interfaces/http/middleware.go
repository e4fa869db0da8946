package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Identity headers. Authentication happens upstream of this service; the
// handlers trust these headers and rely on path-scoped collections for
// isolation. A missing header means the caller is unauthenticated, which
// yields empty reads and loud write failures.
const (
	headerAccountID = "X-Account-ID"
	headerPartnerID = "X-Partner-ID"
)

func accountID(c *gin.Context) string {
	return c.GetHeader(headerAccountID)
}

func partnerID(c *gin.Context) string {
	return c.GetHeader(headerPartnerID)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+headerAccountID+", "+headerPartnerID)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
