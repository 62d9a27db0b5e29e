package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fooddelivery/pkg/log"
)

// Logger request logging middleware
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := logrus.Fields{
			"status":    c.Writer.Status(),
			"method":    c.Request.Method,
			"path":      path,
			"query":     query,
			"client_ip": c.ClientIP(),
			"latency":   time.Since(start).String(),
		}

		if len(c.Errors) > 0 {
			log.WithFields(fields).Error(c.Errors.String())
			return
		}

		if c.Writer.Status() >= 500 {
			log.WithFields(fields).Error("Request failed")
		} else {
			log.WithFields(fields).Info("Request completed")
		}
	}
}
