package util

import (
	"context"

	"github.com/gin-gonic/gin"
)

type ipContextKey struct{}

// IPMiddleware extracts client IP and stores it in the context
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Gin's ClientIP() handles X-Forwarded-For and other headers
		ip := c.ClientIP()
		c.Set("client_ip", ip)
		c.Request = c.Request.WithContext(SetIPContext(c.Request.Context(), ip))
		c.Next()
	}
}

// SetIPContext returns a copy of ctx carrying ip. An empty ip leaves ctx unchanged.
func SetIPContext(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, ipContextKey{}, ip)
}

// GetIPFromContext extracts the client IP address from the context
func GetIPFromContext(ctx context.Context) string {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		return ginCtx.ClientIP()
	}

	if ip, ok := ctx.Value(ipContextKey{}).(string); ok {
		return ip
	}

	return ""
}
