package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"foodgram-backend/internal/shared/apperr"
	"foodgram-backend/internal/shared/response"
)

// Limiter được implement bởi pkg/ratelimit.KeyedRateLimiter
type Limiter interface {
	Allow(key string) bool
}

// RateLimit giới hạn theo client IP
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip) {
			log.Warn().
				Str("ip", ip).
				Str("path", c.Request.URL.Path).
				Msg("Rate limit exceeded")
			c.Header("Retry-After", "1")
			response.Error(c, apperr.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
