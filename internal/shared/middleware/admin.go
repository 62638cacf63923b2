package middleware

import (
	"github.com/gin-gonic/gin"

	"foodgram-backend/internal/shared/apperr"
	"foodgram-backend/internal/shared/response"
)

// AdminMiddleware checks if user has admin role. Đặt sau AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetActor(c).IsAdmin() {
			response.Error(c, apperr.ErrForbidden)
			return
		}
		c.Next()
	}
}
