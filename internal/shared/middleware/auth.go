package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"foodgram-backend/internal/shared"
	"foodgram-backend/internal/shared/apperr"
	"foodgram-backend/internal/shared/response"
	"foodgram-backend/pkg/jwt"
)

// Context keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyRole     = "role"
	ContextKeyTokenID  = "token_id"
	ContextKeyTokenExp = "token_exp"
)

// RevocationChecker kiểm tra token đã logout chưa (theo jti)
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware - bắt buộc có token hợp lệ
func AuthMiddleware(manager *jwt.Manager, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, manager, revocations)
		if !ok {
			response.Error(c, apperr.ErrUnauthenticated)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware - token không có hoặc không hợp lệ → anonymous viewer.
// Dùng cho public read để vẫn tính được is_favorited / is_subscribed
func OptionalAuthMiddleware(manager *jwt.Manager, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := authenticate(c, manager, revocations); ok {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// authenticate đọc "Authorization: Bearer <jwt>" (hoặc "Token <jwt>")
func authenticate(c *gin.Context, manager *jwt.Manager, revocations RevocationChecker) (*jwt.Claims, bool) {
	token := extractToken(c.GetHeader("Authorization"))
	if token == "" {
		return nil, false
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("Rejected access token")
		return nil, false
	}

	if revocations != nil {
		revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// Redis lỗi: không chặn request, chỉ log
			log.Warn().Err(err).Msg("Token revocation check failed")
		} else if revoked {
			return nil, false
		}
	}

	return claims, true
}

func extractToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	switch parts[0] {
	case "Bearer", "Token":
		return parts[1]
	default:
		return ""
	}
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyRole, claims.Role)
	c.Set(ContextKeyTokenID, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(ContextKeyTokenExp, claims.ExpiresAt.Time)
	}
}

// GetActor trả về viewer hiện tại; anonymous nếu chưa xác thực
func GetActor(c *gin.Context) shared.Actor {
	userID := c.GetInt64(ContextKeyUserID)
	if userID == 0 {
		return shared.Anonymous()
	}
	return shared.Actor{UserID: userID, Role: c.GetString(ContextKeyRole)}
}
