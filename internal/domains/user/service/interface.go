package service

import (
	"context"
	"time"

	"foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/shared"
	"foodgram-backend/pkg/jwt"
)

type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	Logout(ctx context.Context, actor shared.Actor, tokenID string, expiresAt time.Time) error

	Me(ctx context.Context, actor shared.Actor) (*model.UserResponse, error)
	GetUser(ctx context.Context, actor shared.Actor, id int64) (*model.UserResponse, error)
	ListUsers(ctx context.Context, actor shared.Actor, page, limit int) ([]model.UserResponse, int64, error)
	SetPassword(ctx context.Context, actor shared.Actor, req *model.SetPasswordRequest) error
}

type SubscriptionService interface {
	// recipesLimit <= 0: trả toàn bộ recipes của author
	ListSubscriptions(ctx context.Context, actor shared.Actor, page, limit, recipesLimit int) ([]model.SubscriptionResponse, int64, error)
	Subscribe(ctx context.Context, actor shared.Actor, authorID int64, recipesLimit int) (*model.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, actor shared.Actor, authorID int64) error
}

// TokenIssuer được implement bởi *jwt.Manager
type TokenIssuer interface {
	GenerateAccessToken(userID int64, email, role string) (string, *jwt.Claims, error)
}

// TokenRevoker được implement bởi repository.TokenRevocationStore
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// RecipeSource được implement bởi recipe repository
type RecipeSource interface {
	ListShortByAuthors(ctx context.Context, authorIDs []int64, limit int) (map[int64][]shared.RecipeShort, error)
	CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int, error)
}
