package repository

import (
	"context"

	"foodgram-backend/internal/domains/user/model"
)

type RepositoryInterface interface {
	// Create trả ErrEmailExists / ErrUsernameExists khi vi phạm unique
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// Subscriptions
	Subscribe(ctx context.Context, userID, authorID int64) error
	// Unsubscribe trả false nếu chưa subscribe
	Unsubscribe(ctx context.Context, userID, authorID int64) (bool, error)
	SubscribedTo(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
	ListSubscriptions(ctx context.Context, userID int64, limit, offset int) ([]model.User, int64, error)
}
