package service

import (
	"context"

	"github.com/hibiken/asynq"

	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/shared"
)

// RecipeService: reconciliation workflow + read path có viewer flags
type RecipeService interface {
	ListRecipes(ctx context.Context, actor shared.Actor, filter model.ListFilter) ([]model.RecipeResponse, int64, error)
	GetRecipe(ctx context.Context, actor shared.Actor, id int64) (*model.RecipeResponse, error)
	CreateRecipe(ctx context.Context, actor shared.Actor, req *model.RecipeWriteRequest) (*model.RecipeResponse, error)
	UpdateRecipe(ctx context.Context, actor shared.Actor, id int64, req *model.RecipeWriteRequest) (*model.RecipeResponse, error)
	DeleteRecipe(ctx context.Context, actor shared.Actor, id int64) error
}

// ImageService chạy trong worker
type ImageService interface {
	ProcessImage(ctx context.Context, payload shared.RecipeImagePayload) error
	DeleteImages(ctx context.Context, prefix string) error
}

// =====================================================
// COLLABORATORS
// =====================================================

// MembershipChecker được implement bởi membership repository
type MembershipChecker interface {
	Flags(ctx context.Context, userID int64, recipeIDs []int64) (favorited, inCart map[int64]bool, err error)
}

// SubscriptionChecker được implement bởi user repository
type SubscriptionChecker interface {
	SubscribedTo(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
}

// ImageDecoder: storage.ImageProcessor
type ImageDecoder interface {
	DecodeBase64(payload string) ([]byte, string, error)
}

// VariantProcessor: storage.ImageProcessor
type VariantProcessor interface {
	ValidateImage(data []byte) (string, error)
	ProcessImage(data []byte) (map[string][]byte, error)
}

// ObjectStore: storage.MinIOStorage
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// TaskEnqueuer: *asynq.Client
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
