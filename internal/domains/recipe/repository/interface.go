package repository

import (
	"context"

	"github.com/shopspring/decimal"

	catalog "foodgram-backend/internal/domains/catalog/model"
	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/shared"
)

// RepositoryInterface gom các thao tác trên recipes và các bảng nối.
// Các method ghi được gọi bên trong WithTx
type RepositoryInterface interface {
	// Reads
	GetByID(ctx context.Context, id int64) (*model.Recipe, error)
	// GetForUpdate khóa row (SELECT … FOR UPDATE), chỉ gọi bên trong WithTx
	GetForUpdate(ctx context.Context, id int64) (*model.Recipe, error)
	GetShort(ctx context.Context, id int64) (*shared.RecipeShort, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Recipe, int64, error)
	TagsFor(ctx context.Context, recipeIDs []int64) (map[int64][]catalog.Tag, error)
	IngredientsFor(ctx context.Context, recipeIDs []int64) (map[int64][]model.RecipeIngredient, error)

	// ListShortByAuthors: tối đa limit recipe mới nhất mỗi author (limit <= 0 = tất cả)
	ListShortByAuthors(ctx context.Context, authorIDs []int64, limit int) (map[int64][]shared.RecipeShort, error)
	CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int, error)
	// ImageKeysInUse: prefix nào trong danh sách còn được recipe tham chiếu
	ImageKeysInUse(ctx context.Context, prefixes []string) (map[string]bool, error)

	// Writes
	Create(ctx context.Context, recipe *model.Recipe) error
	UpdateScalars(ctx context.Context, recipe *model.Recipe) error
	Delete(ctx context.Context, id int64) error

	// Reconciliation
	FindTags(ctx context.Context, ids []int64) ([]catalog.Tag, error)
	FindIngredients(ctx context.Context, ids []int64) ([]catalog.Ingredient, error)
	GetOrCreateAmount(ctx context.Context, ingredientID int64, amount decimal.Decimal) (int64, error)
	ReplaceAmounts(ctx context.Context, recipeID int64, amountIDs []int64) error
	ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error

	// WithTx chạy fn với repository gắn vào một transaction.
	// fn trả error → rollback toàn bộ
	WithTx(ctx context.Context, fn func(repo RepositoryInterface) error) error
}
