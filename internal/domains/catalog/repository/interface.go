package repository

import (
	"context"

	"foodgram-backend/internal/domains/catalog/model"
)

type Repository interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	GetTag(ctx context.Context, id int64) (*model.Tag, error)
	CreateTag(ctx context.Context, tag *model.Tag) error

	// ListIngredients lọc theo tiền tố tên (không phân biệt hoa thường), rỗng = tất cả
	ListIngredients(ctx context.Context, namePrefix string) ([]model.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*model.Ingredient, error)
	CreateIngredient(ctx context.Context, ingredient *model.Ingredient) error
}
