package repository

import (
	"context"
	"fmt"

	"foodgram-backend/internal/domains/membership/model"
	recipeModel "foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/pkg/database"
)

// Repository thao tác trên hai bảng favorites / shopping_carts
type Repository interface {
	Exists(ctx context.Context, kind model.Kind, userID, recipeID int64) (bool, error)
	// Add trả ErrAlreadyAdded khi vi phạm unique (user_id, recipe_id),
	// ErrRecipeNotFound khi recipe vừa bị xóa
	Add(ctx context.Context, kind model.Kind, userID, recipeID int64) error
	// Remove trả false nếu không có row nào bị xóa
	Remove(ctx context.Context, kind model.Kind, userID, recipeID int64) (bool, error)
	RecipeIDs(ctx context.Context, kind model.Kind, userID int64) ([]int64, error)
	Flags(ctx context.Context, userID int64, recipeIDs []int64) (favorited, inCart map[int64]bool, err error)
}

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) Repository {
	return &postgresRepository{db: db}
}

// tableFor: tên bảng chỉ lấy từ whitelist này
func tableFor(kind model.Kind) (string, error) {
	switch kind {
	case model.KindFavorite:
		return "favorites", nil
	case model.KindShoppingCart:
		return "shopping_carts", nil
	default:
		return "", model.ErrUnknownKind.WithMessage("unknown membership kind %q", kind)
	}
}

func (r *postgresRepository) Exists(ctx context.Context, kind model.Kind, userID, recipeID int64) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE user_id = $1 AND recipe_id = $2)`, table)
	if err := r.db.QueryRow(ctx, query, userID, recipeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return exists, nil
}

func (r *postgresRepository) Add(ctx context.Context, kind model.Kind, userID, recipeID int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (user_id, recipe_id) VALUES ($1, $2)`, table)
	if _, err := r.db.Exec(ctx, query, userID, recipeID); err != nil {
		// Request song song đã insert trước
		if database.IsUniqueViolation(err) {
			return model.ErrAlreadyAdded
		}
		if database.IsForeignKeyViolation(err) {
			return recipeModel.ErrRecipeNotFound
		}
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (r *postgresRepository) Remove(ctx context.Context, kind model.Kind, userID, recipeID int64) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND recipe_id = $2`, table)
	tag, err := r.db.Exec(ctx, query, userID, recipeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) RecipeIDs(ctx context.Context, kind model.Kind, userID int64) ([]int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT recipe_id FROM %s WHERE user_id = $1 ORDER BY created_at, id`, table)
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan recipe id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Flags tính is_favorited / is_in_shopping_cart cho cả trang recipe trong một query
func (r *postgresRepository) Flags(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, map[int64]bool, error) {
	favorited := make(map[int64]bool, len(recipeIDs))
	inCart := make(map[int64]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return favorited, inCart, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT r.id,
		       EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = $1),
		       EXISTS (SELECT 1 FROM shopping_carts sc WHERE sc.recipe_id = r.id AND sc.user_id = $1)
		FROM UNNEST($2::bigint[]) AS r(id)`,
		userID, recipeIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load membership flags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var fav, cart bool
		if err := rows.Scan(&id, &fav, &cart); err != nil {
			return nil, nil, fmt.Errorf("failed to scan membership flags: %w", err)
		}
		favorited[id] = fav
		inCart[id] = cart
	}
	return favorited, inCart, rows.Err()
}
