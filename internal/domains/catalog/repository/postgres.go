package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"foodgram-backend/internal/domains/catalog/model"
	"foodgram-backend/pkg/database"
)

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) Repository {
	return &postgresRepository{db: db}
}

// =====================================================
// TAGS
// =====================================================

func (r *postgresRepository) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, color, slug FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *postgresRepository) GetTag(ctx context.Context, id int64) (*model.Tag, error) {
	var t model.Tag
	err := r.db.QueryRow(ctx, `SELECT id, name, color, slug FROM tags WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Color, &t.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &t, nil
}

func (r *postgresRepository) CreateTag(ctx context.Context, tag *model.Tag) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tags (name, color, slug) VALUES ($1, $2, $3) RETURNING id`,
		tag.Name, tag.Color, tag.Slug,
	).Scan(&tag.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrTagExists
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// =====================================================
// INGREDIENTS
// =====================================================

func (r *postgresRepository) ListIngredients(ctx context.Context, namePrefix string) ([]model.Ingredient, error) {
	query := `SELECT id, name, measurement_unit FROM ingredients`
	var args []any
	if namePrefix != "" {
		query += ` WHERE LOWER(name) LIKE $1 ESCAPE '\'`
		args = append(args, escapeLike(strings.ToLower(namePrefix))+"%")
	}
	query += ` ORDER BY name, measurement_unit`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []model.Ingredient{}
	for rows.Next() {
		var i model.Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

func (r *postgresRepository) GetIngredient(ctx context.Context, id int64) (*model.Ingredient, error) {
	var i model.Ingredient
	err := r.db.QueryRow(ctx, `SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`, id).
		Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &i, nil
}

func (r *postgresRepository) CreateIngredient(ctx context.Context, ingredient *model.Ingredient) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2) RETURNING id`,
		ingredient.Name, ingredient.MeasurementUnit,
	).Scan(&ingredient.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrIngredientExists
		}
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
