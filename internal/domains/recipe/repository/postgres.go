package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	catalog "foodgram-backend/internal/domains/catalog/model"
	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/shared"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/pkg/database"
)

type postgresRepository struct {
	db   database.Querier
	pool database.TxStarter // nil khi đã ở trong transaction
}

// NewPostgresRepository - pool vừa là Querier vừa là TxStarter (*pgxpool.Pool)
func NewPostgresRepository(db database.Querier, pool database.TxStarter) RepositoryInterface {
	return &postgresRepository{db: db, pool: pool}
}

const recipeColumns = `
	r.id, r.author_id, r.name, r.text, r.cooking_time, r.image, r.image_key,
	r.created_at, r.updated_at,
	u.id, u.email, u.username, u.first_name, u.last_name`

func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var r model.Recipe
	err := row.Scan(
		&r.ID, &r.AuthorID, &r.Name, &r.Text, &r.CookingTime, &r.Image, &r.ImageKey,
		&r.CreatedAt, &r.UpdatedAt,
		&r.Author.ID, &r.Author.Email, &r.Author.Username, &r.Author.FirstName, &r.Author.LastName,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// =====================================================
// READS
// =====================================================

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN users u ON u.id = r.author_id
		WHERE r.id = $1`

	recipe, err := scanRecipe(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return recipe, nil
}

func (r *postgresRepository) GetForUpdate(ctx context.Context, id int64) (*model.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN users u ON u.id = r.author_id
		WHERE r.id = $1
		FOR UPDATE OF r`

	recipe, err := scanRecipe(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to lock recipe: %w", err)
	}
	return recipe, nil
}

func (r *postgresRepository) GetShort(ctx context.Context, id int64) (*shared.RecipeShort, error) {
	var s shared.RecipeShort
	err := r.db.QueryRow(ctx,
		`SELECT id, name, image, cooking_time FROM recipes WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Image, &s.CookingTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Recipe, int64, error) {
	w := &utils.Where{}
	if filter.AuthorID > 0 {
		w.Add("r.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		w.Add(`EXISTS (
			SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND t.slug = ANY(?::text[]))`, filter.TagSlugs)
	}
	if filter.ViewerID > 0 && filter.IsFavorited {
		w.Add("EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = ?)", filter.ViewerID)
	}
	if filter.ViewerID > 0 && filter.IsInShoppingCart {
		w.Add("EXISTS (SELECT 1 FROM shopping_carts sc WHERE sc.recipe_id = r.id AND sc.user_id = ?)", filter.ViewerID)
	}

	// Step 1: count với cùng điều kiện
	var total int64
	countArgs := append([]any(nil), w.Args()...)
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM recipes r `+w.SQL(), countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	if total == 0 {
		return []model.Recipe{}, 0, nil
	}

	// Step 2: lấy trang hiện tại, mới nhất trước
	query := fmt.Sprintf(`SELECT %s
		FROM recipes r
		JOIN users u ON u.id = r.author_id
		%s
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT %s OFFSET %s`,
		recipeColumns, w.SQL(), w.Next(filter.Limit), w.Next(filter.Offset))

	rows, err := r.db.Query(ctx, query, w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, *recipe)
	}
	return recipes, total, rows.Err()
}

func (r *postgresRepository) TagsFor(ctx context.Context, recipeIDs []int64) (map[int64][]catalog.Tag, error) {
	result := make(map[int64][]catalog.Tag, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY($1::bigint[])
		ORDER BY rt.recipe_id, rt.position`, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		var t catalog.Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		result[recipeID] = append(result[recipeID], t)
	}
	return result, rows.Err()
}

func (r *postgresRepository) IngredientsFor(ctx context.Context, recipeIDs []int64) (map[int64][]model.RecipeIngredient, error) {
	result := make(map[int64][]model.RecipeIngredient, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT ra.recipe_id, i.id, i.name, i.measurement_unit, a.amount
		FROM recipe_amounts ra
		JOIN amounts a ON a.id = ra.amount_id
		JOIN ingredients i ON i.id = a.ingredient_id
		WHERE ra.recipe_id = ANY($1::bigint[])
		ORDER BY ra.recipe_id, i.name, i.measurement_unit`, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		var in model.RecipeIngredient
		if err := rows.Scan(&recipeID, &in.ID, &in.Name, &in.MeasurementUnit, &in.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		result[recipeID] = append(result[recipeID], in)
	}
	return result, rows.Err()
}

func (r *postgresRepository) ListShortByAuthors(ctx context.Context, authorIDs []int64, limit int) (map[int64][]shared.RecipeShort, error) {
	result := make(map[int64][]shared.RecipeShort, len(authorIDs))
	if len(authorIDs) == 0 {
		return result, nil
	}

	// ROW_NUMBER theo từng author để cắt limit trong một query
	query := `
		SELECT author_id, id, name, image, cooking_time FROM (
			SELECT r.author_id, r.id, r.name, r.image, r.cooking_time,
			       ROW_NUMBER() OVER (PARTITION BY r.author_id ORDER BY r.created_at DESC, r.id DESC) AS rn
			FROM recipes r
			WHERE r.author_id = ANY($1::bigint[])
		) ranked`
	args := []any{authorIDs}
	if limit > 0 {
		query += ` WHERE rn <= $2`
		args = append(args, limit)
	}
	query += ` ORDER BY author_id, rn`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list author recipes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var authorID int64
		var s shared.RecipeShort
		if err := rows.Scan(&authorID, &s.ID, &s.Name, &s.Image, &s.CookingTime); err != nil {
			return nil, fmt.Errorf("failed to scan author recipe: %w", err)
		}
		result[authorID] = append(result[authorID], s)
	}
	return result, rows.Err()
}

func (r *postgresRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int, len(authorIDs))
	if len(authorIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT author_id, COUNT(*) FROM recipes
		WHERE author_id = ANY($1::bigint[])
		GROUP BY author_id`, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count author recipes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var authorID int64
		var count int
		if err := rows.Scan(&authorID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan recipe count: %w", err)
		}
		result[authorID] = count
	}
	return result, rows.Err()
}

func (r *postgresRepository) ImageKeysInUse(ctx context.Context, prefixes []string) (map[string]bool, error) {
	result := make(map[string]bool, len(prefixes))
	if len(prefixes) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT image_key FROM recipes WHERE image_key = ANY($1::text[])`, prefixes)
	if err != nil {
		return nil, fmt.Errorf("failed to check image keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan image key: %w", err)
		}
		result[key] = true
	}
	return result, rows.Err()
}

// =====================================================
// WRITES
// =====================================================

func (r *postgresRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO recipes (author_id, name, text, cooking_time, image, image_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		recipe.AuthorID, recipe.Name, recipe.Text, recipe.CookingTime, recipe.Image, recipe.ImageKey,
	).Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// UpdateScalars ghi lại toàn bộ field scalar; author_id không bao giờ đổi
func (r *postgresRepository) UpdateScalars(ctx context.Context, recipe *model.Recipe) error {
	err := r.db.QueryRow(ctx, `
		UPDATE recipes
		SET name = $2, text = $3, cooking_time = $4, image = $5, image_key = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		recipe.ID, recipe.Name, recipe.Text, recipe.CookingTime, recipe.Image, recipe.ImageKey,
	).Scan(&recipe.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrRecipeNotFound
		}
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRecipeNotFound
	}
	return nil
}

// =====================================================
// RECONCILIATION
// =====================================================

func (r *postgresRepository) FindTags(ctx context.Context, ids []int64) ([]catalog.Tag, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, color, slug FROM tags WHERE id = ANY($1::bigint[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find tags: %w", err)
	}
	defer rows.Close()

	tags := []catalog.Tag{}
	for rows.Next() {
		var t catalog.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *postgresRepository) FindIngredients(ctx context.Context, ids []int64) ([]catalog.Ingredient, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, measurement_unit FROM ingredients WHERE id = ANY($1::bigint[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []catalog.Ingredient{}
	for rows.Next() {
		var i catalog.Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

// GetOrCreateAmount: upsert theo (ingredient_id, amount).
// DO UPDATE (no-op) để RETURNING luôn trả id, kể cả khi row đã có
// hoặc vừa được transaction khác insert
func (r *postgresRepository) GetOrCreateAmount(ctx context.Context, ingredientID int64, amount decimal.Decimal) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO amounts (ingredient_id, amount)
		VALUES ($1, $2)
		ON CONFLICT (ingredient_id, amount) DO UPDATE SET amount = EXCLUDED.amount
		RETURNING id`,
		ingredientID, amount.Round(2),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to get or create amount: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) ReplaceAmounts(ctx context.Context, recipeID int64, amountIDs []int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM recipe_amounts WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("failed to clear recipe amounts: %w", err)
	}
	if len(amountIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO recipe_amounts (recipe_id, amount_id)
		SELECT $1, UNNEST($2::bigint[])`,
		recipeID, amountIDs)
	if err != nil {
		return fmt.Errorf("failed to insert recipe amounts: %w", err)
	}
	return nil
}

// ReplaceTags giữ thứ tự tagIDs qua cột position
func (r *postgresRepository) ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("failed to clear recipe tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO recipe_tags (recipe_id, tag_id, position)
		SELECT $1, t.id, t.pos
		FROM UNNEST($2::bigint[]) WITH ORDINALITY AS t(id, pos)`,
		recipeID, tagIDs)
	if err != nil {
		return fmt.Errorf("failed to insert recipe tags: %w", err)
	}
	return nil
}

// =====================================================
// TRANSACTION
// =====================================================

func (r *postgresRepository) WithTx(ctx context.Context, fn func(repo RepositoryInterface) error) error {
	// Đã ở trong transaction thì chạy luôn
	if r.pool == nil {
		return fn(r)
	}
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&postgresRepository{db: tx})
	})
}
