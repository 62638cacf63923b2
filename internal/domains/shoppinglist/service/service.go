package service

import (
	"context"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	membershipModel "foodgram-backend/internal/domains/membership/model"
	recipeModel "foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/domains/shoppinglist/model"
	"foodgram-backend/internal/infrastructure/export"
	"foodgram-backend/internal/shared"
)

const documentTitle = "Shopping list"

// CartSource: membership service
type CartSource interface {
	RecipeIDs(ctx context.Context, actor shared.Actor, kind membershipModel.Kind) ([]int64, error)
}

// IngredientSource: recipe repository
type IngredientSource interface {
	IngredientsFor(ctx context.Context, recipeIDs []int64) (map[int64][]recipeModel.RecipeIngredient, error)
}

type Service interface {
	Build(ctx context.Context, actor shared.Actor) ([]model.Line, error)
	Export(ctx context.Context, actor shared.Actor, format string) (*model.Document, error)
}

type shoppingListService struct {
	cart        CartSource
	ingredients IngredientSource
	renderers   map[string]export.Renderer
	fileName    string
}

// NewShoppingListService - fileName là tên file PDF mặc định (vd: shopping_list.pdf),
// format khác dùng cùng tên với extension tương ứng
func NewShoppingListService(
	cart CartSource,
	ingredients IngredientSource,
	fileName string,
	renderers ...export.Renderer,
) Service {
	byFormat := make(map[string]export.Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Extension()] = r
	}
	return &shoppingListService{
		cart:        cart,
		ingredients: ingredients,
		renderers:   byFormat,
		fileName:    fileName,
	}
}

// Build: giỏ rỗng → ErrCartEmpty, không trả document rỗng
func (s *shoppingListService) Build(ctx context.Context, actor shared.Actor) ([]model.Line, error) {
	recipeIDs, err := s.cart.RecipeIDs(ctx, actor, membershipModel.KindShoppingCart)
	if err != nil {
		return nil, err
	}
	if len(recipeIDs) == 0 {
		return nil, model.ErrCartEmpty
	}

	byRecipe, err := s.ingredients.IngredientsFor(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}
	return Aggregate(byRecipe), nil
}

func (s *shoppingListService) Export(ctx context.Context, actor shared.Actor, format string) (*model.Document, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = model.FormatPDF
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, model.ErrUnsupportedFormat.WithMessage("unsupported export format %q", format)
	}

	lines, err := s.Build(ctx, actor)
	if err != nil {
		return nil, err
	}

	rows := make([]export.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, export.Row{
			Name:     l.Name,
			Unit:     l.Unit,
			Amount:   l.Display,
			Quantity: l.Total.Round(2).InexactFloat64(),
		})
	}

	data, err := renderer.Render(documentTitle, rows)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", actor.UserID).
		Str("format", format).
		Int("lines", len(lines)).
		Msg("Shopping list exported")

	return &model.Document{
		FileName:    s.fileNameFor(renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

func (s *shoppingListService) fileNameFor(ext string) string {
	base := strings.TrimSuffix(s.fileName, path.Ext(s.fileName))
	if base == "" {
		base = "shopping_list"
	}
	return base + "." + ext
}
