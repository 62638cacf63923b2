package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/domains/user/repository"
	"foodgram-backend/internal/shared"
	"foodgram-backend/internal/shared/apperr"
	"foodgram-backend/internal/shared/utils"
)

type subscriptionService struct {
	repo    repository.RepositoryInterface
	recipes RecipeSource
}

func NewSubscriptionService(repo repository.RepositoryInterface, recipes RecipeSource) SubscriptionService {
	return &subscriptionService{repo: repo, recipes: recipes}
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, actor shared.Actor, page, limit, recipesLimit int) ([]model.SubscriptionResponse, int64, error) {
	if !actor.IsAuthenticated() {
		return nil, 0, apperr.ErrUnauthenticated
	}

	authors, total, err := s.repo.ListSubscriptions(ctx, actor.UserID, limit, utils.Offset(page, limit))
	if err != nil {
		return nil, 0, err
	}
	out, err := s.withRecipes(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, actor shared.Actor, authorID int64, recipesLimit int) (*model.SubscriptionResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperr.ErrUnauthenticated
	}

	// Step 1: author tồn tại
	author, err := s.repo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	// Step 2: không tự follow chính mình
	if author.ID == actor.UserID {
		return nil, model.ErrSelfSubscription
	}

	// Step 3: insert, trùng → ErrAlreadySubscribed (unique constraint)
	if err := s.repo.Subscribe(ctx, actor.UserID, author.ID); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", actor.UserID).Int64("author_id", author.ID).Msg("Subscribed to author")

	out, err := s.withRecipes(ctx, []model.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, actor shared.Actor, authorID int64) error {
	if !actor.IsAuthenticated() {
		return apperr.ErrUnauthenticated
	}

	if _, err := s.repo.GetByID(ctx, authorID); err != nil {
		return err
	}

	removed, err := s.repo.Unsubscribe(ctx, actor.UserID, authorID)
	if err != nil {
		return err
	}
	if !removed {
		return model.ErrNotSubscribed
	}

	log.Info().Int64("user_id", actor.UserID).Int64("author_id", authorID).Msg("Unsubscribed from author")
	return nil
}

// withRecipes gắn recipes (mới nhất trước, cắt theo recipesLimit) và recipes_count.
// Mọi author ở đây đều đang được viewer follow
func (s *subscriptionService) withRecipes(ctx context.Context, authors []model.User, recipesLimit int) ([]model.SubscriptionResponse, error) {
	out := make([]model.SubscriptionResponse, 0, len(authors))
	if len(authors) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}

	recipes, err := s.recipes.ListShortByAuthors(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range authors {
		short := recipes[authors[i].ID]
		if short == nil {
			short = []shared.RecipeShort{}
		}
		out = append(out, model.SubscriptionResponse{
			UserResponse: authors[i].ToResponse(true),
			Recipes:      short,
			RecipesCount: counts[authors[i].ID],
		})
	}
	return out, nil
}
