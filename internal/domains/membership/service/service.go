package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"foodgram-backend/internal/domains/membership/model"
	"foodgram-backend/internal/domains/membership/repository"
	"foodgram-backend/internal/shared"
	"foodgram-backend/internal/shared/apperr"
)

// RecipeLookup được implement bởi recipe repository
type RecipeLookup interface {
	GetShort(ctx context.Context, id int64) (*shared.RecipeShort, error)
}

// Service: toggle favorite / shopping cart
type Service interface {
	Add(ctx context.Context, actor shared.Actor, kind model.Kind, recipeID int64) (*shared.RecipeShort, error)
	Remove(ctx context.Context, actor shared.Actor, kind model.Kind, recipeID int64) error
	RecipeIDs(ctx context.Context, actor shared.Actor, kind model.Kind) ([]int64, error)
}

type membershipService struct {
	repo    repository.Repository
	recipes RecipeLookup
}

func NewMembershipService(repo repository.Repository, recipes RecipeLookup) Service {
	return &membershipService{repo: repo, recipes: recipes}
}

// Add: recipe phải tồn tại, trùng → Conflict (kể cả khi race ở tầng DB)
func (s *membershipService) Add(ctx context.Context, actor shared.Actor, kind model.Kind, recipeID int64) (*shared.RecipeShort, error) {
	if !actor.IsAuthenticated() {
		return nil, apperr.ErrUnauthenticated
	}

	// Step 1: recipe tồn tại
	recipe, err := s.recipes.GetShort(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	// Step 2: pre-check membership
	exists, err := s.repo.Exists(ctx, kind, actor.UserID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, alreadyAdded(kind)
	}

	// Step 3: insert, unique violation cũng thành Conflict
	if err := s.repo.Add(ctx, kind, actor.UserID, recipeID); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, alreadyAdded(kind)
		}
		return nil, err
	}

	log.Info().
		Str("kind", string(kind)).
		Int64("user_id", actor.UserID).
		Int64("recipe_id", recipeID).
		Msg("Recipe added to list")
	return recipe, nil
}

// Remove: recipe phải tồn tại, không có trong list → "not found in list"
func (s *membershipService) Remove(ctx context.Context, actor shared.Actor, kind model.Kind, recipeID int64) error {
	if !actor.IsAuthenticated() {
		return apperr.ErrUnauthenticated
	}

	if _, err := s.recipes.GetShort(ctx, recipeID); err != nil {
		return err
	}

	removed, err := s.repo.Remove(ctx, kind, actor.UserID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		return model.ErrNotInList.WithMessage("recipe not found in %s", kind.Label())
	}
	return nil
}

func (s *membershipService) RecipeIDs(ctx context.Context, actor shared.Actor, kind model.Kind) ([]int64, error) {
	if !actor.IsAuthenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	return s.repo.RecipeIDs(ctx, kind, actor.UserID)
}

func alreadyAdded(kind model.Kind) error {
	return model.ErrAlreadyAdded.WithMessage("recipe already added to %s", kind.Label())
}
