package model

import "foodgram-backend/internal/shared/apperr"

var (
	ErrRecipeNotFound = apperr.New(apperr.KindNotFound, "RECIPE_NOT_FOUND", "recipe not found")
	ErrNotRecipeOwner = apperr.New(apperr.KindForbidden, "NOT_RECIPE_OWNER", "only the author can modify this recipe")
)
