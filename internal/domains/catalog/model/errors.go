package model

import "foodgram-backend/internal/shared/apperr"

var (
	ErrTagNotFound        = apperr.New(apperr.KindNotFound, "TAG_NOT_FOUND", "tag not found")
	ErrIngredientNotFound = apperr.New(apperr.KindNotFound, "INGREDIENT_NOT_FOUND", "ingredient not found")
	ErrTagExists          = apperr.New(apperr.KindConflict, "TAG_EXISTS", "tag with this name or slug already exists")
	ErrIngredientExists   = apperr.New(apperr.KindConflict, "INGREDIENT_EXISTS", "ingredient with this name and unit already exists")
)
