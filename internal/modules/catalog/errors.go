package catalog

import "foodgram/internal/pkg/apperr"

var (
	ErrTagNotFound        = apperr.New(apperr.KindNotFound, "TAG_NOT_FOUND", "Tag not found")
	ErrIngredientNotFound = apperr.New(apperr.KindNotFound, "INGREDIENT_NOT_FOUND", "Ingredient not found")
)
