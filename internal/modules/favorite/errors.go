package favorite

import "foodgram/internal/pkg/apperr"

var (
	ErrAlreadyFavorited = apperr.New(apperr.KindValidation, "ALREADY_FAVORITED", "Recipe is already in favorites")
	ErrNotFavorited     = apperr.New(apperr.KindNotFound, "NOT_FAVORITED", "Recipe is not in favorites")
	ErrRecipeNotFound   = apperr.New(apperr.KindNotFound, "RECIPE_NOT_FOUND", "Recipe not found")
	ErrAuthRequired     = apperr.New(apperr.KindAuthentication, "NOT_AUTHENTICATED", "Authentication credentials were not provided")
)
