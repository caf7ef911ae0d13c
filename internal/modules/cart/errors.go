package cart

import "foodgram/internal/pkg/apperr"

var (
	ErrAlreadyInCart  = apperr.New(apperr.KindValidation, "ALREADY_IN_CART", "Recipe is already in the shopping cart")
	ErrNotInCart      = apperr.New(apperr.KindNotFound, "NOT_IN_CART", "Recipe is not in the shopping cart")
	ErrRecipeNotFound = apperr.New(apperr.KindNotFound, "RECIPE_NOT_FOUND", "Recipe not found")
	ErrAuthRequired   = apperr.New(apperr.KindAuthentication, "NOT_AUTHENTICATED", "Authentication credentials were not provided")
)
