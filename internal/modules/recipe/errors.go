package recipe

import "foodgram/internal/pkg/apperr"

var (
	ErrRecipeNotFound  = apperr.New(apperr.KindNotFound, "RECIPE_NOT_FOUND", "Recipe not found")
	ErrAuthorNotFound  = apperr.New(apperr.KindNotFound, "AUTHOR_NOT_FOUND", "Author not found")
	ErrNotRecipeAuthor = apperr.New(apperr.KindPermissionDenied, "NOT_RECIPE_AUTHOR", "Only the author can change this recipe")
	ErrAuthRequired    = apperr.New(apperr.KindAuthentication, "NOT_AUTHENTICATED", "Authentication credentials were not provided")
)

const (
	msgImageRequired       = "This field is required."
	msgDuplicateTags       = "Tags must not repeat."
	msgDuplicateIngredient = "Ingredients must not repeat."
)
