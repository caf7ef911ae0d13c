package favorite

import (
	"context"

	"foodgram/internal/domain"
)

type RecipeReader interface {
	GetShort(ctx context.Context, id int64) (*domain.Recipe, error)
}

type FavoriteRepository interface {
	Add(ctx context.Context, userID, recipeID int64) error
	Remove(ctx context.Context, userID, recipeID int64) error
	Exists(ctx context.Context, userID, recipeID int64) (bool, error)
}
