package recipe

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe, items []domain.RecipeIngredient, tagIDs []int64) error
	Replace(ctx context.Context, recipe *domain.Recipe, items []domain.RecipeIngredient, tagIDs []int64) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	GetOwnership(ctx context.Context, id int64) (authorID int64, image string, err error)
	List(ctx context.Context, f repository.RecipeFilter, offset, limit int) ([]domain.Recipe, int64, error)
}

// ReferenceChecker reports which ids exist; tags and ingredients both satisfy it.
type ReferenceChecker interface {
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// MarkReader reports which recipes a user has marked; favorites and the
// shopping cart both satisfy it.
type MarkReader interface {
	MarkedRecipes(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error)
}

type SubscriptionChecker interface {
	SubscribedAuthors(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
