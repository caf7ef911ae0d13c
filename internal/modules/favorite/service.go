package favorite

import (
	"context"
	"errors"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
	"foodgram/internal/view"
)

// Service toggles the requester's favorites. The unique (user, recipe) index
// backs the existence check.
type Service struct {
	recipes   RecipeReader
	favorites FavoriteRepository
	urls      view.URLResolver
}

func NewService(recipes RecipeReader, favorites FavoriteRepository, urls view.URLResolver) *Service {
	return &Service{recipes: recipes, favorites: favorites, urls: urls}
}

func (s *Service) Add(ctx context.Context, requester domain.Requester, recipeID int64) (view.RecipeShort, error) {
	recipe, err := s.recipe(ctx, requester, recipeID)
	if err != nil {
		return view.RecipeShort{}, err
	}

	exists, err := s.favorites.Exists(ctx, requester.UserID, recipeID)
	if err != nil {
		return view.RecipeShort{}, err
	}
	if exists {
		return view.RecipeShort{}, ErrAlreadyFavorited
	}
	if err := s.favorites.Add(ctx, requester.UserID, recipeID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return view.RecipeShort{}, ErrAlreadyFavorited
		}
		return view.RecipeShort{}, err
	}
	return view.NewRecipeShort(recipe, s.urls), nil
}

func (s *Service) Remove(ctx context.Context, requester domain.Requester, recipeID int64) error {
	if _, err := s.recipe(ctx, requester, recipeID); err != nil {
		return err
	}
	if err := s.favorites.Remove(ctx, requester.UserID, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFavorited
		}
		return err
	}
	return nil
}

func (s *Service) recipe(ctx context.Context, requester domain.Requester, id int64) (*domain.Recipe, error) {
	if requester.IsAnonymous() {
		return nil, ErrAuthRequired
	}
	recipe, err := s.recipes.GetShort(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}
