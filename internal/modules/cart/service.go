package cart

import (
	"context"
	"errors"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
	"foodgram/internal/view"
)

// Service puts recipes into and takes them out of the requester's shopping
// cart.
type Service struct {
	recipes RecipeReader
	cart    CartRepository
	urls    view.URLResolver
}

func NewService(recipes RecipeReader, cart CartRepository, urls view.URLResolver) *Service {
	return &Service{recipes: recipes, cart: cart, urls: urls}
}

func (s *Service) Add(ctx context.Context, requester domain.Requester, recipeID int64) (view.RecipeShort, error) {
	if requester.IsAnonymous() {
		return view.RecipeShort{}, ErrAuthRequired
	}
	recipe, err := s.recipes.GetShort(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view.RecipeShort{}, ErrRecipeNotFound
		}
		return view.RecipeShort{}, err
	}

	if exists, err := s.cart.Exists(ctx, requester.UserID, recipeID); err != nil {
		return view.RecipeShort{}, err
	} else if exists {
		return view.RecipeShort{}, ErrAlreadyInCart
	}

	if err := s.cart.Add(ctx, requester.UserID, recipeID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return view.RecipeShort{}, ErrAlreadyInCart
		}
		return view.RecipeShort{}, err
	}
	return view.NewRecipeShort(recipe, s.urls), nil
}

func (s *Service) Remove(ctx context.Context, requester domain.Requester, recipeID int64) error {
	if requester.IsAnonymous() {
		return ErrAuthRequired
	}
	if _, err := s.recipes.GetShort(ctx, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	err := s.cart.Remove(ctx, requester.UserID, recipeID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotInCart
	}
	return err
}
