package catalog

import (
	"context"
	"errors"
	"strings"

	"foodgram/internal/repository"
	"foodgram/internal/view"
)

// Service serves the read-only tag and ingredient reference tables.
type Service struct {
	tags        TagRepository
	ingredients IngredientRepository
}

func NewService(tags TagRepository, ingredients IngredientRepository) *Service {
	return &Service{tags: tags, ingredients: ingredients}
}

func (s *Service) ListTags(ctx context.Context) ([]view.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]view.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, view.NewTag(t))
	}
	return out, nil
}

func (s *Service) GetTag(ctx context.Context, id int64) (view.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view.Tag{}, ErrTagNotFound
		}
		return view.Tag{}, err
	}
	return view.NewTag(*tag), nil
}

// ListIngredients matches names starting with prefix, case-insensitively.
// An empty prefix returns everything.
func (s *Service) ListIngredients(ctx context.Context, prefix string) ([]view.Ingredient, error) {
	ingredients, err := s.ingredients.List(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, err
	}
	out := make([]view.Ingredient, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, view.NewIngredient(i))
	}
	return out, nil
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (view.Ingredient, error) {
	ing, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view.Ingredient{}, ErrIngredientNotFound
		}
		return view.Ingredient{}, err
	}
	return view.NewIngredient(*ing), nil
}
