package subscription

import (
	"context"
	"errors"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/repository"
	"foodgram/internal/view"
)

// Service manages who follows whom. recipesLimit caps the recipe preview
// under each author; zero means no cap.
type Service struct {
	subscriptions SubscriptionRepository
	users         UserLookup
	recipes       AuthorRecipes
	urls          view.URLResolver
}

func NewService(subscriptions SubscriptionRepository, users UserLookup, recipes AuthorRecipes, urls view.URLResolver) *Service {
	return &Service{
		subscriptions: subscriptions,
		users:         users,
		recipes:       recipes,
		urls:          urls,
	}
}

func (s *Service) Subscribe(ctx context.Context, requester domain.Requester, authorID int64, recipesLimit int) (view.Author, error) {
	if requester.IsAnonymous() {
		return view.Author{}, ErrAuthRequired
	}
	if requester.UserID == authorID {
		return view.Author{}, ErrSelfSubscription
	}

	author, err := s.author(ctx, authorID)
	if err != nil {
		return view.Author{}, err
	}

	exists, err := s.subscriptions.Exists(ctx, requester.UserID, authorID)
	if err != nil {
		return view.Author{}, err
	}
	if exists {
		return view.Author{}, ErrAlreadySubscribed
	}
	if err := s.subscriptions.Add(ctx, requester.UserID, authorID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return view.Author{}, ErrAlreadySubscribed
		}
		return view.Author{}, err
	}

	return s.project(ctx, author, true, recipesLimit)
}

func (s *Service) Unsubscribe(ctx context.Context, requester domain.Requester, authorID int64) error {
	if requester.IsAnonymous() {
		return ErrAuthRequired
	}
	if _, err := s.author(ctx, authorID); err != nil {
		return err
	}
	if err := s.subscriptions.Remove(ctx, requester.UserID, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotSubscribed
		}
		return err
	}
	return nil
}

// List pages through the authors userID follows. is_subscribed is computed
// for the requester, who may be a superuser looking at someone else's list.
func (s *Service) List(ctx context.Context, requester domain.Requester, userID int64, p pagination.Params, recipesLimit int) (pagination.Page[view.Author], error) {
	if requester.IsAnonymous() {
		return pagination.Page[view.Author]{}, ErrAuthRequired
	}

	authors, total, err := s.subscriptions.ListAuthors(ctx, userID, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Page[view.Author]{}, err
	}

	subscribed := make(map[int64]bool, len(authors))
	if requester.UserID == userID {
		for i := range authors {
			subscribed[authors[i].ID] = true
		}
	} else if len(authors) > 0 {
		ids := make([]int64, len(authors))
		for i := range authors {
			ids[i] = authors[i].ID
		}
		if subscribed, err = s.subscriptions.SubscribedAuthors(ctx, requester.UserID, ids); err != nil {
			return pagination.Page[view.Author]{}, err
		}
	}

	out := make([]view.Author, 0, len(authors))
	for i := range authors {
		a, err := s.project(ctx, &authors[i], subscribed[authors[i].ID], recipesLimit)
		if err != nil {
			return pagination.Page[view.Author]{}, err
		}
		out = append(out, a)
	}
	return pagination.NewPage(out, total, p), nil
}

func (s *Service) author(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) project(ctx context.Context, author *domain.User, subscribed bool, recipesLimit int) (view.Author, error) {
	recipes, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return view.Author{}, err
	}
	count, err := s.recipes.CountByAuthor(ctx, author.ID)
	if err != nil {
		return view.Author{}, err
	}
	return view.NewAuthor(author, subscribed, recipes, count, s.urls), nil
}
