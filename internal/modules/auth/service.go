package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"
	"foodgram/internal/view"

	"golang.org/x/crypto/bcrypt"
)

// Service owns accounts and token keys.
type Service struct {
	users         UserRepository
	tokens        TokenRepository
	subscriptions SubscriptionChecker
	jwt           tokenIssuer
}

func NewService(users UserRepository, tokens TokenRepository, subscriptions SubscriptionChecker, jwt tokenIssuer) *Service {
	return &Service{
		users:         users,
		tokens:        tokens,
		subscriptions: subscriptions,
		jwt:           jwt,
	}
}

// Register creates a regular account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (view.User, error) {
	u, err := s.createUser(ctx, req, false)
	if err != nil {
		return view.User{}, err
	}
	return view.NewUser(u, false), nil
}

// CreateSuperuser creates an account allowed to modify any recipe.
func (s *Service) CreateSuperuser(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	return s.createUser(ctx, req, true)
}

func (s *Service) createUser(ctx context.Context, req RegisterRequest, superuser bool) (*domain.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if fields := validator.Validate(req); fields != nil {
		return nil, apperr.Validation(fields)
	}

	fields := map[string]string{}
	emailTaken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		fields["email"] = msgEmailTaken
	}
	usernameTaken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		fields["username"] = msgUsernameTaken
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		IsSuperuser:  superuser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent sign-up
			return nil, apperr.Validation(map[string]string{"email": msgEmailTaken})
		}
		return nil, err
	}
	return u, nil
}

// Login exchanges credentials for a bearer token carrying the user's stored key.
func (s *Service) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	if fields := validator.Validate(req); fields != nil {
		return TokenResponse{}, apperr.Validation(fields)
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenResponse{}, ErrInvalidCredentials
		}
		return TokenResponse{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return TokenResponse{}, ErrInvalidCredentials
	}

	key, err := s.tokens.GetOrCreate(ctx, u.ID)
	if err != nil {
		return TokenResponse{}, err
	}
	token, err := s.jwt.GenerateToken(u.ID, key.Key)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("sign token: %w", err)
	}
	return TokenResponse{AuthToken: token}, nil
}

// Logout drops the user's key, invalidating every token issued with it.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.tokens.DeleteByUser(ctx, userID)
}

// ResolveToken implements middleware.IdentityResolver.
func (s *Service) ResolveToken(ctx context.Context, userID int64, key string) (domain.Requester, error) {
	t, err := s.tokens.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Requester{}, middleware.ErrTokenRevoked
		}
		return domain.Requester{}, err
	}
	if t.UserID != userID {
		return domain.Requester{}, middleware.ErrTokenRevoked
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Requester{}, middleware.ErrTokenRevoked
		}
		return domain.Requester{}, err
	}
	return domain.Requester{UserID: u.ID, IsSuperuser: u.IsSuperuser}, nil
}

func (s *Service) Me(ctx context.Context, requester domain.Requester) (view.User, error) {
	u, err := s.users.GetByID(ctx, requester.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view.User{}, ErrUserNotFound
		}
		return view.User{}, err
	}
	return view.NewUser(u, false), nil
}

func (s *Service) GetUser(ctx context.Context, id int64, requester domain.Requester) (view.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view.User{}, ErrUserNotFound
		}
		return view.User{}, err
	}
	subscribed, err := s.subscribedTo(ctx, requester, []int64{u.ID})
	if err != nil {
		return view.User{}, err
	}
	return view.NewUser(u, subscribed[u.ID]), nil
}

func (s *Service) ListUsers(ctx context.Context, requester domain.Requester, p pagination.Params) (pagination.Page[view.User], error) {
	users, total, err := s.users.List(ctx, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Page[view.User]{}, err
	}

	ids := make([]int64, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	subscribed, err := s.subscribedTo(ctx, requester, ids)
	if err != nil {
		return pagination.Page[view.User]{}, err
	}

	out := make([]view.User, 0, len(users))
	for i := range users {
		out = append(out, view.NewUser(&users[i], subscribed[users[i].ID]))
	}
	return pagination.NewPage(out, total, p), nil
}

func (s *Service) SetPassword(ctx context.Context, userID int64, req SetPasswordRequest) error {
	if fields := validator.Validate(req); fields != nil {
		return apperr.Validation(fields)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrWrongPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// subscribedTo is empty for anonymous requesters.
func (s *Service) subscribedTo(ctx context.Context, requester domain.Requester, authorIDs []int64) (map[int64]bool, error) {
	if requester.IsAnonymous() || len(authorIDs) == 0 {
		return map[int64]bool{}, nil
	}
	return s.subscriptions.SubscribedAuthors(ctx, requester.UserID, authorIDs)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
