package auth

import (
	"context"

	"foodgram/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	List(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
}

type TokenRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*domain.AuthToken, error)
	GetByKey(ctx context.Context, key string) (*domain.AuthToken, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

// SubscriptionChecker reports which of authorIDs the user follows.
type SubscriptionChecker interface {
	SubscribedAuthors(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
}

type tokenIssuer interface {
	GenerateToken(userID int64, key string) (string, error)
}
