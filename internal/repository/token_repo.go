package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodgram/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenRepository stores the one auth token key each user may hold.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// GetOrCreate returns the user's key, creating one on first login. Either
// way the key's IssuedAt is set to now.
func (r *TokenRepository) GetOrCreate(ctx context.Context, userID int64) (*domain.AuthToken, error) {
	now := time.Now().UTC()
	t, err := r.getByUser(ctx, userID)
	if err == nil {
		return t, r.touch(ctx, t, now)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	t = &domain.AuthToken{
		UserID:   userID,
		Key:      strings.ReplaceAll(uuid.NewString(), "-", ""),
		IssuedAt: now,
	}
	if err := translate(r.db.WithContext(ctx).Create(t).Error); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// a concurrent login created it first
			if t, err = r.getByUser(ctx, userID); err != nil {
				return nil, err
			}
			return t, r.touch(ctx, t, now)
		}
		return nil, err
	}
	return t, nil
}

// DeleteIssuedBefore removes keys not handed out since cutoff and returns how
// many went.
func (r *TokenRepository) DeleteIssuedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("issued_at < ?", cutoff.UTC()).
		Delete(&domain.AuthToken{})
	return res.RowsAffected, res.Error
}

func (r *TokenRepository) touch(ctx context.Context, t *domain.AuthToken, now time.Time) error {
	t.IssuedAt = now
	return r.db.WithContext(ctx).
		Model(&domain.AuthToken{}).
		Where("id = ?", t.ID).
		Update("issued_at", now).Error
}

func (r *TokenRepository) GetByKey(ctx context.Context, key string) (*domain.AuthToken, error) {
	var t domain.AuthToken
	if key == "" {
		return nil, ErrNotFound
	}
	if err := r.db.WithContext(ctx).Where(&domain.AuthToken{Key: key}).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.AuthToken{}).Error
}

func (r *TokenRepository) getByUser(ctx context.Context, userID int64) (*domain.AuthToken, error) {
	var t domain.AuthToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}
