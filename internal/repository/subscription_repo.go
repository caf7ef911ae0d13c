package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Add(ctx context.Context, userID, authorID int64) error {
	sub := &domain.Subscription{UserID: userID, AuthorID: authorID}
	return translate(r.db.WithContext(ctx).Create(sub).Error)
}

func (r *SubscriptionRepository) Remove(ctx context.Context, userID, authorID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&domain.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// SubscribedAuthors returns which of authorIDs the user follows.
func (r *SubscriptionRepository) SubscribedAuthors(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	subscribed := make(map[int64]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return subscribed, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		subscribed[id] = true
	}
	return subscribed, nil
}

// ListAuthors returns the authors userID follows, oldest subscription first.
func (r *SubscriptionRepository) ListAuthors(ctx context.Context, userID int64, offset, limit int) ([]domain.User, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var authors []domain.User
	err = r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.id").
		Offset(offset).
		Limit(limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}
