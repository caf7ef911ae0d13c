package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// FavoriteRepository stores (user, recipe) favorite pairs.
type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add returns ErrDuplicate when the pair already exists.
func (r *FavoriteRepository) Add(ctx context.Context, userID, recipeID int64) error {
	fav := &domain.Favorite{UserID: userID, RecipeID: recipeID}
	return translate(r.db.WithContext(ctx).Create(fav).Error)
}

// Remove returns ErrNotFound when there was nothing to delete.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&domain.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// MarkedRecipes returns which of recipeIDs the user has favorited.
func (r *FavoriteRepository) MarkedRecipes(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	return markedRecipes(ctx, r.db, &domain.Favorite{}, userID, recipeIDs)
}

// ShoppingCartRepository stores (user, recipe) shopping cart entries.
type ShoppingCartRepository struct {
	db *gorm.DB
}

func NewShoppingCartRepository(db *gorm.DB) *ShoppingCartRepository {
	return &ShoppingCartRepository{db: db}
}

func (r *ShoppingCartRepository) Add(ctx context.Context, userID, recipeID int64) error {
	entry := &domain.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *ShoppingCartRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&domain.ShoppingCartEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ShoppingCartRepository) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

func (r *ShoppingCartRepository) MarkedRecipes(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	return markedRecipes(ctx, r.db, &domain.ShoppingCartEntry{}, userID, recipeIDs)
}

func markedRecipes(ctx context.Context, db *gorm.DB, model any, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	marked := make(map[int64]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return marked, nil
	}
	var ids []int64
	err := db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		marked[id] = true
	}
	return marked, nil
}
