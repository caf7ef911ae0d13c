package domain

import (
	"time"
)

// Favorite marks a recipe as favorited by a user.
type Favorite struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  int64     `gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCartEntry puts a recipe's ingredients on the user's shopping list.
type ShoppingCartEntry struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  int64     `gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ShoppingCartEntry) TableName() string {
	return "shopping_cart"
}

// Subscription means UserID follows the recipes of AuthorID.
type Subscription struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:idx_subscription_user_author;check:chk_subscriptions_not_self,user_id <> author_id"`
	AuthorID  int64     `gorm:"not null;index;uniqueIndex:idx_subscription_user_author"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
