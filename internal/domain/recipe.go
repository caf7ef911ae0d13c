package domain

import "time"

// Recipe is the aggregate root: the recipe row plus its tag links and line
// items, always written together.
type Recipe struct {
	ID          int64     `gorm:"primaryKey"`
	AuthorID    int64     `gorm:"not null;index"`
	Name        string    `gorm:"size:200;not null"`
	Image       string    `gorm:"size:255;not null"`
	Text        string    `gorm:"type:text;not null"`
	CookingTime int       `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1"`
	PublishedAt time.Time `gorm:"not null;index"`

	Author      *User              `gorm:"foreignKey:AuthorID"`
	Tags        []Tag              `gorm:"many2many:recipe_tags"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeTag is the join row between a recipe and a tag.
type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey;autoIncrement:false"`
	TagID    int64 `gorm:"primaryKey;autoIncrement:false"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// RecipeIngredient is a line item: one ingredient and its amount in a recipe.
type RecipeIngredient struct {
	ID           int64 `gorm:"primaryKey"`
	RecipeID     int64 `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64 `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index"`
	Amount       int   `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
