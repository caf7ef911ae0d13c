package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows List. Zero fields are ignored.
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    int64
	FavoritedBy int64
	InCartOf    int64
}

// RecipeRepository persists the recipe aggregate. Create, Replace and Delete
// each run in a single transaction covering the recipe row, its line items
// and its tag links.
type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create inserts the recipe row, then the line items, then the tag links.
func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe, items []domain.RecipeIngredient, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return translate(err)
		}
		return writeComponents(tx, recipe.ID, items, tagIDs)
	})
}

// Replace overwrites every mutable field and swaps the full set of line
// items and tag links for the ones given.
func (r *RecipeRepository) Replace(ctx context.Context, recipe *domain.Recipe, items []domain.RecipeIngredient, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]any{
				"name":         recipe.Name,
				"image":        recipe.Image,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
			})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := deleteComponents(tx, recipe.ID); err != nil {
			return err
		}
		return writeComponents(tx, recipe.ID, items, tagIDs)
	})
}

// Delete removes line items, tag links, favorites and cart entries pointing
// at the recipe, then the recipe row.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteComponents(tx, id); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.ShoppingCartEntry{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// GetByID loads the full aggregate with author, tags and line items.
func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.hydrated(r.db.WithContext(ctx)).First(&recipe, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

// GetOwnership returns the author id and stored image key without loading
// the aggregate.
func (r *RecipeRepository) GetOwnership(ctx context.Context, id int64) (int64, string, error) {
	var row struct {
		AuthorID int64
		Image    string
	}
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("author_id", "image").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return 0, "", translate(err)
	}
	return row.AuthorID, row.Image, nil
}

// GetShort loads only the recipe row.
func (r *RecipeRepository) GetShort(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

// List returns a page of hydrated recipes, newest first, and the total count.
func (r *RecipeRepository) List(ctx context.Context, f RecipeFilter, offset, limit int) ([]domain.Recipe, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []domain.Recipe
	err := r.hydrated(r.filtered(ctx, f)).
		Order("recipes.published_at DESC").
		Order("recipes.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor returns the author's newest recipes, up to limit (0 = all).
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("published_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recipes []domain.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *RecipeRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (r *RecipeRepository) filtered(ctx context.Context, f RecipeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.Recipe{})
	if len(f.TagSlugs) > 0 {
		tagged := r.db.Model(&domain.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if f.AuthorID > 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if f.FavoritedBy > 0 {
		q = q.Where("recipes.id IN (?)", r.db.Model(&domain.Favorite{}).Select("recipe_id").Where("user_id = ?", f.FavoritedBy))
	}
	if f.InCartOf > 0 {
		q = q.Where("recipes.id IN (?)", r.db.Model(&domain.ShoppingCartEntry{}).Select("recipe_id").Where("user_id = ?", f.InCartOf))
	}
	return q
}

func (r *RecipeRepository) hydrated(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

func writeComponents(tx *gorm.DB, recipeID int64, items []domain.RecipeIngredient, tagIDs []int64) error {
	if len(items) > 0 {
		rows := make([]domain.RecipeIngredient, len(items))
		for i, item := range items {
			rows[i] = domain.RecipeIngredient{
				RecipeID:     recipeID,
				IngredientID: item.IngredientID,
				Amount:       item.Amount,
			}
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return translate(err)
		}
	}

	if len(tagIDs) > 0 {
		links := make([]domain.RecipeTag, len(tagIDs))
		for i, tagID := range tagIDs {
			links[i] = domain.RecipeTag{RecipeID: recipeID, TagID: tagID}
		}
		if err := tx.Create(&links).Error; err != nil {
			return translate(err)
		}
	}
	return nil
}

func deleteComponents(tx *gorm.DB, recipeID int64) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
		return err
	}
	return tx.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeTag{}).Error
}
