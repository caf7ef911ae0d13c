package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"foodgram/internal/database"
	"foodgram/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:repository_test_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := database.Connect(dsn, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    strings.ToUpper(username[:1]),
		LastName:     "Test",
		PasswordHash: "x",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func createIngredient(t *testing.T, db *gorm.DB, name, unit string) domain.Ingredient {
	t.Helper()
	ing := domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ing).Error)
	return ing
}

func createTag(t *testing.T, db *gorm.DB, slug, color string) domain.Tag {
	t.Helper()
	tag := domain.Tag{Name: strings.ToUpper(slug), Color: color, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &domain.User{Email: " Chef@Example.com ", Username: "chef", FirstName: "C", LastName: "F", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.Equal(t, "chef@example.com", u.Email)

	got, err := repo.GetByEmail(ctx, "CHEF@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	exists, err := repo.ExistsByUsername(ctx, "chef")
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Create(ctx, &domain.User{Email: "chef@example.com", Username: "other", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
}

func TestUserRepository_List(t *testing.T) {
	db := setupTestDB(t)
	for _, name := range []string{"ann", "bob", "cid"} {
		createUser(t, db, name)
	}

	users, total, err := NewUserRepository(db).List(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
}

func TestTokenRepository_GetOrCreateIsStable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "ann")

	first, err := repo.GetOrCreate(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, first.Key, 32)

	second, err := repo.GetOrCreate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)

	byKey, err := repo.GetByKey(ctx, first.Key)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byKey.UserID)

	require.NoError(t, repo.DeleteByUser(ctx, u.ID))
	_, err = repo.GetByKey(ctx, first.Key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenRepository_DeleteIssuedBefore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()
	stale := createUser(t, db, "stale")
	fresh := createUser(t, db, "fresh")

	old, err := repo.GetOrCreate(ctx, stale.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.AuthToken{}).
		Where("id = ?", old.ID).
		Update("issued_at", time.Now().Add(-48*time.Hour)).Error)
	kept, err := repo.GetOrCreate(ctx, fresh.ID)
	require.NoError(t, err)

	n, err := repo.DeleteIssuedBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByKey(ctx, old.Key)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByKey(ctx, kept.Key)
	assert.NoError(t, err)

	// a login refreshes the key so it survives the next sweep
	again, err := repo.GetOrCreate(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, kept.Key, again.Key)
	assert.False(t, again.IssuedAt.Before(kept.IssuedAt))
}

func TestIngredientRepository_PrefixSearch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIngredientRepository(db)
	for _, name := range []string{"sugar", "salt", "Sage", "flour", "50%_cream"} {
		createIngredient(t, db, name, "g")
	}

	items, err := repo.List(context.Background(), "SA")
	require.NoError(t, err)
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	assert.ElementsMatch(t, []string{"Sage", "salt"}, names)

	items, err = repo.List(context.Background(), "50%")
	require.NoError(t, err)
	require.Len(t, items, 1)

	all, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestExistingIDs(t *testing.T) {
	db := setupTestDB(t)
	a := createIngredient(t, db, "egg", "pcs")
	tag := createTag(t, db, "breakfast", "#E26C2D")

	found, err := NewIngredientRepository(db).ExistingIDs(context.Background(), []int64{a.ID, 404})
	require.NoError(t, err)
	assert.True(t, found[a.ID])
	assert.False(t, found[404])

	tags, err := NewTagRepository(db).ExistingIDs(context.Background(), []int64{tag.ID})
	require.NoError(t, err)
	assert.True(t, tags[tag.ID])
}

func newRecipe(authorID int64, name string, published time.Time) *domain.Recipe {
	return &domain.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Image:       "recipes/" + name + ".png",
		Text:        "mix well",
		CookingTime: 10,
		PublishedAt: published,
	}
}

func TestRecipeRepository_CreateHydrates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "ann")
	flour := createIngredient(t, db, "flour", "g")
	sugar := createIngredient(t, db, "sugar", "g")
	lunch := createTag(t, db, "lunch", "#49B64E")

	recipe := newRecipe(author.ID, "cake", time.Now())
	items := []domain.RecipeIngredient{{IngredientID: flour.ID, Amount: 200}, {IngredientID: sugar.ID, Amount: 50}}
	require.NoError(t, repo.Create(ctx, recipe, items, []int64{lunch.ID}))

	got, err := repo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann", got.Author.Username)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "lunch", got.Tags[0].Slug)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "flour", got.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 200, got.Ingredients[0].Amount)
}

func TestRecipeRepository_CreateRollsBackOnBadIngredient(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	author := createUser(t, db, "ann")
	flour := createIngredient(t, db, "flour", "g")

	recipe := newRecipe(author.ID, "broken", time.Now())
	items := []domain.RecipeIngredient{{IngredientID: flour.ID, Amount: 1}, {IngredientID: 404, Amount: 1}}
	err := repo.Create(context.Background(), recipe, items, nil)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&domain.RecipeIngredient{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecipeRepository_ReplaceIsFullReplace(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "ann")
	a := createIngredient(t, db, "a", "g")
	b := createIngredient(t, db, "b", "g")
	c := createIngredient(t, db, "c", "g")
	t1 := createTag(t, db, "t1", "#000001")
	t2 := createTag(t, db, "t2", "#000002")

	recipe := newRecipe(author.ID, "stew", time.Now())
	require.NoError(t, repo.Create(ctx, recipe,
		[]domain.RecipeIngredient{{IngredientID: a.ID, Amount: 2}, {IngredientID: b.ID, Amount: 3}},
		[]int64{t1.ID}))

	recipe.Name = "better stew"
	require.NoError(t, repo.Replace(ctx, recipe,
		[]domain.RecipeIngredient{{IngredientID: c.ID, Amount: 1}},
		[]int64{t2.ID}))

	got, err := repo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "better stew", got.Name)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, c.ID, got.Ingredients[0].IngredientID)
	assert.Equal(t, 1, got.Ingredients[0].Amount)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, t2.ID, got.Tags[0].ID)

	err = repo.Replace(ctx, &domain.Recipe{ID: 999, Name: "x"}, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "ann")
	fan := createUser(t, db, "bob")
	a := createIngredient(t, db, "a", "g")
	tag := createTag(t, db, "t", "#000001")

	recipe := newRecipe(author.ID, "pie", time.Now())
	require.NoError(t, repo.Create(ctx, recipe, []domain.RecipeIngredient{{IngredientID: a.ID, Amount: 2}}, []int64{tag.ID}))
	require.NoError(t, NewFavoriteRepository(db).Add(ctx, fan.ID, recipe.ID))
	require.NoError(t, NewShoppingCartRepository(db).Add(ctx, fan.ID, recipe.ID))

	require.NoError(t, repo.Delete(ctx, recipe.ID))

	_, err := repo.GetByID(ctx, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	for _, model := range []any{&domain.RecipeIngredient{}, &domain.RecipeTag{}, &domain.Favorite{}, &domain.ShoppingCartEntry{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}

	assert.ErrorIs(t, repo.Delete(ctx, recipe.ID), ErrNotFound)
}

func TestRecipeRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	ann := createUser(t, db, "ann")
	bob := createUser(t, db, "bob")
	a := createIngredient(t, db, "a", "g")
	lunch := createTag(t, db, "lunch", "#000001")
	dinner := createTag(t, db, "dinner", "#000002")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mk := func(author int64, name string, offset time.Duration, tags ...int64) *domain.Recipe {
		r := newRecipe(author, name, base.Add(offset))
		require.NoError(t, repo.Create(ctx, r, []domain.RecipeIngredient{{IngredientID: a.ID, Amount: 1}}, tags))
		return r
	}
	r1 := mk(ann.ID, "one", 0, lunch.ID)
	r2 := mk(ann.ID, "two", time.Hour, dinner.ID)
	r3 := mk(bob.ID, "three", 2*time.Hour, lunch.ID, dinner.ID)

	names := func(f RecipeFilter) []string {
		recipes, _, err := repo.List(ctx, f, 0, 10)
		require.NoError(t, err)
		out := make([]string, 0, len(recipes))
		for _, r := range recipes {
			out = append(out, r.Name)
		}
		return out
	}

	assert.Equal(t, []string{"three", "two", "one"}, names(RecipeFilter{}))
	assert.Equal(t, []string{"three", "one"}, names(RecipeFilter{TagSlugs: []string{"lunch"}}))
	assert.Equal(t, []string{"three", "two", "one"}, names(RecipeFilter{TagSlugs: []string{"lunch", "dinner"}}))
	assert.Equal(t, []string{"two", "one"}, names(RecipeFilter{AuthorID: ann.ID}))

	require.NoError(t, NewFavoriteRepository(db).Add(ctx, bob.ID, r1.ID))
	require.NoError(t, NewShoppingCartRepository(db).Add(ctx, bob.ID, r2.ID))
	assert.Equal(t, []string{"one"}, names(RecipeFilter{FavoritedBy: bob.ID}))
	assert.Equal(t, []string{"two"}, names(RecipeFilter{InCartOf: bob.ID}))
	assert.Empty(t, names(RecipeFilter{FavoritedBy: ann.ID}))

	page, total, err := repo.List(ctx, RecipeFilter{}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, r2.ID, page[0].ID)

	latest, err := repo.ListByAuthor(ctx, ann.ID, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "two", latest[0].Name)

	count, err := repo.CountByAuthor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	_ = r3
}

func TestRelationshipRepositories(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ann := createUser(t, db, "ann")
	bob := createUser(t, db, "bob")

	favs := NewFavoriteRepository(db)
	require.NoError(t, favs.Add(ctx, ann.ID, 10))
	assert.ErrorIs(t, favs.Add(ctx, ann.ID, 10), ErrDuplicate)
	marked, err := favs.MarkedRecipes(ctx, ann.ID, []int64{10, 11})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{10: true}, marked)
	require.NoError(t, favs.Remove(ctx, ann.ID, 10))
	assert.ErrorIs(t, favs.Remove(ctx, ann.ID, 10), ErrNotFound)

	subs := NewSubscriptionRepository(db)
	require.NoError(t, subs.Add(ctx, ann.ID, bob.ID))
	err = subs.Add(ctx, ann.ID, bob.ID)
	assert.True(t, errors.Is(err, ErrDuplicate))

	authors, total, err := subs.ListAuthors(ctx, ann.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, authors, 1)
	assert.Equal(t, "bob", authors[0].Username)

	following, err := subs.SubscribedAuthors(ctx, ann.ID, []int64{bob.ID, ann.ID})
	require.NoError(t, err)
	assert.True(t, following[bob.ID])
	assert.False(t, following[ann.ID])

	none, err := subs.SubscribedAuthors(ctx, 0, []int64{bob.ID})
	require.NoError(t, err)
	assert.Empty(t, none)
}
