// Package view builds the JSON projections returned by the API. Every
// requester-dependent flag is passed in explicitly by the caller.
package view

import "foodgram/internal/domain"

// URLResolver maps a stored image key to its public location.
type URLResolver interface {
	URL(key string) string
}

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func NewUser(u *domain.User, subscribed bool) User {
	if u == nil {
		return User{}
	}
	return User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

func NewTag(t domain.Tag) Tag {
	return Tag{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func NewIngredient(i domain.Ingredient) Ingredient {
	return Ingredient{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// LineItem is an ingredient with its amount; ID is the ingredient id.
type LineItem struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeFlags are the requester-dependent parts of a recipe view.
type RecipeFlags struct {
	Favorited        bool
	InShoppingCart   bool
	AuthorSubscribed bool
}

type Recipe struct {
	ID               int64      `json:"id"`
	Tags             []Tag      `json:"tags"`
	Author           User       `json:"author"`
	Ingredients      []LineItem `json:"ingredients"`
	IsFavorited      bool       `json:"is_favorited"`
	IsInShoppingCart bool       `json:"is_in_shopping_cart"`
	Name             string     `json:"name"`
	Image            string     `json:"image"`
	Text             string     `json:"text"`
	CookingTime      int        `json:"cooking_time"`
}

// NewRecipe projects a hydrated recipe. Missing associations render as empty
// lists rather than null.
func NewRecipe(r *domain.Recipe, urls URLResolver, flags RecipeFlags) Recipe {
	tags := make([]Tag, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, NewTag(t))
	}

	items := make([]LineItem, 0, len(r.Ingredients))
	for _, item := range r.Ingredients {
		li := LineItem{ID: item.IngredientID, Amount: item.Amount}
		if item.Ingredient != nil {
			li.Name = item.Ingredient.Name
			li.MeasurementUnit = item.Ingredient.MeasurementUnit
		}
		items = append(items, li)
	}

	return Recipe{
		ID:               r.ID,
		Tags:             tags,
		Author:           NewUser(r.Author, flags.AuthorSubscribed),
		Ingredients:      items,
		IsFavorited:      flags.Favorited,
		IsInShoppingCart: flags.InShoppingCart,
		Name:             r.Name,
		Image:            imageURL(urls, r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func NewRecipeShort(r *domain.Recipe, urls URLResolver) RecipeShort {
	return RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       imageURL(urls, r.Image),
		CookingTime: r.CookingTime,
	}
}

// Author is a followed user with a preview of their recipes.
type Author struct {
	User
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

func NewAuthor(u *domain.User, subscribed bool, recipes []domain.Recipe, count int64, urls URLResolver) Author {
	shorts := make([]RecipeShort, 0, len(recipes))
	for i := range recipes {
		shorts = append(shorts, NewRecipeShort(&recipes[i], urls))
	}
	return Author{
		User:         NewUser(u, subscribed),
		Recipes:      shorts,
		RecipesCount: count,
	}
}

func imageURL(urls URLResolver, key string) string {
	if key == "" || urls == nil {
		return key
	}
	return urls.URL(key)
}
