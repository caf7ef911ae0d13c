package recipe

import "strings"

// IngredientAmount is one line item of a payload; ID is the ingredient id.
type IngredientAmount struct {
	ID     int64 `json:"id" validate:"gt=0"`
	Amount int   `json:"amount" validate:"gte=1"`
}

// RecipeRequest is the create and update payload. Image is base64, either
// bare or as a data URI; it may be omitted on update.
type RecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []int64            `json:"tags" validate:"required,min=1,dive,gt=0"`
	Image       string             `json:"image"`
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"gte=1"`
}

// normalize trims the free-text fields so blank values fail "required".
func (r *RecipeRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Text = strings.TrimSpace(r.Text)
}

// ListQuery holds the recipe list filters.
type ListQuery struct {
	TagSlugs         []string
	AuthorID         int64
	IsFavorited      bool
	IsInShoppingCart bool
}
