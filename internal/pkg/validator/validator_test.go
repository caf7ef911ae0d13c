package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int   `json:"amount" validate:"gte=1"`
}

type payload struct {
	Username    string `json:"username" validate:"required,max=150,username"`
	CookingTime int    `json:"cooking_time" validate:"gte=1"`
	Items       []item `json:"ingredients" validate:"required,min=1,dive"`
}

func TestValidate_OK(t *testing.T) {
	errs := Validate(payload{
		Username:    "chef.bob+1@home",
		CookingTime: 10,
		Items:       []item{{ID: 1, Amount: 2}},
	})
	assert.Nil(t, errs)
}

func TestValidate_FieldMessagesUseJSONNames(t *testing.T) {
	errs := Validate(payload{
		Username:    "bad name!",
		CookingTime: 0,
		Items:       []item{{ID: 1, Amount: 0}},
	})

	assert.Contains(t, errs["username"], "valid username")
	assert.Contains(t, errs["cooking_time"], "greater than or equal to 1")
	assert.Contains(t, errs["ingredients[0].amount"], "greater than or equal to 1")
}

func TestValidate_EmptyList(t *testing.T) {
	errs := Validate(payload{Username: "a", CookingTime: 1, Items: []item{}})
	assert.Contains(t, errs["ingredients"], "at least 1 item")
}
