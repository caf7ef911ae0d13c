package shoppinglist

import (
	"context"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Row is one aggregated product: the summed amount of an ingredient across
// every recipe in the cart.
type Row struct {
	Name  string `db:"name"`
	Unit  string `db:"unit"`
	Total int64  `db:"total"`
}

var header = []string{"Product", "Unit", "Quantity"}

// Aggregator sums cart ingredients in SQL.
type Aggregator struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

func NewAggregator(db *sqlx.DB) *Aggregator {
	var placeholder sq.PlaceholderFormat = sq.Question
	if db.DriverName() == "postgres" || db.DriverName() == "pgx" {
		placeholder = sq.Dollar
	}
	return &Aggregator{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// Aggregate groups the user's cart line items by (name, unit) and sums the
// amounts, ordered by name.
func (a *Aggregator) Aggregate(ctx context.Context, userID int64) ([]Row, error) {
	query, args, err := a.query(userID)
	if err != nil {
		return nil, fmt.Errorf("build shopping list query: %w", err)
	}

	rows := []Row{}
	if err := a.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}
	return rows, nil
}

func (a *Aggregator) query(userID int64) (string, []any, error) {
	return a.builder.
		Select(
			"ingredients.name AS name",
			"ingredients.measurement_unit AS unit",
			"CAST(SUM(recipe_ingredients.amount) AS BIGINT) AS total",
		).
		From("shopping_cart").
		Join("recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart.recipe_id").
		Join("ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where(sq.Eq{"shopping_cart.user_id": userID}).
		GroupBy("ingredients.name", "ingredients.measurement_unit").
		OrderBy("ingredients.name ASC", "ingredients.measurement_unit ASC").
		ToSql()
}

// Table renders rows as text cells under the fixed header.
func Table(rows []Row) [][]string {
	table := make([][]string, 0, len(rows)+1)
	table = append(table, append([]string(nil), header...))
	for _, r := range rows {
		table = append(table, []string{r.Name, r.Unit, strconv.FormatInt(r.Total, 10)})
	}
	return table
}
