package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	MaxLimit = 100
	// MaxPage keeps (page-1)*limit far from int overflow.
	MaxPage = 1_000_000
)

type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// FromQuery reads ?page= and ?limit=. Missing or invalid values fall back to
// page 1 and defaultLimit; limit is capped at MaxLimit.
func FromQuery(c *gin.Context, defaultLimit int) Params {
	p := Params{Page: 1, Limit: defaultLimit}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Limit <= 0 {
		p.Limit = 6
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

type Page[T any] struct {
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	Results    []T   `json:"results"`
}

func NewPage[T any](results []T, count int64, p Params) Page[T] {
	if results == nil {
		results = []T{}
	}
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((count + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Page[T]{
		Count:      count,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
		Results:    results,
	}
}
