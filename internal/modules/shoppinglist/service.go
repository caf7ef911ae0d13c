package shoppinglist

import (
	"bytes"
	"context"
	"io"
	"time"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"
)

const title = "Shopping list"

var ErrAuthRequired = apperr.New(apperr.KindAuthentication, "NOT_AUTHENTICATED", "Authentication credentials were not provided")

type RowSource interface {
	Aggregate(ctx context.Context, userID int64) ([]Row, error)
}

type Renderer interface {
	Render(w io.Writer, doc Document) error
}

// Service builds the shopping list on every request; nothing is cached.
type Service struct {
	rows     RowSource
	renderer Renderer
	now      func() time.Time
}

func NewService(rows RowSource, renderer Renderer) *Service {
	return &Service{rows: rows, renderer: renderer, now: time.Now}
}

func (s *Service) Document(ctx context.Context, requester domain.Requester) (Document, error) {
	if requester.IsAnonymous() {
		return Document{}, ErrAuthRequired
	}
	rows, err := s.rows.Aggregate(ctx, requester.UserID)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Title:       title,
		GeneratedAt: s.now(),
		Rows:        Table(rows),
	}, nil
}

// Render returns the rendered document bytes.
func (s *Service) Render(ctx context.Context, requester domain.Requester) ([]byte, error) {
	doc, err := s.Document(ctx, requester)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
