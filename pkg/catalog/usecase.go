package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UseCase covers catalogue maintenance: everything except borrowing,
// which belongs to pkg/lending.
type UseCase interface {
	Create(ctx context.Context, b Book) (Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (Book, error)
	List(ctx context.Context, limit, offset int) ([]Book, error)
	Update(ctx context.Context, id uuid.UUID, fields BookFields) (Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) Create(ctx context.Context, b Book) (Book, error) {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.ISBN = strings.TrimSpace(b.ISBN)
	if b.Title == "" || b.Author == "" || b.ISBN == "" {
		return Book{}, ErrValidation("title, author and isbn are required")
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	// A book enters the catalogue on the shelf.
	b.Available = true
	if err := s.repo.Create(ctx, b); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Book, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, fields BookFields) (Book, error) {
	if fields.Title == nil && fields.Author == nil && fields.Genre == nil && fields.ISBN == nil {
		return Book{}, ErrValidation("nothing to update")
	}
	return s.repo.Update(ctx, id, fields)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ErrValidation is a simple validation error.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }
