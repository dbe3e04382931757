package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Book is a single catalogued title. Available is true iff no open loan
// references the book; every mutation of the flag goes through pkg/lending.
type Book struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Genre     string    `json:"genre,omitempty"`
	ISBN      string    `json:"isbn"`
	Available bool      `json:"is_available"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrNotFound  = errors.New("book not found")
	ErrISBNTaken = errors.New("isbn already registered")
)

// BookFields carries the mutable attributes for partial updates;
// nil pointers mean "leave unchanged".
type BookFields struct {
	Title  *string
	Author *string
	Genre  *string
	ISBN   *string
}

// Repository is the persistence port for books.
type Repository interface {
	Create(ctx context.Context, b Book) error
	GetByID(ctx context.Context, id uuid.UUID) (Book, error)
	List(ctx context.Context, limit, offset int) ([]Book, error)
	Update(ctx context.Context, id uuid.UUID, fields BookFields) (Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
