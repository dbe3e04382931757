package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookRepo struct {
	books map[uuid.UUID]Book
	isbns map[string]bool
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uuid.UUID]Book), isbns: make(map[string]bool)}
}

func (r *fakeBookRepo) Create(_ context.Context, b Book) error {
	if r.isbns[b.ISBN] {
		return ErrISBNTaken
	}
	r.books[b.ID] = b
	r.isbns[b.ISBN] = true
	return nil
}

func (r *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (Book, error) {
	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *fakeBookRepo) List(_ context.Context, _, _ int) ([]Book, error) {
	var res []Book
	for _, b := range r.books {
		res = append(res, b)
	}
	return res, nil
}

func (r *fakeBookRepo) Update(_ context.Context, id uuid.UUID, fields BookFields) (Book, error) {
	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	if fields.Title != nil {
		b.Title = *fields.Title
	}
	if fields.Author != nil {
		b.Author = *fields.Author
	}
	if fields.Genre != nil {
		b.Genre = *fields.Genre
	}
	if fields.ISBN != nil {
		b.ISBN = *fields.ISBN
	}
	r.books[id] = b
	return b, nil
}

func (r *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.books[id]; !ok {
		return ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func TestCreate_FillsDefaults(t *testing.T) {
	svc := NewService(newFakeBookRepo())

	b, err := svc.Create(context.Background(), Book{
		Title:  "  The Go Programming Language ",
		Author: "Donovan & Kernighan",
		ISBN:   "9780134190440",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, "The Go Programming Language", b.Title)
	assert.True(t, b.Available, "new book must be on the shelf")
	assert.False(t, b.CreatedAt.IsZero())
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newFakeBookRepo())

	_, err := svc.Create(context.Background(), Book{Title: "x"})
	var ve ErrValidation
	assert.ErrorAs(t, err, &ve)
}

func TestCreate_DuplicateISBN(t *testing.T) {
	svc := NewService(newFakeBookRepo())

	_, err := svc.Create(context.Background(), Book{Title: "a", Author: "b", ISBN: "123"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), Book{Title: "c", Author: "d", ISBN: "123"})
	assert.ErrorIs(t, err, ErrISBNTaken)
}

func TestUpdate_NoFieldsRejected(t *testing.T) {
	svc := NewService(newFakeBookRepo())

	_, err := svc.Update(context.Background(), uuid.New(), BookFields{})
	var ve ErrValidation
	assert.ErrorAs(t, err, &ve)
}

func TestUpdate_PartialChange(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewService(repo)

	b, err := svc.Create(context.Background(), Book{Title: "a", Author: "b", Genre: "sci-fi", ISBN: "123"})
	require.NoError(t, err)

	title := "new title"
	updated, err := svc.Update(context.Background(), b.ID, BookFields{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "b", updated.Author)
	assert.Equal(t, "sci-fi", updated.Genre)
}

func TestDelete_Unknown(t *testing.T) {
	svc := NewService(newFakeBookRepo())
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), ErrNotFound)
}
