package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/library/pkg/catalog"
)

// BookRepository implements catalog.Repository backed by PostgreSQL (pgx).
type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) (*BookRepository, error) {
	r := &BookRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *BookRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS books (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	genre TEXT,
	isbn TEXT NOT NULL UNIQUE,
	is_available BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL
);
`)
	return err
}

func (r *BookRepository) Create(ctx context.Context, b catalog.Book) error {
	var genre any
	if b.Genre != "" {
		genre = b.Genre
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO books (id, title, author, genre, isbn, is_available, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, b.ID, b.Title, b.Author, genre, b.ISBN, b.Available, b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return catalog.ErrISBNTaken
		}
		return err
	}
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id uuid.UUID) (catalog.Book, error) {
	return scanBook(r.pool.QueryRow(ctx, `
SELECT id, title, author, genre, isbn, is_available, created_at FROM books WHERE id = $1
`, id))
}

func (r *BookRepository) List(ctx context.Context, limit, offset int) ([]catalog.Book, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, title, author, genre, isbn, is_available, created_at
FROM books
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []catalog.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

func (r *BookRepository) Update(ctx context.Context, id uuid.UUID, fields catalog.BookFields) (catalog.Book, error) {
	// COALESCE keeps columns whose field pointer is nil untouched.
	row := r.pool.QueryRow(ctx, `
UPDATE books SET
	title = COALESCE($2, title),
	author = COALESCE($3, author),
	genre = COALESCE($4, genre),
	isbn = COALESCE($5, isbn)
WHERE id = $1
RETURNING id, title, author, genre, isbn, is_available, created_at
`, id, fields.Title, fields.Author, fields.Genre, fields.ISBN)
	b, err := scanBook(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return catalog.Book{}, catalog.ErrISBNTaken
		}
		return catalog.Book{}, err
	}
	return b, nil
}

func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (catalog.Book, error) {
	var b catalog.Book
	var genre *string
	var created time.Time
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &genre, &b.ISBN, &b.Available, &created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Book{}, catalog.ErrNotFound
		}
		return catalog.Book{}, err
	}
	if genre != nil {
		b.Genre = *genre
	}
	b.CreatedAt = created.UTC()
	return b, nil
}
