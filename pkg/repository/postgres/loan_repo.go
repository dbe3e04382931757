package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/library/pkg/lending"
)

// LoanRepository implements lending.Repository backed by PostgreSQL (pgx).
// Borrow and Return lock the book row with SELECT ... FOR UPDATE inside one
// transaction, so concurrent attempts on the same book serialize and the
// availability flag never drifts from the open-loan state.
type LoanRepository struct {
	pool *pgxpool.Pool
}

func NewLoanRepository(pool *pgxpool.Pool) (*LoanRepository, error) {
	r := &LoanRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *LoanRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS loans (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	book_id UUID NOT NULL REFERENCES books(id),
	borrowed_at TIMESTAMPTZ NOT NULL,
	due_at TIMESTAMPTZ NOT NULL,
	returned_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_loans_user ON loans(user_id);
-- The store-level guard for the ledger invariant: one open loan per book.
CREATE UNIQUE INDEX IF NOT EXISTS idx_loans_open_book ON loans(book_id) WHERE returned_at IS NULL;
`)
	return err
}

func (r *LoanRepository) Borrow(ctx context.Context, loan lending.Loan) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the book row; a racing borrow waits here and then sees
	// is_available = false.
	var available bool
	row := tx.QueryRow(ctx, `SELECT is_available FROM books WHERE id = $1 FOR UPDATE`, loan.BookID)
	if err := row.Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lending.ErrBookNotAvailable
		}
		return err
	}
	if !available {
		return lending.ErrBookNotAvailable
	}

	_, err = tx.Exec(ctx, `
INSERT INTO loans (id, user_id, book_id, borrowed_at, due_at)
VALUES ($1, $2, $3, $4, $5)
`, loan.ID, loan.UserID, loan.BookID, loan.BorrowedAt, loan.DueAt)
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.Code == "23505": // unique_violation on the open-loan index
			return lending.ErrBookNotAvailable
		case errors.As(err, &pgErr) && pgErr.Code == "23503": // foreign_key_violation
			return lending.ErrUserNotFound
		}
		return err
	}
	_, err = tx.Exec(ctx, `UPDATE books SET is_available = FALSE WHERE id = $1`, loan.BookID)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *LoanRepository) Return(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) (lending.Loan, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return lending.Loan{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	loan, err := scanLoan(tx.QueryRow(ctx, `
SELECT id, user_id, book_id, borrowed_at, due_at, returned_at
FROM loans WHERE id = $1 FOR UPDATE
`, loanID))
	if err != nil {
		return lending.Loan{}, err
	}
	if loan.ReturnedAt != nil {
		return lending.Loan{}, lending.ErrAlreadyReturned
	}

	returnedAt = returnedAt.UTC()
	_, err = tx.Exec(ctx, `UPDATE loans SET returned_at = $2 WHERE id = $1`, loanID, returnedAt)
	if err != nil {
		return lending.Loan{}, err
	}
	_, err = tx.Exec(ctx, `UPDATE books SET is_available = TRUE WHERE id = $1`, loan.BookID)
	if err != nil {
		return lending.Loan{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return lending.Loan{}, err
	}
	loan.ReturnedAt = &returnedAt
	return loan, nil
}

func (r *LoanRepository) GetByID(ctx context.Context, id uuid.UUID) (lending.Loan, error) {
	return scanLoan(r.pool.QueryRow(ctx, `
SELECT id, user_id, book_id, borrowed_at, due_at, returned_at
FROM loans WHERE id = $1
`, id))
}

func (r *LoanRepository) ListOpenByUser(ctx context.Context, userID uuid.UUID) ([]lending.Loan, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, book_id, borrowed_at, due_at, returned_at
FROM loans
WHERE user_id = $1 AND returned_at IS NULL
ORDER BY borrowed_at, id
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLoans(rows)
}

func (r *LoanRepository) ListAll(ctx context.Context, limit, offset int) ([]lending.Loan, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, book_id, borrowed_at, due_at, returned_at
FROM loans
ORDER BY borrowed_at, id
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLoans(rows)
}

func collectLoans(rows pgx.Rows) ([]lending.Loan, error) {
	var res []lending.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, loan)
	}
	return res, rows.Err()
}

func scanLoan(row pgx.Row) (lending.Loan, error) {
	var loan lending.Loan
	var borrowed, due time.Time
	var returned *time.Time
	if err := row.Scan(&loan.ID, &loan.UserID, &loan.BookID, &borrowed, &due, &returned); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lending.Loan{}, lending.ErrLoanNotFound
		}
		return lending.Loan{}, err
	}
	loan.BorrowedAt = borrowed.UTC()
	loan.DueAt = due.UTC()
	if returned != nil {
		t := returned.UTC()
		loan.ReturnedAt = &t
	}
	return loan, nil
}
