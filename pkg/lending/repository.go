package lending

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrBookNotAvailable covers both a missing book and a book that is
	// already out on loan; callers must not learn which.
	ErrBookNotAvailable = errors.New("book is not available")
	ErrLoanNotFound     = errors.New("loan record not found")
	ErrAlreadyReturned  = errors.New("loan already returned")
	ErrUserNotFound     = errors.New("user not found")
)

// Repository is the persistence port for loans. Borrow and Return must run
// as a single transaction: the book row is locked, checked and flipped
// together with the loan mutation, so two racing borrows cannot both
// observe an available book.
type Repository interface {
	// Borrow inserts the loan and sets the book unavailable atomically.
	// Returns ErrBookNotAvailable when the book is missing or on loan.
	Borrow(ctx context.Context, loan Loan) error
	// Return closes the loan and sets the book available atomically.
	// Returns ErrLoanNotFound or ErrAlreadyReturned without side effects.
	Return(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) (Loan, error)
	GetByID(ctx context.Context, id uuid.UUID) (Loan, error)
	// ListOpenByUser returns open loans ordered by borrow date ascending.
	ListOpenByUser(ctx context.Context, userID uuid.UUID) ([]Loan, error)
	ListAll(ctx context.Context, limit, offset int) ([]Loan, error)
}
