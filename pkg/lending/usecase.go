package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UseCase is the borrow/return ledger. It owns the transition rules for a
// book's availability; the repositories own the rows.
type UseCase interface {
	Borrow(ctx context.Context, userID, bookID uuid.UUID, days int) (Loan, error)
	Return(ctx context.Context, loanID uuid.UUID) (Loan, error)
	ListOpen(ctx context.Context, userID uuid.UUID) ([]Loan, error)
	ListAll(ctx context.Context, limit, offset int) ([]Loan, error)
}

type service struct {
	repo        Repository
	defaultDays int
	now         func() time.Time
}

// NewService wires the ledger over a loan repository. defaultDays is the
// loan period applied when a borrow request names none.
func NewService(repo Repository, defaultDays int) UseCase {
	if defaultDays <= 0 {
		defaultDays = 14
	}
	return &service{repo: repo, defaultDays: defaultDays, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Borrow(ctx context.Context, userID, bookID uuid.UUID, days int) (Loan, error) {
	if days <= 0 {
		days = s.defaultDays
	}
	now := s.now()
	loan := Loan{
		ID:         uuid.New(),
		UserID:     userID,
		BookID:     bookID,
		BorrowedAt: now,
		DueAt:      now.AddDate(0, 0, days),
	}
	if err := s.repo.Borrow(ctx, loan); err != nil {
		return Loan{}, err
	}
	return loan, nil
}

func (s *service) Return(ctx context.Context, loanID uuid.UUID) (Loan, error) {
	return s.repo.Return(ctx, loanID, s.now())
}

func (s *service) ListOpen(ctx context.Context, userID uuid.UUID) ([]Loan, error) {
	return s.repo.ListOpenByUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context, limit, offset int) ([]Loan, error) {
	return s.repo.ListAll(ctx, limit, offset)
}
