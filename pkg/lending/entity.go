package lending

import (
	"time"

	"github.com/google/uuid"
)

// Loan records one lending of one book to one user. A nil ReturnedAt marks
// the loan as open; at most one open loan may exist per book.
type Loan struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	BookID     uuid.UUID  `json:"book_id"`
	BorrowedAt time.Time  `json:"borrow_date"`
	DueAt      time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"return_date,omitempty"`
}

// IsOverdue reports whether the loan is still open past its due date.
func (l Loan) IsOverdue(now time.Time) bool {
	return l.ReturnedAt == nil && now.After(l.DueAt)
}

// Fine charges ratePerDay for each whole day elapsed past the due date.
// Partial days do not count; a loan returned on time owes nothing.
func (l Loan) Fine(now time.Time, ratePerDay int) int {
	if !l.IsOverdue(now) {
		return 0
	}
	overdueDays := int(now.Sub(l.DueAt).Hours() / 24)
	return overdueDays * ratePerDay
}
