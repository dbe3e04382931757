package lending

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoanRepo mirrors the transactional contract of the Postgres
// repository: a book with an open loan cannot be borrowed, a closed loan
// cannot be closed twice.
type fakeLoanRepo struct {
	mu    sync.Mutex
	loans map[uuid.UUID]Loan
	books map[uuid.UUID]bool // id -> available
}

func newFakeLoanRepo(bookIDs ...uuid.UUID) *fakeLoanRepo {
	books := make(map[uuid.UUID]bool, len(bookIDs))
	for _, id := range bookIDs {
		books[id] = true
	}
	return &fakeLoanRepo{loans: make(map[uuid.UUID]Loan), books: books}
}

func (r *fakeLoanRepo) Borrow(_ context.Context, loan Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	available, ok := r.books[loan.BookID]
	if !ok || !available {
		return ErrBookNotAvailable
	}
	r.books[loan.BookID] = false
	r.loans[loan.ID] = loan
	return nil
}

func (r *fakeLoanRepo) Return(_ context.Context, loanID uuid.UUID, returnedAt time.Time) (Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.loans[loanID]
	if !ok {
		return Loan{}, ErrLoanNotFound
	}
	if loan.ReturnedAt != nil {
		return Loan{}, ErrAlreadyReturned
	}
	returnedAt = returnedAt.UTC()
	loan.ReturnedAt = &returnedAt
	r.loans[loanID] = loan
	r.books[loan.BookID] = true
	return loan, nil
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id uuid.UUID) (Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.loans[id]
	if !ok {
		return Loan{}, ErrLoanNotFound
	}
	return loan, nil
}

func (r *fakeLoanRepo) ListOpenByUser(_ context.Context, userID uuid.UUID) ([]Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Loan
	for _, l := range r.loans {
		if l.UserID == userID && l.ReturnedAt == nil {
			res = append(res, l)
		}
	}
	sortLoans(res)
	return res, nil
}

func (r *fakeLoanRepo) ListAll(_ context.Context, _, _ int) ([]Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Loan
	for _, l := range r.loans {
		res = append(res, l)
	}
	sortLoans(res)
	return res, nil
}

func sortLoans(loans []Loan) {
	for i := 1; i < len(loans); i++ {
		for j := i; j > 0 && loans[j].BorrowedAt.Before(loans[j-1].BorrowedAt); j-- {
			loans[j], loans[j-1] = loans[j-1], loans[j]
		}
	}
}

func newTestService(repo Repository, now time.Time) *service {
	return &service{repo: repo, defaultDays: 14, now: func() time.Time { return now }}
}

func TestBorrow_DefaultLoanPeriod(t *testing.T) {
	bookID := uuid.New()
	repo := newFakeLoanRepo(bookID)
	now := ts(2024, 3, 1)
	svc := newTestService(repo, now)

	loan, err := svc.Borrow(context.Background(), uuid.New(), bookID, 0)
	require.NoError(t, err)
	assert.Equal(t, now, loan.BorrowedAt)
	assert.Equal(t, now.AddDate(0, 0, 14), loan.DueAt)
	assert.Nil(t, loan.ReturnedAt)
}

func TestBorrow_ExplicitDays(t *testing.T) {
	bookID := uuid.New()
	repo := newFakeLoanRepo(bookID)
	now := ts(2024, 3, 1)
	svc := newTestService(repo, now)

	loan, err := svc.Borrow(context.Background(), uuid.New(), bookID, 7)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 7), loan.DueAt)
}

func TestBorrow_SecondBorrowRejected(t *testing.T) {
	bookID := uuid.New()
	repo := newFakeLoanRepo(bookID)
	svc := newTestService(repo, ts(2024, 3, 1))

	_, err := svc.Borrow(context.Background(), uuid.New(), bookID, 0)
	require.NoError(t, err)

	_, err = svc.Borrow(context.Background(), uuid.New(), bookID, 0)
	assert.ErrorIs(t, err, ErrBookNotAvailable)
}

func TestBorrow_UnknownBookRejected(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := newTestService(repo, ts(2024, 3, 1))

	_, err := svc.Borrow(context.Background(), uuid.New(), uuid.New(), 0)
	assert.ErrorIs(t, err, ErrBookNotAvailable)
}

func TestReturn_ClosesLoanAndFreesBook(t *testing.T) {
	bookID := uuid.New()
	repo := newFakeLoanRepo(bookID)
	svc := newTestService(repo, ts(2024, 3, 1))

	loan, err := svc.Borrow(context.Background(), uuid.New(), bookID, 0)
	require.NoError(t, err)

	returned, err := svc.Return(context.Background(), loan.ID)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnedAt)
	assert.True(t, repo.books[bookID], "book must be available after return")
}

func TestReturn_UnknownLoan(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := newTestService(repo, ts(2024, 3, 1))

	_, err := svc.Return(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestReturn_TwiceIsConflict(t *testing.T) {
	bookID := uuid.New()
	repo := newFakeLoanRepo(bookID)
	svc := newTestService(repo, ts(2024, 3, 1))

	loan, err := svc.Borrow(context.Background(), uuid.New(), bookID, 0)
	require.NoError(t, err)
	_, err = svc.Return(context.Background(), loan.ID)
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), loan.ID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)
	// The second attempt must not flip availability back.
	assert.True(t, repo.books[bookID])
}

func TestBorrowReturnBorrow_CyclesCleanly(t *testing.T) {
	bookID := uuid.New()
	userID := uuid.New()
	repo := newFakeLoanRepo(bookID)
	svc := newTestService(repo, ts(2024, 3, 1))

	for i := 0; i < 3; i++ {
		loan, err := svc.Borrow(context.Background(), userID, bookID, 0)
		require.NoError(t, err, "cycle %d", i)
		_, err = svc.Return(context.Background(), loan.ID)
		require.NoError(t, err, "cycle %d", i)
	}
}

func TestListOpen_OrderedAndExcludesReturned(t *testing.T) {
	userID := uuid.New()
	b1, b2, b3 := uuid.New(), uuid.New(), uuid.New()
	repo := newFakeLoanRepo(b1, b2, b3)

	// Borrow in reverse chronological order to prove sorting.
	svcLate := newTestService(repo, ts(2024, 3, 10))
	late, err := svcLate.Borrow(context.Background(), userID, b1, 0)
	require.NoError(t, err)

	svcEarly := newTestService(repo, ts(2024, 3, 1))
	early, err := svcEarly.Borrow(context.Background(), userID, b2, 0)
	require.NoError(t, err)

	svcMid := newTestService(repo, ts(2024, 3, 5))
	mid, err := svcMid.Borrow(context.Background(), userID, b3, 0)
	require.NoError(t, err)

	// Close one; it must disappear from the open listing.
	_, err = svcMid.Return(context.Background(), mid.ID)
	require.NoError(t, err)

	open, err := svcMid.ListOpen(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, early.ID, open[0].ID)
	assert.Equal(t, late.ID, open[1].ID)
}

func TestBorrow_ConcurrentAttemptsExactlyOneWins(t *testing.T) {
	bookID := uuid.New()
	repo := newFakeLoanRepo(bookID)
	svc := newTestService(repo, ts(2024, 3, 1))

	const attempts = 16
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Borrow(context.Background(), uuid.New(), bookID, 0)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrBookNotAvailable)
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)
}
