package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/library/api/http/presenter"
	"github.com/artem13815/library/pkg/lending"
)

type LendingHandler struct {
	uc         lending.UseCase
	finePerDay int
}

func NewLendingHandler(uc lending.UseCase, finePerDay int) *LendingHandler {
	return &LendingHandler{uc: uc, finePerDay: finePerDay}
}

type borrowRequest struct {
	UserID string `json:"user_id"`
	BookID string `json:"book_id"`
	Days   int    `json:"days"`
}

// Borrow lends a book to a user for the requested number of days.
// @Summary Borrow book
// @Tags    lending
// @Accept  json
// @Produce json
// @Param   input body borrowRequest true "borrow payload; days defaults to the configured loan period"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /books/borrow [post]
func (h *LendingHandler) Borrow(c *fiber.Ctx) error {
	var req borrowRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid user_id")
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid book_id")
	}
	loan, err := h.uc.Borrow(c.Context(), userID, bookID, req.Days)
	if err != nil {
		switch {
		case errors.Is(err, lending.ErrBookNotAvailable):
			return presenter.Error(c, http.StatusNotFound, "book is not available or does not exist")
		case errors.Is(err, lending.ErrUserNotFound):
			return presenter.Error(c, http.StatusNotFound, "user not found")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to borrow book")
		}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"message":  "book borrowed successfully",
		"loan_id":  loan.ID.String(),
		"due_date": loan.DueAt.Format("2006-01-02"),
	})
}

type returnRequest struct {
	BorrowedBookID string `json:"borrowed_book_id"`
}

// Return closes a loan and puts the book back on the shelf.
// @Summary Return book
// @Tags    lending
// @Accept  json
// @Produce json
// @Param   input body returnRequest true "return payload"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /books/return [post]
func (h *LendingHandler) Return(c *fiber.Ctx) error {
	var req returnRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	loanID, err := uuid.Parse(req.BorrowedBookID)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid borrowed_book_id")
	}
	loan, err := h.uc.Return(c.Context(), loanID)
	if err != nil {
		switch {
		case errors.Is(err, lending.ErrLoanNotFound):
			return presenter.Error(c, http.StatusNotFound, "borrowed book record not found")
		case errors.Is(err, lending.ErrAlreadyReturned):
			return presenter.Error(c, http.StatusConflict, "book already returned")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to return book")
		}
	}
	// Assess the fine as of the moment the loan was closed; a closed loan
	// is never overdue, so the check runs on the open-state copy.
	open := loan
	open.ReturnedAt = nil
	fine := open.Fine(*loan.ReturnedAt, h.finePerDay)
	resp := fiber.Map{"message": "book returned successfully"}
	if fine > 0 {
		resp["fine"] = fine
	}
	return presenter.JSON(c, http.StatusOK, resp)
}

type loanResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	BookID     string  `json:"book_id"`
	BorrowDate string  `json:"borrow_date"`
	DueDate    string  `json:"due_date"`
	ReturnDate *string `json:"return_date,omitempty"`
	Overdue    bool    `json:"overdue"`
	Fine       int     `json:"fine"`
}

// ListByUser returns the caller-requested user's open loans, oldest first.
// @Summary List open loans for user
// @Tags    lending
// @Produce json
// @Param   user_id path string true "user ID (UUID)"
// @Security BearerAuth
// @Success 200 {array} loanResponse
// @Router  /books/borrowed/{user_id} [get]
func (h *LendingHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid user id")
	}
	loans, err := h.uc.ListOpen(c.Context(), userID)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list borrowed books")
	}
	return presenter.JSON(c, http.StatusOK, h.present(loans))
}

// ListAll returns the whole loan history, open and closed.
// @Summary List all loan records
// @Tags    lending
// @Produce json
// @Param   limit query int false "page size"
// @Param   offset query int false "page offset"
// @Security BearerAuth
// @Success 200 {array} loanResponse
// @Router  /books/borrowed [get]
func (h *LendingHandler) ListAll(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)
	loans, err := h.uc.ListAll(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list borrowed books")
	}
	return presenter.JSON(c, http.StatusOK, h.present(loans))
}

func (h *LendingHandler) present(loans []lending.Loan) []loanResponse {
	now := time.Now().UTC()
	res := make([]loanResponse, 0, len(loans))
	for _, l := range loans {
		item := loanResponse{
			ID:         l.ID.String(),
			UserID:     l.UserID.String(),
			BookID:     l.BookID.String(),
			BorrowDate: l.BorrowedAt.Format("2006-01-02"),
			DueDate:    l.DueAt.Format("2006-01-02"),
			Overdue:    l.IsOverdue(now),
			Fine:       l.Fine(now, h.finePerDay),
		}
		if l.ReturnedAt != nil {
			s := l.ReturnedAt.Format("2006-01-02")
			item.ReturnDate = &s
		}
		res = append(res, item)
	}
	return res
}
