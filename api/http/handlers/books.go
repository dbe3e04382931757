package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/library/api/http/presenter"
	"github.com/artem13815/library/pkg/catalog"
)

type BooksHandler struct {
	uc catalog.UseCase
}

func NewBooksHandler(uc catalog.UseCase) *BooksHandler { return &BooksHandler{uc: uc} }

type bookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
	ISBN   string `json:"isbn"`
}

// Create adds a new book to the catalogue.
// @Summary Add book
// @Tags    books
// @Accept  json
// @Produce json
// @Param   input body bookRequest true "book payload"
// @Security BearerAuth
// @Success 201 {object} catalog.Book
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /books/ [post]
func (h *BooksHandler) Create(c *fiber.Ctx) error {
	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	b, err := h.uc.Create(c.Context(), catalog.Book{
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
		ISBN:   req.ISBN,
	})
	if err != nil {
		return h.mapError(c, err, "failed to add book")
	}
	return presenter.JSON(c, http.StatusCreated, b)
}

// List returns the catalogue page by page.
// @Summary List books
// @Tags    books
// @Produce json
// @Param   limit query int false "page size"
// @Param   offset query int false "page offset"
// @Security BearerAuth
// @Success 200 {array} catalog.Book
// @Router  /books/ [get]
func (h *BooksHandler) List(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)
	books, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list books")
	}
	if books == nil {
		books = []catalog.Book{}
	}
	return presenter.JSON(c, http.StatusOK, books)
}

// GetByID fetches a single book.
// @Summary Get book
// @Tags    books
// @Produce json
// @Param   id path string true "book ID (UUID)"
// @Security BearerAuth
// @Success 200 {object} catalog.Book
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /books/{id} [get]
func (h *BooksHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid book id")
	}
	b, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return h.mapError(c, err, "failed to get book")
	}
	return presenter.JSON(c, http.StatusOK, b)
}

type updateBookRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Genre  *string `json:"genre"`
	ISBN   *string `json:"isbn"`
}

// Update changes book attributes; omitted fields stay as they are.
// @Summary Update book
// @Tags    books
// @Accept  json
// @Produce json
// @Param   id path string true "book ID (UUID)"
// @Param   input body updateBookRequest true "fields to change"
// @Security BearerAuth
// @Success 200 {object} catalog.Book
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /books/{id} [put]
func (h *BooksHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid book id")
	}
	var req updateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	b, err := h.uc.Update(c.Context(), id, catalog.BookFields{
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
		ISBN:   req.ISBN,
	})
	if err != nil {
		return h.mapError(c, err, "failed to update book")
	}
	return presenter.JSON(c, http.StatusOK, b)
}

// Delete removes a book from the catalogue.
// @Summary Delete book
// @Tags    books
// @Produce json
// @Param   id path string true "book ID (UUID)"
// @Security BearerAuth
// @Success 200 {object} presenter.MessageResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /books/{id} [delete]
func (h *BooksHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid book id")
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return h.mapError(c, err, "failed to delete book")
	}
	return presenter.Message(c, http.StatusOK, "book deleted")
}

func (h *BooksHandler) mapError(c *fiber.Ctx, err error, fallback string) error {
	var ve catalog.ErrValidation
	switch {
	case errors.As(err, &ve):
		return presenter.Error(c, http.StatusBadRequest, ve.Error())
	case errors.Is(err, catalog.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "book not found")
	case errors.Is(err, catalog.ErrISBNTaken):
		return presenter.Error(c, http.StatusConflict, "isbn already registered")
	default:
		return presenter.Error(c, http.StatusInternalServerError, fallback)
	}
}
