package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	stderrors "errors"

	"library-be/internal/domain"
	"library-be/internal/repository"
	"library-be/pkg/errors"
	"library-be/pkg/logger"
)

// BookHandler serves the book CRUD endpoints
type BookHandler struct {
	books repository.BookRepository
	log   *logger.Logger
}

// NewBookHandler creates a new book handler
func NewBookHandler(books repository.BookRepository, log *logger.Logger) *BookHandler {
	return &BookHandler{books: books, log: log}
}

func validateBook(book *domain.Book) *errors.AppError {
	if book.Title == "" {
		return errors.NewValidationError("Book title is required", nil)
	}
	return nil
}

// CreateBook handles POST /api/books
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var book domain.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()}), h.log)
		return
	}
	if book.ID != 0 {
		writeError(w, errors.NewValidationError("A new book cannot already have an ID", nil), h.log)
		return
	}
	if appErr := validateBook(&book); appErr != nil {
		writeError(w, appErr, h.log)
		return
	}
	h.log.WithField("title", book.Title).Debug("REST request to save book")

	if err := h.books.Create(r.Context(), &book); err != nil {
		writeFailure(w, err, h.log)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/books/%d", book.ID))
	writeJSON(w, http.StatusCreated, book, h.log)
}

// UpdateBook handles PUT /api/books/{id}
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid book id", nil), h.log)
		return
	}

	var book domain.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()}), h.log)
		return
	}
	if book.ID != id {
		writeError(w, errors.NewValidationError("Body id does not match path id", nil), h.log)
		return
	}
	if appErr := validateBook(&book); appErr != nil {
		writeError(w, appErr, h.log)
		return
	}
	h.log.WithField("id", id).Debug("REST request to update book")

	if err := h.books.Update(r.Context(), &book); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			writeError(w, errors.NewNotFoundError("Book not found"), h.log)
			return
		}
		writeFailure(w, err, h.log)
		return
	}

	writeJSON(w, http.StatusOK, book, h.log)
}

// PatchBook handles PATCH /api/books/{id} with merge-patch semantics
func (h *BookHandler) PatchBook(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid book id", nil), h.log)
		return
	}

	var patch domain.BookPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()}), h.log)
		return
	}

	book, err := h.books.FindByID(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if book == nil {
		writeError(w, errors.NewNotFoundError("Book not found"), h.log)
		return
	}

	patch.Apply(book)
	if err := h.books.Update(r.Context(), book); err != nil {
		writeFailure(w, err, h.log)
		return
	}

	writeJSON(w, http.StatusOK, book, h.log)
}

// GetBook handles GET /api/books/{id}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid book id", nil), h.log)
		return
	}

	book, err := h.books.FindByID(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if book == nil {
		writeError(w, errors.NewNotFoundError("Book not found"), h.log)
		return
	}

	writeJSON(w, http.StatusOK, book, h.log)
}

// GetAllBooks handles GET /api/books
func (h *BookHandler) GetAllBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.books.Count(ctx)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}

	books, err := h.books.FindAll(ctx, pageableFromRequest(r))
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if books == nil {
		books = []*domain.Book{}
	}

	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, books, h.log)
}

// DeleteBook handles DELETE /api/books/{id}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid book id", nil), h.log)
		return
	}
	h.log.WithField("id", id).Debug("REST request to delete book")

	if err := h.books.Delete(r.Context(), id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			writeError(w, errors.NewNotFoundError("Book not found"), h.log)
			return
		}
		writeFailure(w, err, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
