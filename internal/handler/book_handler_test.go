package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-be/internal/domain"
	"library-be/internal/repository"
)

// fakeBookRepository keeps books in memory with a serial id
type fakeBookRepository struct {
	books  map[int64]*domain.Book
	nextID int64
}

func newFakeBookRepository() *fakeBookRepository {
	return &fakeBookRepository{books: make(map[int64]*domain.Book), nextID: 1}
}

func (f *fakeBookRepository) Create(_ context.Context, book *domain.Book) error {
	book.ID = f.nextID
	f.nextID++
	clone := *book
	f.books[book.ID] = &clone
	return nil
}

func (f *fakeBookRepository) Update(_ context.Context, book *domain.Book) error {
	if _, ok := f.books[book.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *book
	f.books[book.ID] = &clone
	return nil
}

func (f *fakeBookRepository) FindByID(_ context.Context, id int64) (*domain.Book, error) {
	if b, ok := f.books[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeBookRepository) FindAll(_ context.Context, _ repository.Pageable) ([]*domain.Book, error) {
	result := make([]*domain.Book, 0, len(f.books))
	for _, b := range f.books {
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookRepository) Count(_ context.Context) (int64, error) {
	return int64(len(f.books)), nil
}

func (f *fakeBookRepository) Delete(_ context.Context, id int64) error {
	if _, ok := f.books[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.books, id)
	return nil
}

func newBookRouter(t *testing.T) (*chi.Mux, *fakeBookRepository) {
	t.Helper()
	repo := newFakeBookRepository()
	h := NewBookHandler(repo, testLogger(t))

	router := chi.NewRouter()
	router.Route("/api/books", func(r chi.Router) {
		r.Post("/", h.CreateBook)
		r.Get("/", h.GetAllBooks)
		r.Get("/{id}", h.GetBook)
		r.Put("/{id}", h.UpdateBook)
		r.Patch("/{id}", h.PatchBook)
		r.Delete("/{id}", h.DeleteBook)
	})
	return router, repo
}

func TestCreateBook(t *testing.T) {
	router, repo := newBookRouter(t)

	body := `{"title":"The Go Programming Language","author":"Donovan","categoryIds":[1,2]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/books/1", rec.Header().Get("Location"))

	var created domain.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "The Go Programming Language", created.Title)
	assert.Equal(t, []int64{1, 2}, created.CategoryIDs)
	assert.Len(t, repo.books, 1)
}

func TestCreateBook_RejectsPresetID(t *testing.T) {
	router, repo := newBookRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(`{"id":7,"title":"x"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.books)
}

func TestCreateBook_RejectsMalformedBody(t *testing.T) {
	router, _ := newBookRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(`{"title":`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBook_RejectsMissingTitle(t *testing.T) {
	router, repo := newBookRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(`{"author":"anon"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.books)
}

func TestUpdateBook(t *testing.T) {
	router, repo := newBookRouter(t)
	repo.books[1] = &domain.Book{ID: 1, Title: "Old Title"}
	repo.nextID = 2

	t.Run("ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/books/1", strings.NewReader(`{"id":1,"title":"New Title"}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "New Title", repo.books[1].Title)
	})

	t.Run("missing title", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/books/1", strings.NewReader(`{"id":1,"author":"anon"}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("id mismatch", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/books/1", strings.NewReader(`{"id":2,"title":"x"}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing book", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/books/99", strings.NewReader(`{"id":99,"title":"x"}`)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/books/not-a-number", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPatchBook_MergesOnlyProvidedFields(t *testing.T) {
	router, repo := newBookRouter(t)
	rating := 4
	repo.books[1] = &domain.Book{ID: 1, Title: "Original", Author: "Someone", Rating: &rating}
	repo.nextID = 2

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/books/1", strings.NewReader(`{"title":"Patched"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Patched", repo.books[1].Title)
	assert.Equal(t, "Someone", repo.books[1].Author)
	require.NotNil(t, repo.books[1].Rating)
	assert.Equal(t, 4, *repo.books[1].Rating)
}

func TestPatchBook_UnknownID(t *testing.T) {
	router, _ := newBookRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/books/5", strings.NewReader(`{"title":"x"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBook(t *testing.T) {
	router, repo := newBookRouter(t)
	repo.books[1] = &domain.Book{ID: 1, Title: "Found"}

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books/1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books/2", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetAllBooks(t *testing.T) {
	router, repo := newBookRouter(t)
	repo.books[1] = &domain.Book{ID: 1, Title: "One"}
	repo.books[2] = &domain.Book{ID: 2, Title: "Two"}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books?page=0&size=10", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-Total-Count"))

	var books []*domain.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	assert.Len(t, books, 2)
}

func TestDeleteBook(t *testing.T) {
	router, repo := newBookRouter(t)
	repo.books[1] = &domain.Book{ID: 1, Title: "Doomed"}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/books/1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.books)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/books/1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
