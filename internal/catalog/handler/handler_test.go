package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biblio/internal/catalog/handler"
	"biblio/internal/catalog/models"
	"biblio/internal/catalog/service"
	"biblio/internal/catalog/store"
	"biblio/pkg/testutil"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store.NewInMemory(), service.WithLogger(logger))

	r := chi.NewRouter()
	handler.New(svc, logger).Register(r)
	return r
}

func addBook(t *testing.T, router chi.Router, title, author, isbn string) *models.Book {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/books", handler.AddBookRequest{
		Title:       title,
		Author:      author,
		ISBN:        isbn,
		TotalCopies: 2,
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	return testutil.UnmarshalResponse[models.Book](t, rr)
}

func TestAddBook(t *testing.T) {
	testutil.Given(t, "an empty catalog", func(t *testing.T) {
		router := newRouter(t)

		testutil.When(t, "adding a book", func(t *testing.T) {
			book := addBook(t, router, "Learning Go", "Bodner", "978-1492077213")
			assert.Equal(t, "B1", book.ID.String())
			assert.Equal(t, 2, book.AvailableCopies)
		})

		testutil.When(t, "adding the same isbn again", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/books", handler.AddBookRequest{
				Title:       "Another Title",
				Author:      "Someone",
				ISBN:        "978-1492077213",
				TotalCopies: 1,
			})
			rr := testutil.DoRequest(router, req)
			testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
		})

		testutil.When(t, "adding a book without a title", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/books", handler.AddBookRequest{
				Author:      "Someone",
				ISBN:        "978-0000000001",
				TotalCopies: 1,
			})
			rr := testutil.DoRequest(router, req)
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation")
		})
	})
}

func TestGetBook(t *testing.T) {
	router := newRouter(t)
	added := addBook(t, router, "Learning Go", "Bodner", "978-1492077213")

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/books/"+added.ID.String()))
	testutil.AssertStatusOK(t, rr)
	got := testutil.UnmarshalResponse[models.Book](t, rr)
	assert.Equal(t, added.ISBN, got.ISBN)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/books/B404"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestSearch(t *testing.T) {
	router := newRouter(t)
	addBook(t, router, "Learning Go", "Jon Bodner", "978-1492077213")
	addBook(t, router, "The Go Programming Language", "Alan Donovan", "978-0134190440")

	t.Run("by title", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/books/search?title=go"))
		testutil.AssertStatusOK(t, rr)
		matches := testutil.UnmarshalResponse[[]*models.Book](t, rr)
		assert.Len(t, *matches, 2)
	})

	t.Run("by author", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/books/search?author=bodner"))
		testutil.AssertStatusOK(t, rr)
		matches := testutil.UnmarshalResponse[[]*models.Book](t, rr)
		require.Len(t, *matches, 1)
		assert.Equal(t, "Learning Go", (*matches)[0].Title)
	})

	t.Run("by isbn", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/books/search?isbn=978-0134190440"))
		testutil.AssertStatusOK(t, rr)
		matches := testutil.UnmarshalResponse[[]*models.Book](t, rr)
		require.Len(t, *matches, 1)
		assert.Equal(t, "The Go Programming Language", (*matches)[0].Title)
	})

	t.Run("unknown isbn", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/books/search?isbn=978-0000000000"))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("no criteria", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/books/search"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation")
	})
}
