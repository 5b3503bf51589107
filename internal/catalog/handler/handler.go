// Package handler wires the catalog endpoints to the catalog service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"biblio/internal/catalog/models"
	id "biblio/pkg/domain"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/platform/httputil"
	"biblio/pkg/requestcontext"
)

// Service defines the catalog operations the handler exposes.
type Service interface {
	AddBook(ctx context.Context, title, author, isbn string, totalCopies int) (*models.Book, error)
	GetBook(ctx context.Context, bookID id.BookID) (*models.Book, error)
	SearchByTitle(ctx context.Context, fragment string) ([]*models.Book, error)
	SearchByAuthor(ctx context.Context, fragment string) ([]*models.Book, error)
	SearchByISBN(ctx context.Context, isbn string) (*models.Book, error)
}

// Handler wires catalog endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a catalog handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/books", h.HandleAddBook)
	r.Get("/books/search", h.HandleSearch)
	r.Get("/books/{bookID}", h.HandleGetBook)
}

// AddBookRequest is the payload for POST /books.
type AddBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	TotalCopies int    `json:"total_copies"`
}

// HandleAddBook handles POST /books requests.
func (h *Handler) HandleAddBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AddBookRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	book, err := h.service.AddBook(ctx, req.Title, req.Author, req.ISBN, req.TotalCopies)
	if err != nil {
		h.logger.WarnContext(ctx, "add book rejected",
			"request_id", requestID,
			"isbn", req.ISBN,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, book)
}

// HandleGetBook handles GET /books/{bookID} requests.
func (h *Handler) HandleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.GetBook(r.Context(), id.BookID(chi.URLParam(r, "bookID")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, book)
}

// HandleSearch handles GET /books/search requests. Exactly one of the
// title, author, or isbn query parameters selects the search mode.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	switch {
	case q.Get("isbn") != "":
		book, err := h.service.SearchByISBN(ctx, q.Get("isbn"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, []*models.Book{book})
	case q.Get("title") != "":
		h.writeMatches(w, ctx, q.Get("title"), h.service.SearchByTitle)
	case q.Get("author") != "":
		h.writeMatches(w, ctx, q.Get("author"), h.service.SearchByAuthor)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "one of title, author, or isbn is required"))
	}
}

func (h *Handler) writeMatches(w http.ResponseWriter, ctx context.Context, fragment string, search func(context.Context, string) ([]*models.Book, error)) {
	books, err := search(ctx, fragment)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if books == nil {
		books = []*models.Book{}
	}
	httputil.WriteJSON(w, http.StatusOK, books)
}
