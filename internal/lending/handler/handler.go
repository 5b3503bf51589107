// Package handler wires the lending endpoints to the lending engine.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	catalogmodels "biblio/internal/catalog/models"
	"biblio/internal/lending/models"
	id "biblio/pkg/domain"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/platform/httputil"
	"biblio/pkg/requestcontext"
)

// Service defines the lending operations the handler exposes.
type Service interface {
	Borrow(ctx context.Context, userID id.UserID, bookID id.BookID) (*models.Loan, error)
	Return(ctx context.Context, loanID id.LoanID) (*models.Loan, error)
	History(ctx context.Context, userID id.UserID) ([]*models.Loan, error)
	ListOverdueLoans(ctx context.Context) ([]*models.Loan, error)
	PayFine(ctx context.Context, userID id.UserID, amount int) (int, error)
	OutstandingFine(ctx context.Context, userID id.UserID) (int, error)
	GenerateFinesForOverdue(ctx context.Context) (int, error)
}

// Catalog resolves book details for loan listings.
type Catalog interface {
	BooksByIDs(ctx context.Context, ids []id.BookID) (map[id.BookID]*catalogmodels.Book, error)
}

// Handler wires lending endpoints to the engine.
type Handler struct {
	service Service
	catalog Catalog
	logger  *slog.Logger
}

// New constructs a lending handler.
func New(service Service, catalog Catalog, logger *slog.Logger) *Handler {
	return &Handler{service: service, catalog: catalog, logger: logger}
}

// Register mounts lending endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/loans", h.HandleBorrow)
	r.Post("/loans/{loanID}/return", h.HandleReturn)
	r.Get("/loans/overdue", h.HandleListOverdue)
	r.Get("/users/{userID}/loans", h.HandleHistory)
	r.Post("/fines/generate", h.HandleGenerateFines)
	r.Post("/users/{userID}/fines/payments", h.HandlePayFine)
	r.Get("/users/{userID}/fines/outstanding", h.HandleOutstanding)
}

// BorrowRequest is the payload for POST /loans.
type BorrowRequest struct {
	UserID string `json:"user_id"`
	BookID string `json:"book_id"`
}

// HandleBorrow handles POST /loans requests.
func (h *Handler) HandleBorrow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BorrowRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	loan, err := h.service.Borrow(ctx, id.UserID(req.UserID), id.BookID(req.BookID))
	if err != nil {
		h.logger.WarnContext(ctx, "borrow rejected",
			"request_id", requestID,
			"user_id", req.UserID,
			"book_id", req.BookID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, loan)
}

// HandleReturn handles POST /loans/{loanID}/return requests.
func (h *Handler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loanID := id.LoanID(chi.URLParam(r, "loanID"))

	loan, err := h.service.Return(ctx, loanID)
	if err != nil {
		h.logger.WarnContext(ctx, "return rejected",
			"request_id", requestcontext.RequestID(ctx),
			"loan_id", loanID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, loan)
}

// LoanView is a loan enriched with its book's title for display.
type LoanView struct {
	models.Loan
	BookTitle string `json:"book_title,omitempty"`
}

// HandleHistory handles GET /users/{userID}/loans requests.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := id.UserID(chi.URLParam(r, "userID"))

	loans, err := h.service.History(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.loanViews(ctx, loans))
}

// HandleListOverdue handles GET /loans/overdue requests.
func (h *Handler) HandleListOverdue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loans, err := h.service.ListOverdueLoans(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.loanViews(ctx, loans))
}

// loanViews attaches book titles to loans with one batched catalog lookup.
// A failed lookup degrades to untitled loans; listings do not depend on the
// catalog being reachable.
func (h *Handler) loanViews(ctx context.Context, loans []*models.Loan) []LoanView {
	views := make([]LoanView, 0, len(loans))
	if len(loans) == 0 {
		return views
	}

	ids := make([]id.BookID, 0, len(loans))
	for _, l := range loans {
		ids = append(ids, l.BookID)
	}
	books, err := h.catalog.BooksByIDs(ctx, ids)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to resolve book titles for loans",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		books = nil
	}

	for _, l := range loans {
		view := LoanView{Loan: *l}
		if b, ok := books[l.BookID]; ok {
			view.BookTitle = b.Title
		}
		views = append(views, view)
	}
	return views
}

// GenerateFinesResponse reports how many fines a sweep created.
type GenerateFinesResponse struct {
	Created int `json:"created"`
}

// HandleGenerateFines handles POST /fines/generate requests.
func (h *Handler) HandleGenerateFines(w http.ResponseWriter, r *http.Request) {
	created, err := h.service.GenerateFinesForOverdue(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, GenerateFinesResponse{Created: created})
}

// PayFineRequest is the payload for POST /users/{userID}/fines/payments.
type PayFineRequest struct {
	Amount int `json:"amount"`
}

// PayFineResponse reports how much of the payment was applied.
type PayFineResponse struct {
	Applied int `json:"applied"`
}

// HandlePayFine handles POST /users/{userID}/fines/payments requests.
func (h *Handler) HandlePayFine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := id.UserID(chi.URLParam(r, "userID"))

	req, ok := httputil.DecodeAndPrepare[PayFineRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	applied, err := h.service.PayFine(ctx, userID, req.Amount)
	if err != nil {
		h.logger.WarnContext(ctx, "fine payment rejected",
			"request_id", requestID,
			"user_id", userID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, PayFineResponse{Applied: applied})
}

// OutstandingResponse reports a user's unpaid fine balance.
type OutstandingResponse struct {
	Outstanding int `json:"outstanding"`
}

// HandleOutstanding handles GET /users/{userID}/fines/outstanding requests.
func (h *Handler) HandleOutstanding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := id.UserID(chi.URLParam(r, "userID"))
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "user id is required"))
		return
	}

	outstanding, err := h.service.OutstandingFine(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, OutstandingResponse{Outstanding: outstanding})
}
