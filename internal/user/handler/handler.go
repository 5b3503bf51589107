// Package handler wires the user endpoints to the user service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"biblio/internal/user/models"
	id "biblio/pkg/domain"
	"biblio/pkg/platform/httputil"
	"biblio/pkg/requestcontext"
)

// Service defines the user operations the handler exposes.
type Service interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Unregister(ctx context.Context, userID id.UserID) (bool, error)
	GetUser(ctx context.Context, userID id.UserID) (*models.User, error)
	AuthenticateAdmin(ctx context.Context, email, password string) (*models.User, error)
}

// Handler wires user endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a user handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts user endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/users", h.HandleRegister)
	r.Get("/users/{userID}", h.HandleGetUser)
	r.Delete("/users/{userID}", h.HandleUnregister)
	r.Post("/admin/login", h.HandleAdminLogin)
}

// RegisterRequest is the payload for POST /users.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister handles POST /users requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.service.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "registration rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// HandleGetUser handles GET /users/{userID} requests.
func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), id.UserID(chi.URLParam(r, "userID")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// UnregisterResponse reports whether the account was removed. Removal is
// refused while the user still has books out.
type UnregisterResponse struct {
	Removed bool `json:"removed"`
}

// HandleUnregister handles DELETE /users/{userID} requests.
func (h *Handler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := id.UserID(chi.URLParam(r, "userID"))

	removed, err := h.service.Unregister(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !removed {
		httputil.WriteJSON(w, http.StatusConflict, UnregisterResponse{Removed: false})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, UnregisterResponse{Removed: true})
}

// AdminLoginRequest is the payload for POST /admin/login.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleAdminLogin handles POST /admin/login requests.
func (h *Handler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AdminLoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.service.AuthenticateAdmin(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "admin login failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}
