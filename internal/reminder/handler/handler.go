// Package handler exposes the overdue reminder sweep over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "biblio/pkg/domain"
	"biblio/pkg/platform/httputil"
	"biblio/pkg/requestcontext"
)

// Service defines the reminder operations the handler exposes.
type Service interface {
	SendOverdueReminders(ctx context.Context) (map[id.UserID]int, error)
}

// Handler wires the reminder endpoint to the dispatcher.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a reminder handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the reminder endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reminders/overdue", h.HandleSendReminders)
}

// HandleSendReminders handles POST /reminders/overdue requests. The response
// maps each user with overdue loans to their overdue count.
func (h *Handler) HandleSendReminders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.service.SendOverdueReminders(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "reminder sweep finished",
		"request_id", requestcontext.RequestID(ctx),
		"users", len(counts),
	)

	out := make(map[string]int, len(counts))
	for userID, n := range counts {
		out[userID.String()] = n
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
