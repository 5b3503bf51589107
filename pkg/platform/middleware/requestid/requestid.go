// Package requestid assigns every request an id for log correlation.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"biblio/pkg/requestcontext"
)

const headerName = "X-Request-ID"

// Middleware reuses the caller's X-Request-ID when present, otherwise
// generates one. The id is stored in the context and echoed in the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerName)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(headerName, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
