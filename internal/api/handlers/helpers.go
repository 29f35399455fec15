package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mlutsenko/brewbook-be/internal/auth"
	"github.com/mlutsenko/brewbook-be/internal/authz"
	"github.com/mlutsenko/brewbook-be/internal/services"
	"github.com/rs/zerolog/log"
)

// identityFromRequest converts the request's session claims, if any, into the
// acting identity. Anonymous requests yield the zero Identity.
func identityFromRequest(r *http.Request) authz.Identity {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return authz.Identity{}
	}
	return authz.Identity{ID: claims.UserID, Email: claims.Email}
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeServiceError maps the service error taxonomy onto HTTP statuses. Every
// taxonomy member is recoverable and user-facing; anything else is a store
// failure and surfaces as a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrDuplicateTitle), errors.Is(err, services.ErrDuplicateIdentity):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrUnknownSort):
		status = http.StatusNotFound
	default:
		log.Error().Err(err).Msg("Unhandled service error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
