package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/witslabs/wits-be/internal/services"
)

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondMessage writes a {"msg": ...} body, the shape the SPA expects for
// confirmations and user-facing rejections.
func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"msg": msg})
}

// respondServiceError translates a service-layer error into an HTTP status.
// Unknown errors become a generic 500 so internals never leak to clients.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrIncorrectAnswer):
		respondMessage(w, http.StatusBadRequest, "Incorrect answer")
	case errors.Is(err, services.ErrInvalidResetToken):
		respondMessage(w, http.StatusBadRequest, "Password reset token is invalid or has expired.")
	case errors.Is(err, services.ErrConflict):
		respondMessage(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, services.ErrUnauthorized):
		respondMessage(w, http.StatusBadRequest, "Invalid Credentials")
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "Not found")
	default:
		http.Error(w, "Server Error", http.StatusInternalServerError)
	}
}
