package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/witslabs/wits-be/internal/auth"
	"github.com/witslabs/wits-be/internal/services"
)

// UserHandler handles HTTP requests for user progress.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// DeductXP spends the caller's XP on a hint or solution reveal. There is no
// server-side idempotency here; the client is trusted not to charge twice
// for the same reveal.
func (h *UserHandler) DeductXP(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	var payload struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.DeductXP(claims.UserID, payload.Amount)
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Failed to deduct XP")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
