package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/witslabs/wits-be/internal/auth"
	"github.com/witslabs/wits-be/internal/services"
)

// AuthHandler handles registration, login and password recovery.
type AuthHandler struct {
	service   services.UserServiceProvider
	jwtSecret []byte
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{service: service, jwtSecret: jwtSecret}
}

// CredentialsPayload defines the structure for register and login requests.
type CredentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration and returns a bearer token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Register(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Msg("Failed registration attempt")
		respondServiceError(w, err)
		return
	}

	token, err := auth.GenerateJWT(user, h.jwtSecret)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Login handles user authentication and JWT generation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Msg("Failed authentication attempt")
		respondServiceError(w, err)
		return
	}

	token, err := auth.GenerateJWT(user, h.jwtSecret)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	user, err := h.service.GetUserByID(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("User from token not found in DB")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// ForgotPassword triggers the reset-email flow. The response is identical
// whether or not the email belongs to an account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.RequestPasswordReset(payload.Email); err != nil {
		log.Error().Err(err).Msg("Failed to process password reset request")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	respondMessage(w, http.StatusOK, "Reset email process initiated.")
}

// ResetPassword consumes a reset token and sets a new password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ResetPassword(payload.Token, payload.Password); err != nil {
		log.Warn().Err(err).Msg("Failed password reset attempt")
		respondServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Password has been reset successfully.")
}
