package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/witslabs/wits-be/internal/auth"
	"github.com/witslabs/wits-be/internal/models"
	"github.com/witslabs/wits-be/internal/services"
)

// PuzzleHandler handles HTTP requests for the puzzle catalog.
type PuzzleHandler struct {
	service services.PuzzleServiceProvider
}

// NewPuzzleHandler creates a new PuzzleHandler.
func NewPuzzleHandler(service services.PuzzleServiceProvider) *PuzzleHandler {
	return &PuzzleHandler{service: service}
}

// GetAll handles listing the whole catalog.
func (h *PuzzleHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	puzzles, err := h.service.GetAllPuzzles()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch puzzles")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, puzzles)
}

// GetFeatured returns the current daily challenge.
func (h *PuzzleHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	puzzle, err := h.service.GetFeaturedPuzzle()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, puzzle)
}

// Create handles adding a new puzzle (admin only).
func (h *PuzzleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload models.Puzzle
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	puzzle, err := h.service.CreatePuzzle(payload)
	if err != nil {
		log.Error().Err(err).Str("title", payload.Title).Msg("Failed to add puzzle")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, puzzle)
}

// Solve handles an answer submission for a puzzle.
func (h *PuzzleHandler) Solve(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	var payload struct {
		UserAnswer string `json:"userAnswer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Solve(claims.UserID, chi.URLParam(r, "id"), payload.UserAnswer)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Msg string `json:"msg"`
		services.SolveResult
	}{Msg: "Correct!", SolveResult: result})
}

// Delete handles removing a puzzle (admin only).
func (h *PuzzleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeletePuzzle(id); err != nil {
		log.Warn().Err(err).Str("puzzle_id", id).Msg("Failed to delete puzzle")
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Puzzle removed")
}

// RotateFeatured lets an admin force a daily-challenge rotation.
func (h *PuzzleHandler) RotateFeatured(w http.ResponseWriter, r *http.Request) {
	puzzle, err := h.service.RotateFeatured()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to rotate featured puzzle")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, puzzle)
}
