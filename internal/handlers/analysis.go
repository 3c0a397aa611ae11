package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/services"
	"github.com/go-chi/chi/v5"
)

// CompleteAnalysisRequest carries the collected frame samples for a finished
// session.
type CompleteAnalysisRequest struct {
	Samples         []models.MetricSample `json:"samples"`
	DurationSeconds float64               `json:"duration_seconds"`
}

// StartAnalysis opens a new analysis session, subject to the subscription
// gate.
func (h *Handler) StartAnalysis(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	result, err := h.Analysis.Start(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuotaExceeded):
			http.Error(w, "Session limit reached for your plan", http.StatusForbidden)
		case errors.Is(err, services.ErrSubscriptionExpired):
			http.Error(w, "Your subscription has expired", http.StatusForbidden)
		case errors.Is(err, services.ErrStudentVerificationRequired):
			http.Error(w, "Student verification required", http.StatusForbidden)
		default:
			log.Printf("ERROR: failed to start analysis for %s: %v", user.ID, err)
			http.Error(w, "Failed to start analysis session", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Success bool                  `json:"success"`
		Message string                `json:"message"`
		Session *services.StartResult `json:"session"`
	}{
		Success: true,
		Message: "Analysis session started",
		Session: result,
	})
}

// CompleteAnalysis closes a live session and returns the stored report.
func (h *Handler) CompleteAnalysis(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	var req CompleteAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	duration := time.Duration(req.DurationSeconds * float64(time.Second))
	report, err := h.Analysis.Complete(r.Context(), user, sessionID, req.Samples, duration)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "No such live session", http.StatusNotFound)
		} else {
			log.Printf("ERROR: failed to complete analysis %s for %s: %v", sessionID, user.ID, err)
			http.Error(w, "Failed to complete analysis session", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Report  *models.AnalysisReport `json:"report"`
	}{
		Success: true,
		Message: "Analysis session completed",
		Report:  report,
	})
}

// AnalysisHistory lists the user's most recent reports, newest first.
func (h *Handler) AnalysisHistory(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	reports, err := h.Analysis.History(r.Context(), user.ID, limit)
	if err != nil {
		log.Printf("ERROR: failed to load history for %s: %v", user.ID, err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool                    `json:"success"`
		Reports []models.AnalysisReport `json:"reports"`
		Total   int                     `json:"total"`
	}{
		Success: true,
		Reports: reports,
		Total:   len(reports),
	})
}
