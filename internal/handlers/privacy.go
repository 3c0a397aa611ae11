package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/services"
)

// ClearData deletes all of the user's analysis data and revokes every
// session token, including the one used to make this request.
func (h *Handler) ClearData(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	deleted, err := h.Privacy.ClearUserData(r.Context(), user.ID)
	if err != nil {
		log.Printf("ERROR: failed to clear data for %s: %v", user.ID, err)
		http.Error(w, "Failed to clear user data", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: fmt.Sprintf("Deleted %d analysis reports and revoked all sessions", deleted),
	})
}

// DataUsage reports how much analysis data the user has stored.
func (h *Handler) DataUsage(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	usage, err := h.Privacy.Usage(r.Context(), user.ID)
	if err != nil {
		log.Printf("ERROR: failed to load data usage for %s: %v", user.ID, err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool                `json:"success"`
		Usage   *services.DataUsage `json:"usage"`
	}{
		Success: true,
		Usage:   usage,
	})
}

// PrivacyReport returns the compliance summary for the user.
func (h *Handler) PrivacyReport(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	report, err := h.Privacy.Report(r.Context(), user.ID)
	if err != nil {
		log.Printf("ERROR: failed to build privacy report for %s: %v", user.ID, err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool                    `json:"success"`
		Report  *services.PrivacyReport `json:"report"`
	}{
		Success: true,
		Report:  report,
	})
}
