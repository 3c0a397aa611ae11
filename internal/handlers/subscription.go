package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/services"
)

// PlansResponse lists the plan catalog.
type PlansResponse struct {
	Success bool          `json:"success"`
	Plans   []models.Plan `json:"plans"`
	Total   int           `json:"total"`
}

// StatusResponse wraps the subscription panel data.
type StatusResponse struct {
	Success      bool             `json:"success"`
	Subscription *services.Status `json:"subscription"`
}

// UpgradeRequest selects the target plan.
type UpgradeRequest struct {
	Plan string `json:"plan"`
}

// AuthorizeRequest asks whether the user may perform an action right now.
type AuthorizeRequest struct {
	Action string `json:"action"`
}

// AuthorizeResponse is the access gate's answer.
type AuthorizeResponse struct {
	Success           bool   `json:"success"`
	Allowed           bool   `json:"allowed"`
	Reason            string `json:"reason,omitempty"`
	SessionsRemaining int    `json:"sessions_remaining"`
	DaysRemaining     int    `json:"days_remaining"`
}

// ListPlans returns the plan catalog. Public, no auth.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Subs.ListPlans(r.Context())
	if err != nil {
		log.Printf("ERROR: failed to list plans: %v", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, PlansResponse{
		Success: true,
		Plans:   plans,
		Total:   len(plans),
	})
}

// SubscriptionStatus returns the authenticated user's subscription panel.
func (h *Handler) SubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	status, err := h.Subs.Status(r.Context(), user.ID)
	if err != nil {
		log.Printf("ERROR: failed to load subscription for %s: %v", user.ID, err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Success:      true,
		Subscription: status,
	})
}

// UpgradePlan switches the user to a new plan with a fresh access window.
func (h *Handler) UpgradePlan(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	var req UpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Plan == "" {
		http.Error(w, "Plan is required", http.StatusBadRequest)
		return
	}

	sub, err := h.Subs.Upgrade(r.Context(), user, models.PlanName(req.Plan))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownPlan):
			http.Error(w, "Unknown plan: "+req.Plan, http.StatusBadRequest)
		case errors.Is(err, services.ErrStudentVerificationRequired):
			http.Error(w, "The student plan requires a verified student account", http.StatusForbidden)
		default:
			log.Printf("ERROR: upgrade failed for %s: %v", user.ID, err)
			http.Error(w, "Failed to upgrade plan", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success      bool                 `json:"success"`
		Message      string               `json:"message"`
		Subscription *models.Subscription `json:"subscription"`
	}{
		Success:      true,
		Message:      "Plan upgraded to " + req.Plan,
		Subscription: sub,
	})
}

// Authorize answers whether the user can perform an action right now. A
// denied action is a 200 with allowed=false, not an HTTP error: denial is a
// normal answer here, not a failure.
func (h *Handler) Authorize(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	var req AuthorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Action == "" {
		http.Error(w, "Action is required", http.StatusBadRequest)
		return
	}

	decision, err := h.Subs.CanAccessFeature(r.Context(), user, req.Action)
	if err != nil {
		log.Printf("ERROR: authorize %q for %s: %v", req.Action, user.ID, err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	resp := AuthorizeResponse{
		Success:           true,
		Allowed:           decision.Allowed,
		SessionsRemaining: decision.SessionsRemaining,
		DaysRemaining:     decision.DaysRemaining,
	}
	if decision.Reason != nil {
		resp.Reason = decision.Reason.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
