package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/services"
)

// Handler carries the service dependencies for all HTTP endpoints.
type Handler struct {
	Users    *services.UserService
	Sessions *services.SessionManager
	Subs     *services.SubscriptionService
	Analysis *services.AnalysisService
	Realtime *services.RealtimeService
	Privacy  *services.PrivacyService

	// Uploads is nil when Cloudinary credentials are not configured; the
	// verification upload endpoint then returns 503.
	Uploads *services.CloudinaryService
}

// ActionResponse is the generic success/message envelope.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireAuth resolves the session token to its user. A token whose user no
// longer exists (or was deactivated) is treated as unauthenticated.
func (h *Handler) requireAuth(w http.ResponseWriter, r *http.Request) (*models.User, string, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return nil, "", false
	}

	userID, err := h.Sessions.Validate(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid or expired session token", http.StatusUnauthorized)
		return nil, "", false
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "invalid or expired session token", http.StatusUnauthorized)
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return nil, "", false
	}

	return user, token, true
}

// userMap shapes a user for API responses. Never includes credentials.
func userMap(u *models.User) map[string]interface{} {
	m := map[string]interface{}{
		"id":         u.ID.String(),
		"username":   u.Username,
		"email":      u.Email,
		"full_name":  u.FullName,
		"kind":       u.Kind,
		"created_at": u.CreatedAt,
	}
	if u.LastLogin != nil {
		m["last_login"] = u.LastLogin
	}
	if u.Student != nil {
		m["student"] = map[string]interface{}{
			"college_name": u.Student.CollegeName,
			"verified":     u.Student.Verified,
			"document_url": u.Student.DocumentURL,
		}
	}
	return m
}
