package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/services"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/pkg/utils"
)

// RegisterRequest is the signup payload. College name and student ID are
// required when account_kind is "student".
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	AccountKind string `json:"account_kind,omitempty"`
	CollegeName string `json:"college_name,omitempty"`
	StudentID   string `json:"student_id,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse wraps auth endpoints' output.
type AuthResponse struct {
	Success      bool                   `json:"success"`
	Message      string                 `json:"message"`
	User         map[string]interface{} `json:"user,omitempty"`
	Token        string                 `json:"token,omitempty"`
	Subscription interface{}            `json:"subscription,omitempty"`
}

// Register handles account creation. New accounts get their initial
// subscription (free, or student for verified student signups) and a session
// token so the client can skip a separate login.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	kind := models.AccountStandard
	if req.AccountKind == string(models.AccountStudent) {
		kind = models.AccountStudent
	}

	user, err := h.Users.Register(r.Context(), services.RegisterParams{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Kind:        kind,
		CollegeName: req.CollegeName,
		StudentID:   req.StudentID,
	})
	if err != nil {
		var verr *utils.ValidationError
		switch {
		case errors.As(err, &verr):
			http.Error(w, verr.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrDuplicateUser):
			http.Error(w, "Username or email already registered", http.StatusConflict)
		default:
			log.Printf("ERROR: registration failed: %v", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
		}
		return
	}

	sub, err := h.Subs.CreateInitial(r.Context(), user)
	if err != nil {
		log.Printf("ERROR: failed to create initial subscription for %s: %v", user.ID, err)
		http.Error(w, "Failed to create subscription", http.StatusInternalServerError)
		return
	}

	token, err := h.Sessions.Issue(r.Context(), user.ID)
	if err != nil {
		log.Printf("ERROR: failed to issue session for %s: %v", user.ID, err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success:      true,
		Message:      "User created successfully",
		User:         userMap(user),
		Token:        token,
		Subscription: sub,
	})
}

// Login verifies credentials and issues a fresh session token, revoking any
// previous session for the user.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		} else {
			log.Printf("ERROR: login failed: %v", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	token, err := h.Sessions.Issue(r.Context(), user.ID)
	if err != nil {
		log.Printf("ERROR: failed to issue session for %s: %v", user.ID, err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    userMap(user),
		Token:   token,
	})
}

// Logout revokes the presented session token. Revoking an already-dead token
// still succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return
	}

	if err := h.Sessions.Revoke(r.Context(), token); err != nil {
		log.Printf("ERROR: failed to revoke session: %v", err)
		http.Error(w, "Failed to revoke session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: "Logged out",
	})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "OK",
		User:    userMap(user),
	})
}
