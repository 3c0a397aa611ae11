package routes

import (
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r *chi.Mux, h *handlers.Handler) {
	// Auth routes
	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/login", h.Login)
	r.Post("/api/auth/logout", h.Logout)
	r.Get("/api/auth/me", h.Me)

	// Plan catalog (public) and subscription routes
	r.Get("/api/plans", h.ListPlans)
	r.Get("/api/subscription", h.SubscriptionStatus)
	r.Post("/api/subscription/upgrade", h.UpgradePlan)

	// Access gate
	r.Post("/api/authorize", h.Authorize)

	// Analysis session routes
	r.Post("/api/analysis/sessions", h.StartAnalysis)
	r.Post("/api/analysis/sessions/{sessionID}/complete", h.CompleteAnalysis)
	r.Get("/api/analysis/history", h.AnalysisHistory)

	// Live coaching feed
	r.Get("/ws/analysis", h.AnalysisWebSocket)

	// Privacy routes
	r.Delete("/api/privacy/data", h.ClearData)
	r.Get("/api/privacy/usage", h.DataUsage)
	r.Get("/api/privacy/report", h.PrivacyReport)

	// Student verification
	r.Post("/api/verification/document", h.UploadVerificationDocument)
}
