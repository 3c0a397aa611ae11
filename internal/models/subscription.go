package models

import (
	"time"

	"github.com/google/uuid"
)

type PlanName string

const (
	PlanFree    PlanName = "free"
	PlanPro     PlanName = "pro"
	PlanStudent PlanName = "student"
)

// UnlimitedSessions marks a plan without a session cap.
const UnlimitedSessions = -1

// Plan is a row of the subscription plan catalog.
type Plan struct {
	Name         PlanName `json:"name"`
	PriceMonthly float64  `json:"price_monthly"`
	Features     []string `json:"features"`
	MaxSessions  int      `json:"max_sessions"`
	AccessDays   int      `json:"access_days"`
}

// Unlimited reports whether the plan has no session cap.
func (p *Plan) Unlimited() bool {
	return p.MaxSessions == UnlimitedSessions
}

// Subscription is a user's active plan assignment. One per user.
type Subscription struct {
	UserID       uuid.UUID `json:"user_id"`
	Plan         PlanName  `json:"plan"`
	StartedAt    time.Time `json:"started_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	MaxSessions  int       `json:"max_sessions"`
	SessionsUsed int       `json:"sessions_used"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Unlimited reports whether the subscription has no session cap.
func (s *Subscription) Unlimited() bool {
	return s.MaxSessions == UnlimitedSessions
}

// SessionsRemaining returns the sessions left on a capped subscription, or
// UnlimitedSessions for uncapped plans.
func (s *Subscription) SessionsRemaining() int {
	if s.Unlimited() {
		return UnlimitedSessions
	}
	remaining := s.MaxSessions - s.SessionsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// WindowOpen reports whether now falls inside the subscription's access window.
func (s *Subscription) WindowOpen(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// DaysRemaining returns whole days left in the access window, never negative.
func (s *Subscription) DaysRemaining(now time.Time) int {
	days := int(s.ExpiresAt.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
