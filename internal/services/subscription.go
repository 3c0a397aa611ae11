package services

import (
	"context"
	"errors"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/common"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/config"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/subscriptions"
	"github.com/google/uuid"
)

// Feature actions the access gate understands. start_analysis is quota
// gated; the advanced features require a paid plan.
const (
	ActionStartAnalysis     = "start_analysis"
	ActionAdvancedAnalysis  = "advanced_analysis"
	ActionDetailedReports   = "detailed_reports"
	ActionUnlimitedSessions = "unlimited_sessions"
)

// Decision is an access gate answer. Reason is nil when Allowed.
type Decision struct {
	Allowed           bool
	Reason            error
	SessionsRemaining int
	DaysRemaining     int
}

// Status mirrors the subscription panel in the dashboard.
type Status struct {
	Plan              models.PlanName `json:"plan"`
	Valid             bool            `json:"valid"`
	StartedAt         time.Time       `json:"started_at"`
	ExpiresAt         time.Time       `json:"expires_at"`
	DaysRemaining     int             `json:"days_remaining"`
	SessionsUsed      int             `json:"sessions_used"`
	SessionsRemaining int             `json:"sessions_remaining"`
	Unlimited         bool            `json:"unlimited"`
}

// SubscriptionService is the ledger plus the access gate. All quota
// arithmetic goes through the repository's conditional update, so two
// concurrent completions can never push a capped counter past its quota.
type SubscriptionService struct {
	repo             subscriptions.Repository
	freeWindowPolicy string
	now              func() time.Time
}

func NewSubscriptionService(repo subscriptions.Repository, freeWindowPolicy string) *SubscriptionService {
	return &SubscriptionService{
		repo:             repo,
		freeWindowPolicy: freeWindowPolicy,
		now:              time.Now,
	}
}

// CreateInitial assigns the registration-time subscription: the student plan
// for verified student accounts, free otherwise.
func (s *SubscriptionService) CreateInitial(ctx context.Context, user *models.User) (*models.Subscription, error) {
	planName := models.PlanFree
	if user.IsVerifiedStudent() {
		planName = models.PlanStudent
	}

	plan, err := s.repo.GetPlan(ctx, planName)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sub := &models.Subscription{
		UserID:      user.ID,
		Plan:        plan.Name,
		StartedAt:   now,
		ExpiresAt:   now.AddDate(0, 0, plan.AccessDays),
		MaxSessions: plan.MaxSessions,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// CanStartSession answers whether the user may run one more analysis session
// right now. Store failures fail closed (deny).
func (s *SubscriptionService) CanStartSession(ctx context.Context, user *models.User) (Decision, error) {
	sub, err := s.repo.Get(ctx, user.ID)
	if err != nil {
		return Decision{Reason: ErrNotAuthenticated}, err
	}

	now := s.now().UTC()

	switch sub.Plan {
	case models.PlanPro:
		// Pro access never lapses with the window; the counter is tracked
		// for reporting only.
		return s.allow(sub, now), nil

	case models.PlanStudent:
		if !user.IsVerifiedStudent() {
			return Decision{Reason: ErrStudentVerificationRequired}, nil
		}
		if !sub.WindowOpen(now) {
			return Decision{Reason: ErrSubscriptionExpired}, nil
		}
		return s.allow(sub, now), nil

	default: // free
		if !sub.WindowOpen(now) {
			if s.freeWindowPolicy == config.FreeWindowReset {
				started := now
				expires := now.AddDate(0, 0, 30)
				if err := s.repo.ResetWindow(ctx, user.ID, started, expires); err != nil {
					return Decision{Reason: ErrSubscriptionExpired}, err
				}
				sub.StartedAt = started
				sub.ExpiresAt = expires
				sub.SessionsUsed = 0
				return s.allow(sub, now), nil
			}
			return Decision{Reason: ErrSubscriptionExpired}, nil
		}
		if sub.SessionsRemaining() == 0 {
			return Decision{Reason: ErrQuotaExceeded, DaysRemaining: sub.DaysRemaining(now)}, nil
		}
		return s.allow(sub, now), nil
	}
}

func (s *SubscriptionService) allow(sub *models.Subscription, now time.Time) Decision {
	return Decision{
		Allowed:           true,
		SessionsRemaining: sub.SessionsRemaining(),
		DaysRemaining:     sub.DaysRemaining(now),
	}
}

// CanAccessFeature gates the non-quota actions. Free-tier accounts lack the
// advanced features; paid plans (pro, verified student) have them all.
func (s *SubscriptionService) CanAccessFeature(ctx context.Context, user *models.User, action string) (Decision, error) {
	if action == ActionStartAnalysis {
		return s.CanStartSession(ctx, user)
	}

	sub, err := s.repo.Get(ctx, user.ID)
	if err != nil {
		return Decision{Reason: ErrNotAuthenticated}, err
	}

	now := s.now().UTC()

	switch action {
	case ActionAdvancedAnalysis, ActionDetailedReports, ActionUnlimitedSessions:
		switch sub.Plan {
		case models.PlanPro:
			return s.allow(sub, now), nil
		case models.PlanStudent:
			if !user.IsVerifiedStudent() {
				return Decision{Reason: ErrStudentVerificationRequired}, nil
			}
			if !sub.WindowOpen(now) {
				return Decision{Reason: ErrSubscriptionExpired}, nil
			}
			return s.allow(sub, now), nil
		default:
			return Decision{Reason: ErrQuotaExceeded, DaysRemaining: sub.DaysRemaining(now)}, nil
		}
	default:
		return Decision{Reason: ErrNotFound}, nil
	}
}

// RecordSessionCompleted increments the consumed counter. For capped plans
// the increment is refused once the cap is reached; unlimited plans always
// count (for reporting).
func (s *SubscriptionService) RecordSessionCompleted(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.ConsumeSession(ctx, userID)
}

// Status reports the subscription panel data.
func (s *SubscriptionService) Status(ctx context.Context, userID uuid.UUID) (*Status, error) {
	sub, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	valid := sub.WindowOpen(now) || sub.Plan == models.PlanPro

	return &Status{
		Plan:              sub.Plan,
		Valid:             valid,
		StartedAt:         sub.StartedAt,
		ExpiresAt:         sub.ExpiresAt,
		DaysRemaining:     sub.DaysRemaining(now),
		SessionsUsed:      sub.SessionsUsed,
		SessionsRemaining: sub.SessionsRemaining(),
		Unlimited:         sub.Unlimited(),
	}, nil
}

// ListPlans returns the plan catalog.
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]models.Plan, error) {
	return s.repo.ListPlans(ctx)
}

// Upgrade replaces the user's plan with a fresh window and a zeroed counter.
// The student plan needs a verified student account.
func (s *SubscriptionService) Upgrade(ctx context.Context, user *models.User, planName models.PlanName) (*models.Subscription, error) {
	plan, err := s.repo.GetPlan(ctx, planName)
	if err != nil {
		if errors.Is(err, common.ErrUnknownPlan) {
			return nil, ErrUnknownPlan
		}
		return nil, err
	}

	if plan.Name == models.PlanStudent && !user.IsVerifiedStudent() {
		return nil, ErrStudentVerificationRequired
	}

	now := s.now().UTC()
	sub := &models.Subscription{
		UserID:      user.ID,
		Plan:        plan.Name,
		StartedAt:   now,
		ExpiresAt:   now.AddDate(0, 0, plan.AccessDays),
		MaxSessions: plan.MaxSessions,
	}
	if err := s.repo.Replace(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}
