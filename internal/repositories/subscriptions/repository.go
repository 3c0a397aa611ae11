package subscriptions

import (
	"context"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/google/uuid"
)

// Repository is the subscription ledger. ConsumeSession must be atomic with
// respect to concurrent calls for the same user: a capped plan's counter can
// never pass its cap.
type Repository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	Get(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	// Replace swaps the plan assignment in place (upgrade): new plan, fresh
	// window, zeroed counter.
	Replace(ctx context.Context, sub *models.Subscription) error
	// ConsumeSession increments sessions_used and returns the new value.
	// Returns common.ErrQuotaExceeded when a capped plan is already at its cap.
	ConsumeSession(ctx context.Context, userID uuid.UUID) (int, error)
	// ResetWindow starts a fresh access window with a zeroed counter.
	ResetWindow(ctx context.Context, userID uuid.UUID, startedAt, expiresAt time.Time) error

	ListPlans(ctx context.Context) ([]models.Plan, error)
	GetPlan(ctx context.Context, name models.PlanName) (*models.Plan, error)
}
