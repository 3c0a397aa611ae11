package subscriptions

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/common"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, sub *models.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (user_id, plan, started_at, expires_at, max_sessions, sessions_used, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, sub.UserID, string(sub.Plan), sub.StartedAt, sub.ExpiresAt, sub.MaxSessions, sub.SessionsUsed)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var s models.Subscription
	var plan string
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, plan, started_at, expires_at, max_sessions, sessions_used, updated_at
		FROM subscriptions WHERE user_id = $1
	`, userID).Scan(&s.UserID, &plan, &s.StartedAt, &s.ExpiresAt, &s.MaxSessions, &s.SessionsUsed, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Plan = models.PlanName(plan)
	return &s, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, sub *models.Subscription) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET plan = $2, started_at = $3, expires_at = $4, max_sessions = $5, sessions_used = $6, updated_at = NOW()
		WHERE user_id = $1
	`, sub.UserID, string(sub.Plan), sub.StartedAt, sub.ExpiresAt, sub.MaxSessions, sub.SessionsUsed)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ConsumeSession performs the increment and the cap check in a single
// conditional UPDATE so concurrent completions for one user cannot push a
// capped counter past its quota.
func (r *PostgresRepository) ConsumeSession(ctx context.Context, userID uuid.UUID) (int, error) {
	var used int
	err := r.db.QueryRowContext(ctx, `
		UPDATE subscriptions
		SET sessions_used = sessions_used + 1, updated_at = NOW()
		WHERE user_id = $1 AND (max_sessions < 0 OR sessions_used < max_sessions)
		RETURNING sessions_used
	`, userID).Scan(&used)
	if err == sql.ErrNoRows {
		// Either no subscription or the quota is already exhausted.
		var exists bool
		if checkErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM subscriptions WHERE user_id = $1)`, userID,
		).Scan(&exists); checkErr != nil {
			return 0, checkErr
		}
		if !exists {
			return 0, common.ErrNotFound
		}
		return 0, common.ErrQuotaExceeded
	}
	if err != nil {
		return 0, err
	}
	return used, nil
}

func (r *PostgresRepository) ResetWindow(ctx context.Context, userID uuid.UUID, startedAt, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET started_at = $2, expires_at = $3, sessions_used = 0, updated_at = NOW()
		WHERE user_id = $1
	`, userID, startedAt, expiresAt)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListPlans(ctx context.Context) ([]models.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT plan_name, price_monthly, features, max_sessions, access_days
		FROM subscription_plans WHERE is_active = TRUE
		ORDER BY price_monthly
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func (r *PostgresRepository) GetPlan(ctx context.Context, name models.PlanName) (*models.Plan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT plan_name, price_monthly, features, max_sessions, access_days
		FROM subscription_plans WHERE plan_name = $1 AND is_active = TRUE
	`, string(name))

	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, common.ErrUnknownPlan
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*models.Plan, error) {
	var p models.Plan
	var name, featuresJSON string
	if err := row.Scan(&name, &p.PriceMonthly, &featuresJSON, &p.MaxSessions, &p.AccessDays); err != nil {
		return nil, err
	}
	p.Name = models.PlanName(name)
	if err := json.Unmarshal([]byte(featuresJSON), &p.Features); err != nil {
		return nil, err
	}
	return &p, nil
}
