package subscriptions

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/common"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestGet(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	userID := uuid.New()
	started := time.Now().UTC().Add(-time.Hour)
	expires := started.AddDate(0, 0, 30)

	mock.ExpectQuery(`SELECT user_id, plan, started_at, expires_at, max_sessions, sessions_used, updated_at\s+FROM subscriptions`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "plan", "started_at", "expires_at", "max_sessions", "sessions_used", "updated_at",
		}).AddRow(userID.String(), "free", started, expires, 10, 3, started))

	sub, err := repo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, sub.Plan)
	assert.Equal(t, 10, sub.MaxSessions)
	assert.Equal(t, 3, sub.SessionsUsed)

	mock.ExpectQuery(`SELECT user_id, plan`).
		WithArgs(userID).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Get(context.Background(), userID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeSession(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	userID := uuid.New()

	mock.ExpectQuery(`(?s)UPDATE subscriptions\s+SET sessions_used = sessions_used \+ 1.+RETURNING sessions_used`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"sessions_used"}).AddRow(4))

	used, err := repo.ConsumeSession(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 4, used)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeSession_QuotaExhausted(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	userID := uuid.New()

	mock.ExpectQuery(`UPDATE subscriptions`).
		WithArgs(userID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.ConsumeSession(context.Background(), userID)
	assert.ErrorIs(t, err, common.ErrQuotaExceeded)
}

func TestConsumeSession_NoSubscription(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	userID := uuid.New()

	mock.ExpectQuery(`UPDATE subscriptions`).
		WithArgs(userID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.ConsumeSession(context.Background(), userID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestReplace_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	sub := &models.Subscription{
		UserID:      uuid.New(),
		Plan:        models.PlanPro,
		StartedAt:   time.Now().UTC(),
		ExpiresAt:   time.Now().UTC().AddDate(0, 0, 365),
		MaxSessions: models.UnlimitedSessions,
	}

	mock.ExpectExec(`UPDATE subscriptions\s+SET plan = \$2`).
		WithArgs(sub.UserID, "pro", sub.StartedAt, sub.ExpiresAt, sub.MaxSessions, 0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Replace(context.Background(), sub)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListPlans(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT plan_name, price_monthly, features, max_sessions, access_days\s+FROM subscription_plans WHERE is_active = TRUE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"plan_name", "price_monthly", "features", "max_sessions", "access_days",
		}).
			AddRow("free", 0, `["10 sessions per month"]`, 10, 30).
			AddRow("student", 99, `["Unlimited sessions","Advanced analysis"]`, -1, 365))

	plans, err := repo.ListPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, models.PlanFree, plans[0].Name)
	assert.Equal(t, 10, plans[0].MaxSessions)
	assert.Equal(t, []string{"Unlimited sessions", "Advanced analysis"}, plans[1].Features)
}

func TestGetPlan_Unknown(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT plan_name, price_monthly, features, max_sessions, access_days\s+FROM subscription_plans WHERE plan_name = \$1`).
		WithArgs("platinum").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetPlan(context.Background(), models.PlanName("platinum"))
	assert.ErrorIs(t, err, common.ErrUnknownPlan)
}
