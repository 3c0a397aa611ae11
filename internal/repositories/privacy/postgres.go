package privacy

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Event is one row of the privacy audit log.
type Event struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is the privacy audit log: appended on data-clear requests,
// read by the compliance report, purged by the retention sweep.
type Repository interface {
	Append(ctx context.Context, userID uuid.UUID, action, details string) error
	RecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]Event, error)
	PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, userID uuid.UUID, action, details string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO privacy_events (user_id, action, details, created_at)
		VALUES ($1, $2, $3, NOW())
	`, userID, action, details)
	return err
}

func (r *PostgresRepository) RecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, action, COALESCE(details, ''), created_at
		FROM privacy_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PostgresRepository) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM privacy_events WHERE created_at < NOW() - ($1 * INTERVAL '1 second')
	`, int64(age.Seconds()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
