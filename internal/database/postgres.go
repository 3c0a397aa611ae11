package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// ConnectPostgres opens a PostgreSQL connection pool and initializes the
// schema. The returned handle is passed to the repositories; nothing in this
// package keeps global state.
func ConnectPostgres(postgresURI string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("✅ Connected to PostgreSQL")

	if err = InitPostgresTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// InitPostgresTables creates all necessary tables if they don't exist and
// seeds the subscription plan catalog.
func InitPostgresTables(db *sql.DB) error {
	queries := []string{
		// Users table. account_kind discriminates standard vs student;
		// the student columns are populated only for student accounts.
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username VARCHAR(20) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(64) NOT NULL,
			salt VARCHAR(32) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			account_kind VARCHAR(10) NOT NULL DEFAULT 'standard',
			college_name VARCHAR(255),
			student_id TEXT,
			student_verified BOOLEAN NOT NULL DEFAULT FALSE,
			verification_doc_url TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			last_login TIMESTAMP,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		// One subscription per user.
		`CREATE TABLE IF NOT EXISTS subscriptions (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			plan VARCHAR(10) NOT NULL DEFAULT 'free',
			started_at TIMESTAMP NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMP NOT NULL,
			max_sessions INTEGER NOT NULL,
			sessions_used INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Plan catalog.
		`CREATE TABLE IF NOT EXISTS subscription_plans (
			plan_name VARCHAR(10) PRIMARY KEY,
			price_monthly NUMERIC(10,2) NOT NULL,
			features TEXT NOT NULL,
			max_sessions INTEGER NOT NULL,
			access_days INTEGER NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		// Privacy audit log. Rows are purged by the retention sweep.
		`CREATE TABLE IF NOT EXISTS privacy_events (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID REFERENCES users(id) ON DELETE SET NULL,
			action VARCHAR(50) NOT NULL,
			details TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users(LOWER(username))`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_privacy_events_created_at ON privacy_events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_privacy_events_user_id ON privacy_events(user_id)`,

		// Default plan catalog (matches the product tiers: free 10 sessions /
		// 1 month, pro and student unlimited for a year).
		`INSERT INTO subscription_plans (plan_name, price_monthly, features, max_sessions, access_days) VALUES
			('free', 0.0, '["Basic face analysis","1 month access","Limited sessions"]', 10, 30),
			('pro', 199.0, '["Advanced face analysis","Unlimited access","Real-time feedback","Detailed reports"]', -1, 365),
			('student', 99.0, '["Advanced face analysis","Unlimited access","Student discount","College verification required"]', -1, 365)
		ON CONFLICT (plan_name) DO NOTHING`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}
