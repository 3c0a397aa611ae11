package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/common"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	var collegeName, studentID sql.NullString
	studentVerified := false
	if user.Student != nil {
		collegeName = sql.NullString{String: user.Student.CollegeName, Valid: true}
		studentID = sql.NullString{String: user.Student.StudentID, Valid: true}
		studentVerified = user.Student.Verified
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, salt, full_name,
			account_kind, college_name, student_id, student_verified, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE)
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.Salt, user.FullName,
		string(user.Kind), collegeName, studentID, studentVerified, user.CreatedAt)

	// Registrations racing past the duplicate pre-check land on the unique
	// constraints; report them the same way the pre-check would.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return common.ErrDuplicateUser
	}
	return err
}

const userColumns = `id, username, email, password_hash, salt, full_name,
	account_kind, college_name, student_id, student_verified, verification_doc_url,
	created_at, last_login, is_active`

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE LOWER(username) = $1 AND is_active = TRUE
	`, username)
	return scanUser(row)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1 AND is_active = TRUE
	`, id)
	return scanUser(row)
}

func (r *PostgresRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM users WHERE LOWER(username) = $1 OR LOWER(email) = $2
	`, username, email).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET last_login = NOW() WHERE id = $1
	`, id)
	return err
}

func (r *PostgresRepository) SetVerificationDocument(ctx context.Context, id uuid.UUID, url string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET verification_doc_url = $2
		WHERE id = $1 AND account_kind = 'student' AND is_active = TRUE
	`, id, url)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_active = FALSE WHERE id = $1
	`, id)
	return err
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var kind string
	var collegeName, studentID, docURL sql.NullString
	var studentVerified bool
	var lastLogin sql.NullTime

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.FullName,
		&kind, &collegeName, &studentID, &studentVerified, &docURL,
		&u.CreatedAt, &lastLogin, &u.IsActive)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	u.Kind = models.AccountKind(kind)
	if u.Kind == models.AccountStudent {
		u.Student = &models.StudentProfile{
			CollegeName: collegeName.String,
			StudentID:   studentID.String,
			Verified:    studentVerified,
			DocumentURL: docURL.String,
		}
	}
	if lastLogin.Valid {
		t := lastLogin.Time.UTC()
		u.LastLogin = &t
	}

	return &u, nil
}
