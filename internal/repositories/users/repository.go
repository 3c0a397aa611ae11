package users

import (
	"context"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/google/uuid"
)

// Repository is the credential store. Lookups only ever return active
// (non-soft-deleted) accounts.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	SetVerificationDocument(ctx context.Context, id uuid.UUID, url string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}
