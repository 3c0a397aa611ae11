package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/common"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/users"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/pkg/utils"
	"github.com/google/uuid"
)

// MinPasswordLength mirrors the registration form's requirement.
const MinPasswordLength = 6

// RegisterParams carries everything the registration form collects. College
// name and student ID are required exactly when Kind is student.
type RegisterParams struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	Kind        models.AccountKind
	CollegeName string
	StudentID   string
}

// UserService is the credential store front: registration, login, profile
// lookups. Passwords never leave this layer unhashed.
type UserService struct {
	repo users.Repository

	// encryptStudentID is true when an at-rest encryption key is configured;
	// student ID numbers are then stored encrypted.
	encryptStudentID bool
}

func NewUserService(repo users.Repository, encryptStudentID bool) *UserService {
	return &UserService{repo: repo, encryptStudentID: encryptStudentID}
}

func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	if err := utils.ValidateUsername(p.Username); err != nil {
		return nil, err
	}
	if len(p.Password) < MinPasswordLength {
		return nil, &utils.ValidationError{Field: "password", Message: "Password must be at least 6 characters long"}
	}
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.Email == "" || p.FullName == "" {
		return nil, &utils.ValidationError{Field: "email", Message: "Email and full name are required"}
	}

	if p.Kind == "" {
		p.Kind = models.AccountStandard
	}
	if p.Kind == models.AccountStudent && (p.CollegeName == "" || p.StudentID == "") {
		return nil, &utils.ValidationError{Field: "student", Message: "College name and student ID are required for student accounts"}
	}

	username := utils.NormalizeUsername(p.Username)

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, p.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrDuplicateUser
	}

	hash, salt, err := utils.HashPassword(p.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        p.Email,
		FullName:     p.FullName,
		Kind:         p.Kind,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}

	if p.Kind == models.AccountStudent {
		studentID := p.StudentID
		if s.encryptStudentID {
			encrypted, err := utils.Encrypt(studentID)
			if err != nil {
				log.Printf("failed to encrypt student ID, storing skipped: %v", err)
				return nil, err
			}
			studentID = encrypted
		}
		// Verification is accepted at face value; no external registry check
		// exists. The uploaded ID document is kept for audit.
		user.Student = &models.StudentProfile{
			CollegeName: p.CollegeName,
			StudentID:   studentID,
			Verified:    true,
		}
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials. A missing user and a wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetByUsername(ctx, utils.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.VerifyPassword(password, user.Salt, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Not fatal for the login itself.
		log.Printf("failed to update last login for %s: %v", user.ID, err)
	}
	return user, nil
}

// GetByID loads a user's profile, decrypting the student ID when stored
// encrypted.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.encryptStudentID && user.Student != nil && user.Student.StudentID != "" {
		plain, err := utils.Decrypt(user.Student.StudentID)
		if err == nil {
			user.Student.StudentID = plain
		}
	}
	return user, nil
}

// AttachVerificationDocument stores the uploaded ID document URL on a student
// account.
func (s *UserService) AttachVerificationDocument(ctx context.Context, id uuid.UUID, url string) error {
	return s.repo.SetVerificationDocument(ctx, id, url)
}

// Deactivate soft-deletes the account. Sessions referencing the user stop
// validating because lookups exclude inactive rows.
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}
