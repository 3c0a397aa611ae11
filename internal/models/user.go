package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountKind discriminates the account variants. Student accounts carry a
// StudentProfile; standard accounts never do.
type AccountKind string

const (
	AccountStandard AccountKind = "standard"
	AccountStudent  AccountKind = "student"
)

// StudentProfile holds the student-only fields. Present on a User exactly
// when Kind == AccountStudent.
type StudentProfile struct {
	CollegeName string `json:"college_name"`
	StudentID   string `json:"student_id"`
	Verified    bool   `json:"verified"`
	DocumentURL string `json:"document_url,omitempty"`
}

type User struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Kind     AccountKind `json:"kind"`

	// Student is nil unless Kind == AccountStudent.
	Student *StudentProfile `json:"student,omitempty"`

	PasswordHash string `json:"-"`
	Salt         string `json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	IsActive  bool       `json:"is_active"`
}

// IsVerifiedStudent reports whether the account is a student account that has
// passed verification.
func (u *User) IsVerifiedStudent() bool {
	return u.Kind == AccountStudent && u.Student != nil && u.Student.Verified
}
