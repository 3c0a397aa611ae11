package common

import "errors"

var (
	// repository errors
	ErrNotFound = errors.New("not found")

	// registration / login
	ErrDuplicateUser      = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// session validation; expired and unknown tokens are deliberately
	// indistinguishable to callers
	ErrNotAuthenticated = errors.New("not authenticated")

	// access gate deny reasons
	ErrQuotaExceeded               = errors.New("session quota exceeded")
	ErrSubscriptionExpired         = errors.New("subscription access window has expired")
	ErrStudentVerificationRequired = errors.New("student verification required")

	// subscription management
	ErrUnknownPlan = errors.New("unknown subscription plan")
)
