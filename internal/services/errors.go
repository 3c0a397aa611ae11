package services

import "github.com/abhi-19-09-2006/AI-Presentation-coach/internal/common"

// Re-exported sentinels so handlers only need the services package.
var (
	ErrNotFound                    = common.ErrNotFound
	ErrDuplicateUser               = common.ErrDuplicateUser
	ErrInvalidCredentials          = common.ErrInvalidCredentials
	ErrNotAuthenticated            = common.ErrNotAuthenticated
	ErrQuotaExceeded               = common.ErrQuotaExceeded
	ErrSubscriptionExpired         = common.ErrSubscriptionExpired
	ErrStudentVerificationRequired = common.ErrStudentVerificationRequired
	ErrUnknownPlan                 = common.ErrUnknownPlan
)
