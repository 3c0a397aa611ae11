package reports

import (
	"context"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
)

// Usage summarizes how much analysis data a user has stored.
type Usage struct {
	ReportCount int64 `json:"report_count"`
	TotalBytes  int64 `json:"total_bytes"`
}

// Repository stores per-session analysis reports.
type Repository interface {
	Save(ctx context.Context, report *models.AnalysisReport) error
	// ListByUser returns the newest reports first, capped at limit.
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.AnalysisReport, error)
	// DeleteByUser removes every report owned by the user, returning the
	// number deleted.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	Usage(ctx context.Context, userID string) (*Usage, error)
}
