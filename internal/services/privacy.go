package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/privacy"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/reports"
	"github.com/google/uuid"
)

// DataUsage is what the privacy dashboard shows a user about their stored data.
type DataUsage struct {
	ReportCount int64 `json:"report_count"`
	TotalBytes  int64 `json:"total_bytes"`
}

// PrivacyReport is the compliance summary for a user.
type PrivacyReport struct {
	UserID          string          `json:"user_id"`
	DataStored      DataUsage       `json:"data_stored"`
	RetentionPolicy string          `json:"retention_policy"`
	RecentEvents    []privacy.Event `json:"recent_events"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// PrivacyService handles user data deletion, usage reporting, and the
// audit-log retention sweep.
type PrivacyService struct {
	reports  reports.Repository
	sessions *SessionManager
	events   privacy.Repository
}

func NewPrivacyService(reportRepo reports.Repository, sessionMgr *SessionManager, eventRepo privacy.Repository) *PrivacyService {
	return &PrivacyService{
		reports:  reportRepo,
		sessions: sessionMgr,
		events:   eventRepo,
	}
}

// ClearUserData deletes every stored analysis report for the user and
// revokes all their session tokens, then records the purge in the audit log.
func (s *PrivacyService) ClearUserData(ctx context.Context, userID uuid.UUID) (int64, error) {
	deleted, err := s.reports.DeleteByUser(ctx, userID.String())
	if err != nil {
		return 0, err
	}

	if err := s.sessions.RevokeAll(ctx, userID); err != nil {
		log.Printf("failed to revoke sessions for %s during data clear: %v", userID, err)
	}

	details := fmt.Sprintf("deleted %d analysis reports and revoked all sessions", deleted)
	if err := s.events.Append(ctx, userID, "clear_user_data", details); err != nil {
		log.Printf("failed to record privacy event for %s: %v", userID, err)
	}

	return deleted, nil
}

// Usage reports how much analysis data the user has stored.
func (s *PrivacyService) Usage(ctx context.Context, userID uuid.UUID) (*DataUsage, error) {
	u, err := s.reports.Usage(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	return &DataUsage{ReportCount: u.ReportCount, TotalBytes: u.TotalBytes}, nil
}

// Report builds the compliance summary: stored data plus recent audit events.
func (s *PrivacyService) Report(ctx context.Context, userID uuid.UUID) (*PrivacyReport, error) {
	usage, err := s.Usage(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.events.RecentForUser(ctx, userID, 20)
	if err != nil {
		return nil, err
	}

	return &PrivacyReport{
		UserID:          userID.String(),
		DataStored:      *usage,
		RetentionPolicy: "analysis reports are kept until you delete them; audit events are kept for 90 days",
		RecentEvents:    events,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

// StartRetentionSweep purges audit-log events older than maxAge every
// interval. It runs until the context is cancelled.
func (s *PrivacyService) StartRetentionSweep(ctx context.Context, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, err := s.events.PurgeOlderThan(ctx, maxAge)
				if err != nil {
					log.Printf("privacy retention sweep failed: %v", err)
					continue
				}
				if purged > 0 {
					log.Printf("privacy retention sweep removed %d events", purged)
				}
			}
		}
	}()
}
