package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/reports"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/sessions"
	"github.com/google/uuid"
)

// LiveSessionTTL bounds how long a started analysis session can sit open
// before it is considered abandoned.
const LiveSessionTTL = 2 * time.Hour

// HistoryLimit caps how many past reports the history endpoint returns.
const HistoryLimit = 50

// StartResult is returned when an analysis session is opened.
type StartResult struct {
	SessionID         string `json:"session_id"`
	SessionsRemaining int    `json:"sessions_remaining"`
	DaysRemaining     int    `json:"days_remaining"`
}

// AnalysisService runs the analysis session lifecycle: gated start, live
// tracking, and report persistence on completion.
type AnalysisService struct {
	subs    *SubscriptionService
	live    sessions.LiveStore
	reports reports.Repository
	now     func() time.Time
}

func NewAnalysisService(subs *SubscriptionService, live sessions.LiveStore, reportRepo reports.Repository) *AnalysisService {
	return &AnalysisService{
		subs:    subs,
		live:    live,
		reports: reportRepo,
		now:     time.Now,
	}
}

// Start opens a new analysis session if the user's subscription allows one.
// The quota counter is consumed on completion, not here: an aborted session
// costs nothing.
func (s *AnalysisService) Start(ctx context.Context, user *models.User) (*StartResult, error) {
	decision, err := s.subs.CanStartSession(ctx, user)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decision.Reason
	}

	sessionID := uuid.NewString()
	if err := s.live.Register(ctx, sessionID, user.ID, LiveSessionTTL); err != nil {
		return nil, err
	}

	return &StartResult{
		SessionID:         sessionID,
		SessionsRemaining: decision.SessionsRemaining,
		DaysRemaining:     decision.DaysRemaining,
	}, nil
}

// Owner reports which user opened a live session. ErrNotFound when the
// session was never started, already completed, or timed out.
func (s *AnalysisService) Owner(ctx context.Context, sessionID string) (uuid.UUID, error) {
	return s.live.Owner(ctx, sessionID)
}

// Complete closes a live session owned by the user: it builds and stores the
// report and consumes one quota session.
func (s *AnalysisService) Complete(ctx context.Context, user *models.User, sessionID string, samples []models.MetricSample, duration time.Duration) (*models.AnalysisReport, error) {
	owner, err := s.live.Owner(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if owner != user.ID {
		return nil, ErrNotFound
	}

	report := BuildReport(user.ID, sessionID, samples, duration, s.now())
	if data, err := json.Marshal(report); err == nil {
		report.SizeBytes = int64(len(data))
	}

	if err := s.reports.Save(ctx, report); err != nil {
		return nil, err
	}

	if _, err := s.subs.RecordSessionCompleted(ctx, user.ID); err != nil && !errors.Is(err, ErrQuotaExceeded) {
		// Report is already stored; surface the ledger failure.
		return nil, err
	}

	if err := s.live.Remove(ctx, sessionID); err != nil {
		log.Printf("failed to remove live session %s: %v", sessionID, err)
	}

	return report, nil
}

// History lists the user's most recent analysis reports. A limit outside
// [1, HistoryLimit] falls back to HistoryLimit.
func (s *AnalysisService) History(ctx context.Context, userID uuid.UUID, limit int64) ([]models.AnalysisReport, error) {
	if limit < 1 || limit > HistoryLimit {
		limit = HistoryLimit
	}
	return s.reports.ListByUser(ctx, userID.String(), limit)
}
