package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/common"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/config"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/reports"
	"github.com/google/uuid"
)

// memLiveStore is an in-memory sessions.LiveStore. TTLs are ignored: tests
// drive lifecycle explicitly.
type memLiveStore struct {
	mu     sync.Mutex
	owners map[string]uuid.UUID
}

func newMemLiveStore() *memLiveStore {
	return &memLiveStore{owners: make(map[string]uuid.UUID)}
}

func (s *memLiveStore) Register(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[sessionID] = userID
	return nil
}

func (s *memLiveStore) Owner(ctx context.Context, sessionID string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.owners[sessionID]
	if !ok {
		return uuid.Nil, common.ErrNotFound
	}
	return userID, nil
}

func (s *memLiveStore) Remove(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.owners, sessionID)
	return nil
}

// memReportsRepo is an in-memory reports.Repository.
type memReportsRepo struct {
	mu    sync.Mutex
	saved []models.AnalysisReport
}

func (r *memReportsRepo) Save(ctx context.Context, report *models.AnalysisReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, *report)
	return nil
}

func (r *memReportsRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.AnalysisReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AnalysisReport
	for i := len(r.saved) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.saved[i].UserID == userID {
			out = append(out, r.saved[i])
		}
	}
	return out, nil
}

func (r *memReportsRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []models.AnalysisReport
	var deleted int64
	for _, rep := range r.saved {
		if rep.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, rep)
	}
	r.saved = kept
	return deleted, nil
}

func (r *memReportsRepo) Usage(ctx context.Context, userID string) (*reports.Usage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &reports.Usage{}
	for _, rep := range r.saved {
		if rep.UserID == userID {
			u.ReportCount++
			u.TotalBytes += rep.SizeBytes
		}
	}
	return u, nil
}

func newAnalysisServiceForTest(t *testing.T) (*AnalysisService, *SubscriptionService, *memSubRepo, *memLiveStore, *memReportsRepo) {
	t.Helper()
	subRepo := newMemSubRepo()
	live := newMemLiveStore()
	reportRepo := &memReportsRepo{}
	subs := NewSubscriptionService(subRepo, config.FreeWindowLock)
	svc := NewAnalysisService(subs, live, reportRepo)
	return svc, subs, subRepo, live, reportRepo
}

func TestAnalysis_StartCompleteFlow(t *testing.T) {
	t.Parallel()

	svc, subs, subRepo, live, _ := newAnalysisServiceForTest(t)
	ctx := context.Background()
	user := freeUser()

	if _, err := subs.CreateInitial(ctx, user); err != nil {
		t.Fatalf("CreateInitial error: %v", err)
	}

	start, err := svc.Start(ctx, user)
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if start.SessionID == "" {
		t.Fatal("Start returned empty session ID")
	}
	if start.SessionsRemaining != 10 {
		t.Fatalf("remaining: got %d, want 10", start.SessionsRemaining)
	}

	owner, err := svc.Owner(ctx, start.SessionID)
	if err != nil || owner != user.ID {
		t.Fatalf("Owner: got %s / %v, want %s", owner, err, user.ID)
	}

	samples := []models.MetricSample{
		{Emotion: "happy", EmotionConfidence: 0.8, MovementLevel: 0.05},
	}
	report, err := svc.Complete(ctx, user, start.SessionID, samples, time.Minute)
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if report.SessionID != start.SessionID {
		t.Fatalf("report session: got %q, want %q", report.SessionID, start.SessionID)
	}
	if report.SizeBytes == 0 {
		t.Fatal("report size should be recorded")
	}

	// Completion consumed one quota session.
	sub, err := subRepo.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if sub.SessionsUsed != 1 {
		t.Fatalf("sessions used: got %d, want 1", sub.SessionsUsed)
	}

	// The live session is gone.
	if _, err := live.Owner(ctx, start.SessionID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("live session after completion: got %v, want ErrNotFound", err)
	}

	// And the report is in history.
	history, err := svc.History(ctx, user.ID, 0)
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length: got %d, want 1", len(history))
	}
}

func TestAnalysis_CompleteRejectsWrongOwner(t *testing.T) {
	t.Parallel()

	svc, subs, _, _, _ := newAnalysisServiceForTest(t)
	ctx := context.Background()

	owner := freeUser()
	intruder := freeUser()
	if _, err := subs.CreateInitial(ctx, owner); err != nil {
		t.Fatalf("CreateInitial error: %v", err)
	}
	if _, err := subs.CreateInitial(ctx, intruder); err != nil {
		t.Fatalf("CreateInitial error: %v", err)
	}

	start, err := svc.Start(ctx, owner)
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}

	if _, err := svc.Complete(ctx, intruder, start.SessionID, nil, time.Minute); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign completion: got %v, want ErrNotFound", err)
	}

	// Owner can still complete.
	if _, err := svc.Complete(ctx, owner, start.SessionID, nil, time.Minute); err != nil {
		t.Fatalf("owner completion error: %v", err)
	}
}

func TestAnalysis_CompleteUnknownSession(t *testing.T) {
	t.Parallel()

	svc, subs, _, _, _ := newAnalysisServiceForTest(t)
	ctx := context.Background()
	user := freeUser()

	if _, err := subs.CreateInitial(ctx, user); err != nil {
		t.Fatalf("CreateInitial error: %v", err)
	}

	if _, err := svc.Complete(ctx, user, "no-such-session", nil, time.Minute); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown session: got %v, want ErrNotFound", err)
	}
}

func TestAnalysis_StartDeniedWithoutQuota(t *testing.T) {
	t.Parallel()

	svc, subs, _, _, _ := newAnalysisServiceForTest(t)
	ctx := context.Background()
	user := freeUser()

	if _, err := subs.CreateInitial(ctx, user); err != nil {
		t.Fatalf("CreateInitial error: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, err := subs.RecordSessionCompleted(ctx, user.ID); err != nil {
			t.Fatalf("RecordSessionCompleted error: %v", err)
		}
	}

	if _, err := svc.Start(ctx, user); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("start past quota: got %v, want ErrQuotaExceeded", err)
	}
}

// An aborted session (started but never completed) costs no quota.
func TestAnalysis_AbortedSessionConsumesNothing(t *testing.T) {
	t.Parallel()

	svc, subs, subRepo, live, _ := newAnalysisServiceForTest(t)
	ctx := context.Background()
	user := freeUser()

	if _, err := subs.CreateInitial(ctx, user); err != nil {
		t.Fatalf("CreateInitial error: %v", err)
	}

	start, err := svc.Start(ctx, user)
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	// Simulate TTL-based abandonment.
	if err := live.Remove(ctx, start.SessionID); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	sub, err := subRepo.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if sub.SessionsUsed != 0 {
		t.Fatalf("aborted session consumed quota: %d", sub.SessionsUsed)
	}
}
