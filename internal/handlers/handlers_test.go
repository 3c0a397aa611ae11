package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/common"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/handlers"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/privacy"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/reports"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/routes"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// --- in-memory fakes ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || !u.IsActive {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		now := time.Now().UTC()
		u.LastLogin = &now
	}
	return nil
}

func (r *fakeUserRepo) SetVerificationDocument(_ context.Context, id uuid.UUID, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Kind != models.AccountStudent {
		return common.ErrNotFound
	}
	u.Student.DocumentURL = url
	return nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.IsActive = false
	}
	return nil
}

type fakeSubRepo struct {
	mu    sync.Mutex
	subs  map[uuid.UUID]*models.Subscription
	plans map[models.PlanName]models.Plan
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{
		subs: make(map[uuid.UUID]*models.Subscription),
		plans: map[models.PlanName]models.Plan{
			models.PlanFree:    {Name: models.PlanFree, PriceMonthly: 0, Features: []string{"10 sessions"}, MaxSessions: 10, AccessDays: 30},
			models.PlanPro:     {Name: models.PlanPro, PriceMonthly: 199, Features: []string{"Unlimited sessions"}, MaxSessions: models.UnlimitedSessions, AccessDays: 365},
			models.PlanStudent: {Name: models.PlanStudent, PriceMonthly: 99, Features: []string{"Unlimited sessions"}, MaxSessions: models.UnlimitedSessions, AccessDays: 365},
		},
	}
}

func (r *fakeSubRepo) Create(_ context.Context, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sub
	r.subs[sub.UserID] = &cp
	return nil
}

func (r *fakeSubRepo) Get(_ context.Context, userID uuid.UUID) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubRepo) Replace(_ context.Context, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.UserID]; !ok {
		return common.ErrNotFound
	}
	cp := *sub
	r.subs[sub.UserID] = &cp
	return nil
}

func (r *fakeSubRepo) ConsumeSession(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[userID]
	if !ok {
		return 0, common.ErrNotFound
	}
	if s.MaxSessions >= 0 && s.SessionsUsed >= s.MaxSessions {
		return 0, common.ErrQuotaExceeded
	}
	s.SessionsUsed++
	return s.SessionsUsed, nil
}

func (r *fakeSubRepo) ResetWindow(_ context.Context, userID uuid.UUID, startedAt, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[userID]
	if !ok {
		return common.ErrNotFound
	}
	s.StartedAt = startedAt
	s.ExpiresAt = expiresAt
	s.SessionsUsed = 0
	return nil
}

func (r *fakeSubRepo) ListPlans(_ context.Context) ([]models.Plan, error) {
	return []models.Plan{
		r.plans[models.PlanFree],
		r.plans[models.PlanStudent],
		r.plans[models.PlanPro],
	}, nil
}

func (r *fakeSubRepo) GetPlan(_ context.Context, name models.PlanName) (*models.Plan, error) {
	p, ok := r.plans[name]
	if !ok {
		return nil, common.ErrUnknownPlan
	}
	return &p, nil
}

// setUsed jumps the counter, standing in for sessions consumed earlier.
func (r *fakeSubRepo) setUsed(userID uuid.UUID, used int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.subs[userID]; ok {
		s.SessionsUsed = used
	}
}

type fakeSessionStore struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{tokens: make(map[string]uuid.UUID)}
}

func (s *fakeSessionStore) Save(_ context.Context, token string, userID uuid.UUID, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, id := range s.tokens {
		if id == userID {
			delete(s.tokens, t)
		}
	}
	s.tokens[token] = userID
	return nil
}

func (s *fakeSessionStore) Lookup(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	if !ok {
		return uuid.Nil, common.ErrNotFound
	}
	return id, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *fakeSessionStore) DeleteAllForUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, id := range s.tokens {
		if id == userID {
			delete(s.tokens, t)
		}
	}
	return nil
}

type fakeLiveStore struct {
	mu     sync.Mutex
	owners map[string]uuid.UUID
}

func newFakeLiveStore() *fakeLiveStore {
	return &fakeLiveStore{owners: make(map[string]uuid.UUID)}
}

func (s *fakeLiveStore) Register(_ context.Context, sessionID string, userID uuid.UUID, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[sessionID] = userID
	return nil
}

func (s *fakeLiveStore) Owner(_ context.Context, sessionID string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.owners[sessionID]
	if !ok {
		return uuid.Nil, common.ErrNotFound
	}
	return id, nil
}

func (s *fakeLiveStore) Remove(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.owners, sessionID)
	return nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports []models.AnalysisReport
}

func (r *fakeReportRepo) Save(_ context.Context, report *models.AnalysisReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, *report)
	return nil
}

func (r *fakeReportRepo) ListByUser(_ context.Context, userID string, limit int64) ([]models.AnalysisReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AnalysisReport
	for i := len(r.reports) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.reports[i].UserID == userID {
			out = append(out, r.reports[i])
		}
	}
	return out, nil
}

func (r *fakeReportRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []models.AnalysisReport
	var deleted int64
	for _, rep := range r.reports {
		if rep.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, rep)
	}
	r.reports = kept
	return deleted, nil
}

func (r *fakeReportRepo) Usage(_ context.Context, userID string) (*reports.Usage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &reports.Usage{}
	for _, rep := range r.reports {
		if rep.UserID == userID {
			u.ReportCount++
			u.TotalBytes += rep.SizeBytes
		}
	}
	return u, nil
}

type fakePrivacyRepo struct {
	mu     sync.Mutex
	events []privacy.Event
}

func (r *fakePrivacyRepo) Append(_ context.Context, userID uuid.UUID, action, details string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, privacy.Event{
		ID: uuid.New(), UserID: userID, Action: action, Details: details, CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (r *fakePrivacyRepo) RecentForUser(_ context.Context, userID uuid.UUID, limit int) ([]privacy.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []privacy.Event
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].UserID == userID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}

func (r *fakePrivacyRepo) PurgeOlderThan(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}

// --- server wiring ---

type testEnv struct {
	server  *httptest.Server
	subRepo *fakeSubRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userRepo := newFakeUserRepo()
	subRepo := newFakeSubRepo()

	userSvc := services.NewUserService(userRepo, false)
	sessionMgr := services.NewSessionManager(newFakeSessionStore())
	subSvc := services.NewSubscriptionService(subRepo, "lock")
	reportRepo := &fakeReportRepo{}
	analysisSvc := services.NewAnalysisService(subSvc, newFakeLiveStore(), reportRepo)
	privacySvc := services.NewPrivacyService(reportRepo, sessionMgr, &fakePrivacyRepo{})

	h := &handlers.Handler{
		Users:    userSvc,
		Sessions: sessionMgr,
		Subs:     subSvc,
		Analysis: analysisSvc,
		Privacy:  privacySvc,
	}

	r := chi.NewRouter()
	routes.SetupRoutes(r, h)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, subRepo: subRepo}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (e *testEnv) register(t *testing.T, username string) (token string, userID uuid.UUID) {
	t.Helper()

	resp, body := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "correct-horse-battery",
		"full_name": "Test User",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", username, resp.StatusCode)
	}
	token, _ = body["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}
	user := body["user"].(map[string]interface{})
	id, err := uuid.Parse(user["id"].(string))
	if err != nil {
		t.Fatalf("bad user id: %v", err)
	}
	return token, id
}

// --- tests ---

func TestRegisterLoginFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	token, _ := env.register(t, "alice")

	resp, body := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status %d", resp.StatusCode)
	}
	user := body["user"].(map[string]interface{})
	if user["username"] != "alice" {
		t.Fatalf("me returned %v", user["username"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatal("password hash leaked in user payload")
	}

	// Duplicate registration conflicts.
	resp, _ = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "other@example.com",
		"password": "correct-horse-battery", "full_name": "Other",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: status %d, want 409", resp.StatusCode)
	}

	// Wrong password.
	resp, _ = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d, want 401", resp.StatusCode)
	}

	// Fresh login issues a new token and kills the old one.
	resp, body = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "correct-horse-battery",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d", resp.StatusCode)
	}
	newToken := body["token"].(string)
	if newToken == token {
		t.Fatal("login returned the previous token")
	}
	if resp, _ := env.do(t, http.MethodGet, "/api/auth/me", token, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("old token still valid: status %d", resp.StatusCode)
	}

	// Logout revokes.
	if resp, _ := env.do(t, http.MethodPost, "/api/auth/logout", newToken, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: status %d", resp.StatusCode)
	}
	if resp, _ := env.do(t, http.MethodGet, "/api/auth/me", newToken, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("token survived logout: status %d", resp.StatusCode)
	}
}

func TestPlansArePublic(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/plans", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("plans: status %d", resp.StatusCode)
	}
	if total := body["total"].(float64); total != 3 {
		t.Fatalf("got %v plans, want 3", total)
	}
}

func TestAnalysisSessionFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, _ := env.register(t, "carol")

	resp, body := env.do(t, http.MethodPost, "/api/analysis/sessions", token, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start: status %d", resp.StatusCode)
	}
	session := body["session"].(map[string]interface{})
	sessionID := session["session_id"].(string)
	if sessionID == "" {
		t.Fatal("start returned no session id")
	}
	if remaining := session["sessions_remaining"].(float64); remaining != 10 {
		t.Fatalf("sessions_remaining = %v, want 10 (quota consumed on completion)", remaining)
	}

	resp, body = env.do(t, http.MethodPost, "/api/analysis/sessions/"+sessionID+"/complete", token,
		map[string]interface{}{
			"duration_seconds": 90.0,
			"samples": []models.MetricSample{
				{Emotion: "happy", EmotionConfidence: 0.8, MovementLevel: 0.05},
				{Emotion: "neutral", EmotionConfidence: 0.6, MovementLevel: 0.02},
			},
		})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete: status %d", resp.StatusCode)
	}
	report := body["report"].(map[string]interface{})
	if report["session_id"] != sessionID {
		t.Fatalf("report session_id = %v", report["session_id"])
	}
	if report["dominant_emotion"] == "" {
		t.Fatal("report missing dominant emotion")
	}

	// Completing the same session again is a 404: it is no longer live.
	resp, _ = env.do(t, http.MethodPost, "/api/analysis/sessions/"+sessionID+"/complete", token,
		map[string]interface{}{"duration_seconds": 1.0})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("double complete: status %d, want 404", resp.StatusCode)
	}

	resp, body = env.do(t, http.MethodGet, "/api/analysis/history", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history: status %d", resp.StatusCode)
	}
	if total := body["total"].(float64); total != 1 {
		t.Fatalf("history total = %v, want 1", total)
	}
}

func TestQuotaGateOnStart(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, userID := env.register(t, "dave")

	env.subRepo.setUsed(userID, 10)

	resp, _ := env.do(t, http.MethodPost, "/api/analysis/sessions", token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("exhausted start: status %d, want 403", resp.StatusCode)
	}
}

func TestAuthorizeAndUpgrade(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, _ := env.register(t, "erin")

	// Free plan: advanced analysis denied, but still HTTP 200.
	resp, body := env.do(t, http.MethodPost, "/api/authorize", token,
		map[string]string{"action": services.ActionAdvancedAnalysis})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authorize: status %d", resp.StatusCode)
	}
	if body["allowed"].(bool) {
		t.Fatal("free plan allowed advanced analysis")
	}
	if reason, _ := body["reason"].(string); reason == "" {
		t.Fatal("denial carries no reason")
	}

	// Unknown plans are rejected.
	resp, _ = env.do(t, http.MethodPost, "/api/subscription/upgrade", token,
		map[string]string{"plan": "platinum"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown plan: status %d, want 400", resp.StatusCode)
	}

	// Student plan needs a verified student account.
	resp, _ = env.do(t, http.MethodPost, "/api/subscription/upgrade", token,
		map[string]string{"plan": "student"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("student upgrade for standard account: status %d, want 403", resp.StatusCode)
	}

	resp, body = env.do(t, http.MethodPost, "/api/subscription/upgrade", token,
		map[string]string{"plan": "pro"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pro upgrade: status %d", resp.StatusCode)
	}
	sub := body["subscription"].(map[string]interface{})
	if sub["plan"] != "pro" {
		t.Fatalf("upgraded plan = %v", sub["plan"])
	}

	resp, body = env.do(t, http.MethodPost, "/api/authorize", token,
		map[string]string{"action": services.ActionAdvancedAnalysis})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authorize after upgrade: status %d", resp.StatusCode)
	}
	if !body["allowed"].(bool) {
		t.Fatal("pro plan denied advanced analysis")
	}

	resp, body = env.do(t, http.MethodGet, "/api/subscription", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: status %d", resp.StatusCode)
	}
	status := body["subscription"].(map[string]interface{})
	if status["plan"] != "pro" {
		t.Fatalf("subscription panel plan = %v", status["plan"])
	}
}

func TestPrivacyEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, _ := env.register(t, "frank")

	// Produce one report.
	resp, body := env.do(t, http.MethodPost, "/api/analysis/sessions", token, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start: status %d", resp.StatusCode)
	}
	sessionID := body["session"].(map[string]interface{})["session_id"].(string)
	resp, _ = env.do(t, http.MethodPost, "/api/analysis/sessions/"+sessionID+"/complete", token,
		map[string]interface{}{"duration_seconds": 30.0})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete: status %d", resp.StatusCode)
	}

	resp, body = env.do(t, http.MethodGet, "/api/privacy/usage", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("usage: status %d", resp.StatusCode)
	}
	usage := body["usage"].(map[string]interface{})
	if count := usage["report_count"].(float64); count != 1 {
		t.Fatalf("report_count = %v, want 1", count)
	}

	// Clearing data deletes reports and revokes the session.
	resp, _ = env.do(t, http.MethodDelete, "/api/privacy/data", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear: status %d", resp.StatusCode)
	}
	if resp, _ := env.do(t, http.MethodGet, "/api/auth/me", token, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("token survived data clear: status %d", resp.StatusCode)
	}
}

func TestVerificationUploadGuards(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, _ := env.register(t, "grace")

	// Standard accounts cannot upload verification documents.
	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/verification/document", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.server.Client().Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("standard account upload: status %d, want 403", resp.StatusCode)
	}
}

func TestUnauthenticatedRequests(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	protected := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/subscription"},
		{http.MethodPost, "/api/authorize"},
		{http.MethodPost, "/api/analysis/sessions"},
		{http.MethodGet, "/api/analysis/history"},
		{http.MethodDelete, "/api/privacy/data"},
	}
	for _, tc := range protected {
		resp, _ := env.do(t, tc.method, tc.path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: status %d, want 401", tc.method, tc.path, resp.StatusCode)
		}
		resp, _ = env.do(t, tc.method, tc.path, "not-a-real-token", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s with bogus token: status %d, want 401", tc.method, tc.path, resp.StatusCode)
		}
	}
}
