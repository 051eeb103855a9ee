package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-portal/internal/config"
	"github.com/jonathan/job-portal/internal/db"
	"github.com/jonathan/job-portal/internal/embedding"
	"github.com/jonathan/job-portal/internal/engine"
	"github.com/jonathan/job-portal/internal/server/middleware"
	"github.com/jonathan/job-portal/internal/server/ratelimit"
	"github.com/jonathan/job-portal/internal/types"
)

// mockStore implements a minimal in-memory Store for testing
type mockStore struct {
	mu       sync.Mutex
	jobs     map[string]*types.Job
	profiles map[string]*types.SeekerProfile
	users    map[string]*db.UserRecord
	pingErr  error
	listErr  error
}

func newMockStore() *mockStore {
	return &mockStore{
		jobs:     make(map[string]*types.Job),
		profiles: make(map[string]*types.SeekerProfile),
		users:    make(map[string]*db.UserRecord),
	}
}

func (m *mockStore) ListActiveJobs(_ context.Context) ([]types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var jobs []types.Job
	for _, job := range m.jobs {
		if job.Status == types.JobStatusActive {
			jobs = append(jobs, *job)
		}
	}
	return jobs, nil
}

func (m *mockStore) GetJob(_ context.Context, jobID string) (*types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, nil
	}
	copied := *job
	return &copied, nil
}

func (m *mockStore) CreateJob(_ context.Context, job *types.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *mockStore) ArchiveJob(_ context.Context, jobID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || job.Status == types.JobStatusArchived {
		return false, nil
	}
	job.Status = types.JobStatusArchived
	return true, nil
}

func (m *mockStore) CountJobs(_ context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, job := range m.jobs {
		counts[string(job.Status)]++
	}
	return counts, nil
}

func (m *mockStore) UpsertSeekerProfile(_ context.Context, profile *types.SeekerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *profile
	m.profiles[profile.UserID] = &copied
	return nil
}

func (m *mockStore) GetSeekerProfile(_ context.Context, userID string) (*types.SeekerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *profile
	return &copied, nil
}

func (m *mockStore) CreateUser(_ context.Context, name, email, role, passwordHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	record := &db.UserRecord{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[email] = record
	return record.ID, nil
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*db.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (m *mockStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[email]
	return ok, nil
}

func (m *mockStore) Ping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingErr
}

// testServer bundles a server wired to an in-memory store
type testServer struct {
	*Server
	mock *mockStore
}

func newTestServer() *testServer {
	mock := newMockStore()
	eng := engine.New(embedding.NewLocal(64), engine.DefaultOptions())
	jwtService := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	passwords := &config.PasswordConfig{BcryptCost: 10}
	limiter := ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	s := newServer(mock, eng, jwtService, passwords, limiter)
	return &testServer{Server: s, mock: mock}
}

func (ts *testServer) seedJob(id, title, description string, skills ...string) {
	now := time.Now().UTC()
	ts.mock.jobs[id] = &types.Job{
		ID:              id,
		Title:           title,
		Description:     description,
		Skills:          skills,
		Status:          types.JobStatusActive,
		Country:         "US",
		WorkType:        types.WorkTypeRemote,
		JobType:         types.JobTypeFullTime,
		ExperienceLevel: types.ExperienceMid,
		CompanyName:     "Acme",
		PostedAt:        now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (ts *testServer) reindex(t *testing.T) {
	t.Helper()
	if err := ts.reindexFromStore(context.Background()); err != nil {
		t.Fatalf("reindex failed: %v", err)
	}
}

func (ts *testServer) token(t *testing.T, role string) (uuid.UUID, string) {
	t.Helper()
	userID := uuid.New()
	token, err := ts.jwtService.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return userID, token
}

// do runs a request through the full handler chain, including auth and routing
func (ts *testServer) do(method, path, token string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.httpServer.Handler.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer()

	w := ts.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	decodeJSON(t, w, &resp)
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", resp["status"])
	}
	if resp["index_ready"] != false {
		t.Error("expected index_ready false before first reindex")
	}

	ts.seedJob("job-1", "Backend Engineer", "Build Go services", "go")
	ts.reindex(t)

	w = ts.do(http.MethodGet, "/health", "", nil)
	decodeJSON(t, w, &resp)
	if resp["index_ready"] != true {
		t.Error("expected index_ready true after reindex")
	}
}

func TestHealthEndpoint_DatabaseDown(t *testing.T) {
	ts := newTestServer()
	ts.mock.pingErr = fmt.Errorf("connection refused")

	w := ts.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	decodeJSON(t, w, &resp)
	if resp["status"] != "degraded" {
		t.Errorf("expected status 'degraded', got %v", resp["status"])
	}
}

func TestSearch_BeforeIndexBuilt(t *testing.T) {
	ts := newTestServer()

	w := ts.do(http.MethodGet, "/jobs/search?q=python", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestSearch_InvalidParams(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-1", "Backend Engineer", "Build Go services", "go")
	ts.reindex(t)

	cases := []struct {
		name string
		url  string
	}{
		{"bad boolean", "/jobs/search?remote_only=maybe"},
		{"bad integer", "/jobs/search?salary_min=lots"},
		{"bad float", "/jobs/search?min_rating=high"},
		{"rating out of range", "/jobs/search?min_rating=9"},
		{"bad posted_within", "/jobs/search?posted_within=2w"},
		{"bad sort", "/jobs/search?sort_by=rating"},
		{"page size too large", "/jobs/search?page_size=500"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(http.MethodGet, tc.url, "", nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400 for %s, got %d", tc.url, w.Code)
			}

			var resp map[string]string
			decodeJSON(t, w, &resp)
			if resp["error"] == "" {
				t.Error("expected error message in response")
			}
		})
	}
}

func TestSearch_ReturnsResults(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-py", "Python Developer", "Build Python data pipelines", "python")
	ts.seedJob("job-go", "Go Developer", "Build Go services", "go")
	ts.reindex(t)

	w := ts.do(http.MethodGet, "/jobs/search?q=python&page_size=10", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Jobs []struct {
			JobID string `json:"job_id"`
		} `json:"jobs"`
		Pagination types.PaginationMetadata `json:"pagination"`
	}
	decodeJSON(t, w, &resp)

	if len(resp.Jobs) == 0 {
		t.Fatal("expected matching jobs")
	}
	if resp.Jobs[0].JobID != "job-py" {
		t.Errorf("expected job-py ranked first, got %s", resp.Jobs[0].JobID)
	}
	if resp.Pagination.TotalResults != len(resp.Jobs) {
		t.Errorf("pagination total %d does not match %d jobs",
			resp.Pagination.TotalResults, len(resp.Jobs))
	}
}

func TestSearch_ListParamsSplitOnComma(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-1", "Backend Engineer", "Build Go services", "go", "postgres")
	ts.seedJob("job-2", "Frontend Engineer", "Build React apps", "react")
	ts.reindex(t)

	w := ts.do(http.MethodGet, "/jobs/search?skills=go,postgres", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Jobs []struct {
			JobID string `json:"job_id"`
		} `json:"jobs"`
	}
	decodeJSON(t, w, &resp)
	if len(resp.Jobs) != 1 || resp.Jobs[0].JobID != "job-1" {
		t.Errorf("expected only job-1 to match both skills, got %+v", resp.Jobs)
	}
}

func TestSearch_WireFormat(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-py", "Python Developer", "Build Python data pipelines", "python")
	ts.reindex(t)

	w := ts.do(http.MethodGet, "/jobs/search?q=python&easy_apply=true", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var payload map[string]json.RawMessage
	decodeJSON(t, w, &payload)
	for _, key := range []string{"jobs", "pagination", "filters_applied"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("response missing %q key: %s", key, w.Body.String())
		}
	}

	var applied map[string]any
	if err := json.Unmarshal(payload["filters_applied"], &applied); err != nil {
		t.Fatalf("failed to decode filters_applied: %v", err)
	}
	if applied["keywords"] != "python" {
		t.Errorf("expected keywords echo, got %v", applied)
	}
	if applied["easy_apply"] != true {
		t.Errorf("expected easy_apply echo, got %v", applied)
	}
}

func TestSearch_UnmatchedQueryReturnsNothing(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-py", "Python Developer", "Build Python data pipelines", "python")
	ts.seedJob("job-go", "Go Developer", "Build Go services", "go")
	ts.reindex(t)

	w := ts.do(http.MethodGet, "/jobs/search?q=xyzabc123impossible", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Jobs       []json.RawMessage        `json:"jobs"`
		Pagination types.PaginationMetadata `json:"pagination"`
	}
	decodeJSON(t, w, &resp)
	if len(resp.Jobs) != 0 {
		t.Errorf("expected no jobs for an unmatched query, got %d", len(resp.Jobs))
	}
	if resp.Pagination.TotalResults != 0 {
		t.Errorf("expected total 0, got %d", resp.Pagination.TotalResults)
	}
}

func TestFilterOptions(t *testing.T) {
	ts := newTestServer()

	w := ts.do(http.MethodGet, "/jobs/filter-options", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 before reindex, got %d", w.Code)
	}

	ts.seedJob("job-1", "Backend Engineer", "Build Go services", "go")
	ts.reindex(t)

	w = ts.do(http.MethodGet, "/jobs/filter-options", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		WorkTypes []struct {
			Value string `json:"value"`
			Count int    `json:"count"`
		} `json:"work_types"`
	}
	decodeJSON(t, w, &resp)
	if len(resp.WorkTypes) != 1 || resp.WorkTypes[0].Value != "remote" {
		t.Errorf("expected remote work type facet, got %+v", resp.WorkTypes)
	}
}

func TestGetJob(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-1", "Backend Engineer", "Build Go services", "go")

	w := ts.do(http.MethodGet, "/jobs/job-1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var job types.Job
	decodeJSON(t, w, &job)
	if job.Title != "Backend Engineer" {
		t.Errorf("expected title 'Backend Engineer', got %q", job.Title)
	}

	w = ts.do(http.MethodGet, "/jobs/missing", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestCreateJob_RequiresEmployerRole(t *testing.T) {
	ts := newTestServer()
	body := []byte(`{"title": "Backend Engineer", "description": "Build Go services"}`)

	w := ts.do(http.MethodPost, "/jobs", "", body)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 without token, got %d", w.Code)
	}

	_, seekerToken := ts.token(t, middleware.RoleSeeker)
	w = ts.do(http.MethodPost, "/jobs", seekerToken, body)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403 for seeker token, got %d", w.Code)
	}
}

func TestCreateJob(t *testing.T) {
	ts := newTestServer()
	employerID, token := ts.token(t, middleware.RoleEmployer)

	body := []byte(`{
		"title": "Data Engineer",
		"description": "Build data pipelines with Airflow",
		"skills": ["python", "airflow"],
		"work_type": "remote",
		"salary_min": 120000,
		"salary_max": 160000
	}`)

	w := ts.do(http.MethodPost, "/jobs", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var job types.Job
	decodeJSON(t, w, &job)
	if job.ID == "" {
		t.Error("expected generated job ID")
	}
	if job.EmployerID != employerID.String() {
		t.Errorf("expected employer ID %s, got %s", employerID, job.EmployerID)
	}
	if job.Status != types.JobStatusActive {
		t.Errorf("expected active status, got %s", job.Status)
	}
	if stored, _ := ts.mock.GetJob(context.Background(), job.ID); stored == nil {
		t.Error("expected job to be persisted")
	}
}

func TestCreateJob_Validation(t *testing.T) {
	ts := newTestServer()
	_, token := ts.token(t, middleware.RoleEmployer)

	cases := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"title": `},
		{"missing title", `{"description": "Build Go services"}`},
		{"bad work type", `{"title": "x", "description": "y", "work_type": "space"}`},
		{"negative salary", `{"title": "x", "description": "y", "salary_min": -1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(http.MethodPost, "/jobs", token, []byte(tc.body))
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestArchiveJob(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-1", "Backend Engineer", "Build Go services", "go")
	_, token := ts.token(t, middleware.RoleEmployer)

	w := ts.do(http.MethodDelete, "/jobs/job-1", token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}

	if ts.mock.jobs["job-1"].Status != types.JobStatusArchived {
		t.Error("expected job to be archived")
	}

	// Archiving twice reports not found
	w = ts.do(http.MethodDelete, "/jobs/job-1", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second archive, got %d", w.Code)
	}

	w = ts.do(http.MethodDelete, "/jobs/missing", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown job, got %d", w.Code)
	}
}

func TestReindexEndpoint(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-1", "Backend Engineer", "Build Go services", "go")
	ts.seedJob("job-2", "Data Engineer", "Build pipelines", "python")

	_, seekerToken := ts.token(t, middleware.RoleSeeker)
	w := ts.do(http.MethodPost, "/recommendations/index", seekerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403 for seeker token, got %d", w.Code)
	}

	_, employerToken := ts.token(t, middleware.RoleEmployer)
	w = ts.do(http.MethodPost, "/recommendations/index", employerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Index   engine.Stats   `json:"index"`
		Catalog map[string]int `json:"catalog"`
	}
	decodeJSON(t, w, &resp)
	if resp.Index.Jobs != 2 {
		t.Errorf("expected 2 indexed jobs, got %d", resp.Index.Jobs)
	}
	if resp.Catalog["active"] != 2 {
		t.Errorf("expected 2 active jobs in catalog counts, got %d", resp.Catalog["active"])
	}
	if !ts.engine.Ready() {
		t.Error("expected engine to be ready after reindex")
	}
}

func TestRecommendations_AuthRequired(t *testing.T) {
	ts := newTestServer()

	w := ts.do(http.MethodGet, "/recommendations", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 without token, got %d", w.Code)
	}

	w = ts.do(http.MethodGet, "/recommendations", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for malformed token, got %d", w.Code)
	}

	_, employerToken := ts.token(t, middleware.RoleEmployer)
	w = ts.do(http.MethodGet, "/recommendations", employerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403 for employer token, got %d", w.Code)
	}
}

func TestRecommendations_ProfileNotFound(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-1", "Backend Engineer", "Build Go services", "go")
	ts.reindex(t)

	_, token := ts.token(t, middleware.RoleSeeker)
	w := ts.do(http.MethodGet, "/recommendations", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 without stored profile, got %d", w.Code)
	}
}

func TestRecommendations_WithProfile(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-py", "Python Developer", "Build Python data pipelines with FastAPI", "python", "fastapi")
	ts.seedJob("job-jv", "Java Developer", "Build Spring services", "java")
	ts.reindex(t)

	userID, token := ts.token(t, middleware.RoleSeeker)
	ts.mock.profiles[userID.String()] = &types.SeekerProfile{
		UserID: userID.String(),
		Skills: []string{"python", "fastapi"},
		Titles: []string{"Python Developer"},
	}

	w := ts.do(http.MethodGet, "/recommendations", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []struct {
			JobID        string `json:"job_id"`
			Explanations []struct {
				Type string `json:"type"`
			} `json:"explanations"`
		} `json:"results"`
		Degraded bool `json:"degraded"`
	}
	decodeJSON(t, w, &resp)

	if len(resp.Results) == 0 {
		t.Fatal("expected results")
	}
	if resp.Results[0].JobID != "job-py" {
		t.Errorf("expected job-py ranked first, got %s", resp.Results[0].JobID)
	}
	if len(resp.Results[0].Explanations) == 0 {
		t.Error("expected explanations on top result")
	}
	if resp.Degraded {
		t.Error("expected non-degraded response")
	}
}

func TestRecommendations_QueryWithoutProfile(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-py", "Python Developer", "Build Python data pipelines", "python")
	ts.reindex(t)

	_, token := ts.token(t, middleware.RoleSeeker)
	w := ts.do(http.MethodGet, "/recommendations?q=python+pipelines", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 with free-text query, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []struct {
			JobID string `json:"job_id"`
		} `json:"results"`
	}
	decodeJSON(t, w, &resp)
	if len(resp.Results) == 0 {
		t.Error("expected results for free-text query")
	}
}

func TestRecommendations_BeforeIndexBuilt(t *testing.T) {
	ts := newTestServer()
	_, token := ts.token(t, middleware.RoleSeeker)

	w := ts.do(http.MethodGet, "/recommendations?q=python", token, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 before reindex, got %d", w.Code)
	}
}

func TestSeekerProfileRoundTrip(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-py", "Python Developer", "Build Python data pipelines", "python")
	ts.reindex(t)

	_, token := ts.token(t, middleware.RoleSeeker)

	// No profile stored yet
	w := ts.do(http.MethodGet, "/recommendations/profile", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 before upload, got %d", w.Code)
	}

	// Empty profile is rejected
	w = ts.do(http.MethodPut, "/recommendations/profile", token, []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for empty profile, got %d", w.Code)
	}

	w = ts.do(http.MethodPut, "/recommendations/profile", token,
		[]byte(`{"skills": ["python"], "titles": ["Python Developer"]}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 on upload, got %d: %s", w.Code, w.Body.String())
	}

	w = ts.do(http.MethodGet, "/recommendations/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 after upload, got %d", w.Code)
	}

	var profile types.SeekerProfile
	decodeJSON(t, w, &profile)
	if len(profile.Skills) != 1 || profile.Skills[0] != "python" {
		t.Errorf("expected stored skills, got %+v", profile.Skills)
	}

	// The stored profile now drives recommendations
	w = ts.do(http.MethodGet, "/recommendations", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for recommendations, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer()
	ts.seedJob("job-1", "Backend Engineer", "Build Go services", "go")
	ts.reindex(t)

	registerBody := []byte(`{
		"name": "Jordan",
		"email": "jordan@example.com",
		"password": "correct-horse",
		"role": "employer"
	}`)

	w := ts.do(http.MethodPost, "/auth/register", "", registerBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var registered types.LoginResponse
	decodeJSON(t, w, &registered)
	if registered.Token == "" {
		t.Fatal("expected token in register response")
	}
	if registered.User == nil || registered.User.Role != "employer" {
		t.Fatalf("expected employer user in response, got %+v", registered.User)
	}

	// Duplicate email is rejected
	w = ts.do(http.MethodPost, "/auth/register", "", registerBody)
	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409 for duplicate email, got %d", w.Code)
	}

	// The issued token unlocks the employer surface
	w = ts.do(http.MethodPost, "/recommendations/index", registered.Token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 using registered token, got %d", w.Code)
	}

	// Login with the same credentials
	w = ts.do(http.MethodPost, "/auth/login", "",
		[]byte(`{"email": "jordan@example.com", "password": "correct-horse"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 on login, got %d: %s", w.Code, w.Body.String())
	}

	var loggedIn types.LoginResponse
	decodeJSON(t, w, &loggedIn)
	if loggedIn.Token == "" {
		t.Error("expected token in login response")
	}

	// Wrong password and unknown email share one generic 401
	w = ts.do(http.MethodPost, "/auth/login", "",
		[]byte(`{"email": "jordan@example.com", "password": "wrong"}`))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for wrong password, got %d", w.Code)
	}
	wrongPassword := w.Body.String()

	w = ts.do(http.MethodPost, "/auth/login", "",
		[]byte(`{"email": "nobody@example.com", "password": "correct-horse"}`))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for unknown email, got %d", w.Code)
	}
	if w.Body.String() != wrongPassword {
		t.Error("expected identical error body for wrong password and unknown email")
	}
}

func TestRegister_Validation(t *testing.T) {
	ts := newTestServer()

	cases := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"name": `},
		{"missing email", `{"name": "x", "password": "longenough", "role": "seeker"}`},
		{"short password", `{"name": "x", "email": "x@example.com", "password": "short", "role": "seeker"}`},
		{"bad role", `{"name": "x", "email": "x@example.com", "password": "longenough", "role": "admin"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(http.MethodPost, "/auth/register", "", []byte(tc.body))
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestCORSPreflightAllowed(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/jobs/search", nil)
	w := httptest.NewRecorder()
	ts.httpServer.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS headers on preflight response")
	}
}
