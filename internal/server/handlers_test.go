package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/benedikt-weyer/streamline-scheduler/internal/auth"
	"github.com/benedikt-weyer/streamline-scheduler/internal/config"
	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
	"github.com/benedikt-weyer/streamline-scheduler/internal/realtime"
)

const testJWTSecret = "test-secret-0123456789abcdefghijklmnop"

// --- In-memory fakes ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, email, passwordHash string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return nil, domain.ErrEmailTaken
		}
	}
	user := &domain.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*domain.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[uuid.UUID]*domain.Project)}
}

func (f *fakeProjectRepo) List(_ context.Context, userID uuid.UUID, filter domain.ProjectFilter) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Project{}
	for _, p := range f.projects {
		if p.UserID != userID {
			continue
		}
		if filter.RootsOnly && p.ParentID != nil {
			continue
		}
		if filter.ParentID != nil && (p.ParentID == nil || *p.ParentID != *filter.ParentID) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.projects[id]; ok && p.UserID == userID {
		copied := *p
		return &copied, nil
	}
	return nil, domain.ErrProjectNotFound
}

func (f *fakeProjectRepo) Create(_ context.Context, project *domain.Project) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *project
	created.ID = uuid.New()
	f.projects[created.ID] = &created
	copied := created
	return &copied, nil
}

func (f *fakeProjectRepo) Update(_ context.Context, project *domain.Project) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.projects[project.ID]
	if !ok || existing.UserID != project.UserID {
		return nil, domain.ErrProjectNotFound
	}
	updated := *project
	f.projects[project.ID] = &updated
	copied := updated
	return &copied, nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.projects[id]; ok && p.UserID == userID {
		delete(f.projects, id)
		return nil
	}
	return domain.ErrProjectNotFound
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[uuid.UUID]*domain.UserSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[uuid.UUID]*domain.UserSettings)}
}

func (f *fakeSettingsRepo) Get(_ context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.settings[userID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrSettingsNotFound
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, settings *domain.UserSettings) (*domain.UserSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *settings
	f.settings[settings.UserID] = &copied
	out := copied
	return &out, nil
}

// --- Test server ---

type testEnv struct {
	server   *Server
	users    *fakeUserRepo
	projects *fakeProjectRepo
	settings *fakeSettingsRepo
	registry *realtime.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	settings := newFakeSettingsRepo()
	registry := realtime.NewRegistry(nil)

	cfg := &config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      testJWTSecret,
		JWTExpiryHours: 24,
	}

	authSvc := auth.NewService(users, cfg.JWTSecret, cfg.JWTExpiryHours, clockwork.NewRealClock())

	srv := NewServer(cfg, Dependencies{
		Auth: authSvc,
		Repos: Repositories{
			Projects: projects,
			Settings: settings,
		},
		Registry:     registry,
		Router:       realtime.NewRouter(registry, nil),
		PostgresPing: func(context.Context) error { return nil },
	})

	return &testEnv{
		server:   srv,
		users:    users,
		projects: projects,
		settings: settings,
		registry: registry,
	}
}

// doJSON runs a request through the full middleware chain.
func (env *testEnv) doJSON(t *testing.T, method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	env.server.echo.ServeHTTP(rec, req)
	return rec
}

func doRequest(srv *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

// registerUser creates an account through the API and returns its token and ID.
func (env *testEnv) registerUser(t *testing.T, email string) (string, uuid.UUID) {
	t.Helper()

	rec := env.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data tokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data.AccessToken, resp.Data.User.ID
}
