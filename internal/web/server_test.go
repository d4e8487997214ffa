package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/config"
	"github.com/dmitrijs2005/mindjournal/internal/controller"
	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/dmitrijs2005/mindjournal/internal/persistence"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/repotest"
	"github.com/dmitrijs2005/mindjournal/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReflector struct {
	answer string
	err    error
	calls  int
}

func (r *stubReflector) GenerateReflection(ctx context.Context, text string) (string, error) {
	r.calls++
	if strings.TrimSpace(text) == "" {
		return "", common.ErrValidation
	}
	return r.answer, r.err
}

type stubArchive struct {
	url string
	err error
}

func (a *stubArchive) Export(ctx context.Context, userID string) ([]byte, error) {
	return []byte(`{"user_id":"` + userID + `"}`), nil
}

func (a *stubArchive) Upload(ctx context.Context, userID string) (string, error) {
	return a.url, a.err
}

type testEnv struct {
	srv        *Server
	reflector  *stubReflector
	archive    *stubArchive
	workspaces *controller.Workspaces
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.SessionTTL = time.Hour

	log := logging.Nop()
	store := persistence.NewStore(repomanager.NewBadgerRepositoryManager(repotest.Badger(t)), log)
	authSvc := services.NewAuthService(store, cfg, log)
	entrySvc := services.NewEntryService(store, log)

	refl := &stubReflector{answer: "Be gentle with yourself."}
	arch := &stubArchive{url: "https://bucket.example/archive.json?sig=1"}
	ws := controller.NewWorkspaces(authSvc, func(userID string) *controller.Dashboard {
		return controller.NewDashboard(userID, entrySvc, refl, log)
	})
	t.Cleanup(ws.Close)

	srv := NewServer(Deps{
		Auth:       authSvc,
		Entries:    entrySvc,
		Reflector:  refl,
		Archive:    arch,
		Workspaces: ws,
		Config:     cfg,
		Logger:     log,
	})
	return &testEnv{srv: srv, reflector: refl, archive: arch, workspaces: ws}
}

func (e *testEnv) api(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) form(t *testing.T, path string, cookie *http.Cookie, values url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func signUpAPI(t *testing.T, e *testEnv, email string) sessionResponse {
	t.Helper()
	rec := e.api(t, http.MethodPost, "/api/v1/auth/signup", "", signUpRequest{Name: "Jane", Email: email, Password: "pw123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out sessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)

	rec := e.get(t, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.get(t, "/health", nil)

	rec := e.get(t, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "journal_http_requests_total")
}

func TestAPI_AuthFlow(t *testing.T) {
	e := newTestEnv(t)

	sess := signUpAPI(t, e, "jane@x.com")
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "Jane", sess.User.Name)

	rec := e.api(t, http.MethodPost, "/api/v1/auth/signup", "", signUpRequest{Name: "Jane", Email: "JANE@x.com", Password: "pw"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.api(t, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Email: "jane@x.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())

	rec = e.api(t, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Email: "jane@x.com", Password: "pw123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login sessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))
	assert.Equal(t, sess.User.ID, login.User.ID)

	rec = e.api(t, http.MethodGet, "/api/v1/auth/session", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.api(t, http.MethodPost, "/api/v1/auth/logout", login.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.api(t, http.MethodGet, "/api/v1/auth/session", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_Validation(t *testing.T) {
	e := newTestEnv(t)

	rec := e.api(t, http.MethodPost, "/api/v1/auth/signup", "", signUpRequest{Email: "not-an-email", Password: "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "email")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	e.srv.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_EntriesRequireSession(t *testing.T) {
	e := newTestEnv(t)

	rec := e.api(t, http.MethodGet, "/api/v1/entries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.api(t, http.MethodGet, "/api/v1/entries", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_EntryLifecycle(t *testing.T) {
	e := newTestEnv(t)
	jane := signUpAPI(t, e, "jane@x.com")
	bob := signUpAPI(t, e, "bob@x.com")

	rec := e.api(t, http.MethodPost, "/api/v1/entries", jane.Token, entryRequest{Date: "2024-01-01", Title: "Day 1", Content: "Felt okay", Tags: []string{"mood"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.JournalEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)

	rec = e.api(t, http.MethodPut, "/api/v1/entries/"+created.ID, jane.Token, entryRequest{Date: "2024-01-01", Title: "Day 1 (edited)", Content: "Felt okay"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.JournalEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	rec = e.api(t, http.MethodPut, "/api/v1/entries/"+created.ID, bob.Token, entryRequest{Date: "2024-01-01", Title: "mine", Content: "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.api(t, http.MethodGet, "/api/v1/entries", bob.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = e.api(t, http.MethodGet, "/api/v1/entries", jane.Token, nil)
	var list []models.JournalEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Day 1 (edited)", list[0].Title)

	rec = e.api(t, http.MethodPost, "/api/v1/entries", jane.Token, entryRequest{Date: "2024-01-01", Title: " ", Content: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.api(t, http.MethodDelete, "/api/v1/entries/"+created.ID, jane.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = e.api(t, http.MethodDelete, "/api/v1/entries/"+created.ID, jane.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAPI_Reflections(t *testing.T) {
	e := newTestEnv(t)
	jane := signUpAPI(t, e, "jane@x.com")

	rec := e.api(t, http.MethodPost, "/api/v1/reflections", jane.Token, reflectionRequest{Text: "Felt okay"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reflection":"Be gentle with yourself."}`, rec.Body.String())

	rec = e.api(t, http.MethodPost, "/api/v1/reflections", jane.Token, reflectionRequest{Text: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, e.reflector.calls)

	e.reflector.err = common.ErrConfiguration
	rec = e.api(t, http.MethodPost, "/api/v1/reflections", jane.Token, reflectionRequest{Text: "Felt okay"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAPI_CORSPreflight(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/entries", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPages_RedirectWithoutSession(t *testing.T) {
	e := newTestEnv(t)

	rec := e.get(t, "/", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = e.get(t, "/login", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome back")

	rec = e.get(t, "/login?mode=signup", nil)
	assert.Contains(t, rec.Body.String(), "Create an account")
}

func TestPages_SignUpErrorsRenderInline(t *testing.T) {
	e := newTestEnv(t)

	rec := e.form(t, "/signup", nil, url.Values{"email": {"jane@x.com"}, "password": {"pw"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name is required")

	rec = e.form(t, "/login", nil, url.Values{"email": {"nobody@x.com"}, "password": {"pw"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestPages_JournalFlow(t *testing.T) {
	e := newTestEnv(t)

	rec := e.form(t, "/signup", nil, url.Values{"name": {"Jane"}, "email": {"jane@x.com"}, "password": {"pw123"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := sessionCookie(t, rec)
	assert.Equal(t, 1, e.workspaces.Len())

	rec = e.get(t, "/", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No entries yet")

	rec = e.form(t, "/entries/new", cookie, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	rec = e.get(t, "/", cookie)
	assert.Contains(t, rec.Body.String(), "New Entry")

	e.form(t, "/editor/save", cookie, url.Values{"date": {"2024-01-01"}, "title": {""}, "content": {"x"}})
	rec = e.get(t, "/", cookie)
	assert.Contains(t, rec.Body.String(), "Please provide both a title and content.")

	e.form(t, "/editor/reflect", cookie, url.Values{"date": {"2024-01-01"}, "title": {"Day 1"}, "content": {"Felt okay"}})
	rec = e.get(t, "/", cookie)
	assert.Contains(t, rec.Body.String(), "Be gentle with yourself.")

	e.form(t, "/editor/save", cookie, url.Values{"date": {"2024-01-01"}, "title": {"Day 1"}, "content": {"Felt okay"}, "tags": {"calm, work"}})
	rec = e.get(t, "/", cookie)
	body := rec.Body.String()
	assert.Contains(t, body, "Monday, January 1, 2024")
	assert.Contains(t, body, "Day 1")
	assert.Contains(t, body, "1 entry recorded")

	rec = e.get(t, "/export", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	rec = e.form(t, "/export/archive", cookie, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, e.archive.url, rec.Header().Get("Location"))

	rec = e.form(t, "/logout", cookie, nil)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, 0, e.workspaces.Len())

	rec = e.get(t, "/", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestPages_ReloadShowsEntriesWrittenElsewhere(t *testing.T) {
	e := newTestEnv(t)

	rec := e.form(t, "/signup", nil, url.Values{"name": {"Jane"}, "email": {"jane@x.com"}, "password": {"pw123"}})
	cookie := sessionCookie(t, rec)

	rec = e.get(t, "/", cookie)
	assert.Contains(t, rec.Body.String(), "No entries yet")

	rec = e.api(t, http.MethodPost, "/api/v1/entries", cookie.Value, entryRequest{Date: "2024-01-01", Title: "Day 1", Content: "Felt okay"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.get(t, "/", cookie)
	body := rec.Body.String()
	assert.Contains(t, body, "Day 1")
	assert.Contains(t, body, "1 entry recorded")

	// an open draft survives a reload
	e.form(t, "/entries/new", cookie, nil)
	e.api(t, http.MethodPost, "/api/v1/entries", cookie.Value, entryRequest{Date: "2024-01-02", Title: "Day 2", Content: "Busy"})
	rec = e.get(t, "/", cookie)
	assert.Contains(t, rec.Body.String(), "New Entry")
}

func TestPages_ArchiveNotConfigured(t *testing.T) {
	e := newTestEnv(t)
	e.archive.err = common.ErrConfiguration

	rec := e.form(t, "/signup", nil, url.Values{"name": {"Jane"}, "email": {"jane@x.com"}, "password": {"pw123"}})
	cookie := sessionCookie(t, rec)

	rec = e.form(t, "/export/archive", cookie, nil)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = e.get(t, "/", cookie)
	assert.Contains(t, rec.Body.String(), "Archive storage is not configured.")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{common.ErrValidation, http.StatusBadRequest},
		{common.ErrInvalidCredentials, http.StatusUnauthorized},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{common.ErrForbidden, http.StatusForbidden},
		{common.ErrorNotFound, http.StatusNotFound},
		{common.ErrDuplicateAccount, http.StatusConflict},
		{common.ErrBusy, http.StatusTooManyRequests},
		{common.ErrConfiguration, http.StatusServiceUnavailable},
		{common.ErrServiceUnavailable, http.StatusBadGateway},
		{common.ErrPersistence, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
