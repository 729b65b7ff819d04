package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/example/userboard/internal/account"
	"github.com/example/userboard/internal/domain/user"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]user.User
}

func newMemRepo() *memRepo { return &memRepo{byID: map[int64]user.User{}} }

func (r *memRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return user.User{}, user.ErrDuplicateUsername
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.byID[u.ID] = u
	return u, nil
}

func (r *memRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *memRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *memRepo) UpdateAttributes(_ context.Context, id int64, attrInt int64, attrStr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.AttributeInt = attrInt
	u.AttributeStr = attrStr
	r.byID[id] = u
	return nil
}

type testEnv struct {
	repo     *memRepo
	accounts *account.Service
	sessions *SessionManager
	handler  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newMemRepo()
	accounts := account.NewService(repo, zerolog.Nop())
	sessions := NewSessionManager(make([]byte, 32), make([]byte, 32))
	srv, err := NewServer(accounts, sessions, zerolog.Nop())
	require.NoError(t, err)
	return &testEnv{repo: repo, accounts: accounts, sessions: sessions, handler: srv.Routes()}
}

func (e *testEnv) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestDashboardRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestStaleSessionRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	// A session whose user id no longer resolves.
	setRec := httptest.NewRecorder()
	setReq := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, env.sessions.SetUserID(setRec, setReq, 99))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	res := setRec.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/register", url.Values{"username": {"alice"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username and password are required")
}

func TestRegisterDuplicateRerenders(t *testing.T) {
	env := newTestEnv(t)
	form := url.Values{"username": {"alice"}, "password": {"pw1"}}

	rec := env.do(t, http.MethodPost, "/register", form)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = env.do(t, http.MethodPost, "/register", url.Values{"username": {"alice"}, "password": {"pw2"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already exists")
}

func TestLoginFailureIsConstantShaped(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.accounts.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	wrongPw := env.do(t, http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"nope"}})
	unknown := env.do(t, http.MethodPost, "/login", url.Values{"username": {"mallory"}, "password": {"nope"}})

	assert.Equal(t, http.StatusOK, wrongPw.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Contains(t, wrongPw.Body.String(), "Invalid username or password")
	// Identical page either way; nothing reveals whether the username exists.
	assert.Equal(t, wrongPw.Body.String(), unknown.Body.String())
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	u, err := env.accounts.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"pw1"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	res := rec.Result()
	defer res.Body.Close()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range res.Cookies() {
		req.AddCookie(c)
	}
	uid, ok := env.sessions.UserID(req)
	require.True(t, ok)
	assert.Equal(t, u.ID, uid)
}

func TestLogoutWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/logout", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// TestFullScenario walks the register → login → update → logout flow
// through a real HTTP client with a cookie jar.
func TestFullScenario(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.handler)
	defer ts.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	post := func(path string, form url.Values) (*http.Response, string) {
		t.Helper()
		resp, err := client.PostForm(ts.URL+path, form)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()
		return resp, string(body)
	}
	get := func(path string) (*http.Response, string) {
		t.Helper()
		resp, err := client.Get(ts.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()
		return resp, string(body)
	}

	resp, body := post("/register", url.Values{"username": {"alice"}, "password": {"pw1"}})
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Registration successful")

	resp, body = post("/login", url.Values{"username": {"alice"}, "password": {"pw1"}})
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)
	assert.Contains(t, body, "Welcome, alice")
	assert.Contains(t, body, "Login successful")

	resp, body = post("/dashboard", url.Values{"attribute_int": {"42"}})
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)
	assert.Contains(t, body, "Profile updated")
	assert.Contains(t, body, "42")

	stored, err := env.repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 42, stored.AttributeInt)
	assert.Empty(t, stored.AttributeStr)

	// Invalid integer: nothing committed, dashboard re-renders with an error.
	resp, body = post("/dashboard", url.Values{"attribute_int": {"forty-two"}, "attribute_str": {"oops"}})
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)
	assert.Contains(t, body, "attribute_int must be a whole number")
	stored, err = env.repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 42, stored.AttributeInt)
	assert.Empty(t, stored.AttributeStr)

	resp, body = get("/logout")
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, "You have been logged out")

	resp, _ = get("/dashboard")
	assert.Equal(t, "/login", resp.Request.URL.Path)
}
