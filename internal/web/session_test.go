package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions() *SessionManager {
	return NewSessionManager(make([]byte, 32), make([]byte, 32))
}

func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := rec.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestSessions()

	rec := httptest.NewRecorder()
	require.NoError(t, s.SetUserID(rec, httptest.NewRequest(http.MethodGet, "/", nil), 7))

	uid, ok := s.UserID(requestWithCookies(rec))
	assert.True(t, ok)
	assert.EqualValues(t, 7, uid)
}

func TestSessionMissingCookie(t *testing.T) {
	s := newTestSessions()

	_, ok := s.UserID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	s := newTestSessions()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "not-a-valid-payload"})

	_, ok := s.UserID(req)
	assert.False(t, ok)
}

func TestSessionRejectsForeignKeys(t *testing.T) {
	// A cookie minted under different keys must not decode.
	minter := newTestSessions()
	other := NewSessionManager([]byte("0123456789abcdef0123456789abcdef"), []byte("fedcba9876543210fedcba9876543210"))

	rec := httptest.NewRecorder()
	require.NoError(t, minter.SetUserID(rec, httptest.NewRequest(http.MethodGet, "/", nil), 7))

	_, ok := other.UserID(requestWithCookies(rec))
	assert.False(t, ok)
}

func TestSessionClear(t *testing.T) {
	s := newTestSessions()

	rec := httptest.NewRecorder()
	s.Clear(rec)

	res := rec.Result()
	defer res.Body.Close()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
