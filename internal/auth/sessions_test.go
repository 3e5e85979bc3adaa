package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_IssueAndVerify(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)

	token, err := s.Issue("uid-1", "cook@example.com")
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.Subject)
	assert.Equal(t, "cook@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)

	_, err = NewSessions("other-secret", time.Hour, false).Verify(token)
	assert.Error(t, err)
}

func TestSessions_Expired(t *testing.T) {
	s := NewSessions("secret", time.Minute, false)
	issued := time.Now()
	s.now = func() time.Time { return issued }

	token, err := s.Issue("uid-1", "cook@example.com")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = s.Verify(token)
	assert.Error(t, err)
}

func TestSessions_RevokeAndSubscribe(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)

	var seen []Identity
	unsubscribe := s.Subscribe(func(id Identity) { seen = append(seen, id) })

	rec := httptest.NewRecorder()
	token, err := s.SignIn(rec, httptest.NewRequest(http.MethodPost, "/signin", nil), "uid-1", "cook@example.com")
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.True(t, seen[0].SignedIn)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, Identity{UserID: "uid-1", Email: "cook@example.com", SignedIn: true}, s.Identify(req))

	require.NoError(t, s.SignOut(httptest.NewRecorder(), req))
	require.Len(t, seen, 2)
	assert.False(t, seen[1].SignedIn)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrRevoked)
	assert.False(t, s.Identify(req).SignedIn)

	unsubscribe()
	other, err := s.Issue("uid-2", "baker@example.com")
	require.NoError(t, err)
	s.Revoke(other)
	assert.Len(t, seen, 2)
}

func TestSessions_CookieRoundTrip(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)

	rec := httptest.NewRecorder()
	_, err := s.SignIn(rec, httptest.NewRequest(http.MethodPost, "/signin", nil), "uid-1", "cook@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	assert.True(t, s.Identify(req).SignedIn)
}

func TestMiddleware(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)
	token, err := s.Issue("uid-1", "cook@example.com")
	require.NoError(t, err)

	e := echo.New()
	var got Identity
	h := Middleware(s)(func(c echo.Context) error {
		got = FromContext(c)
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, h(e.NewContext(req, httptest.NewRecorder())))
	assert.False(t, got.SignedIn)

	req.Header.Set("Authorization", "Bearer "+token)
	require.NoError(t, h(e.NewContext(req, httptest.NewRecorder())))
	assert.Equal(t, "uid-1", got.UserID)
}
