// Package auth issues and checks session tokens after the identity provider
// has accepted a user's credentials.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	cookieName      = "mealmuse-session"
	tokenKey        = "token"
	issuer          = "mealmuse"
	maxRevokedCache = 10000
)

// ErrRevoked is returned for a token that was signed out.
var ErrRevoked = errors.New("session token revoked")

// Identity is the caller as seen by one request.
type Identity struct {
	UserID   string `json:"uid,omitempty"`
	Email    string `json:"email,omitempty"`
	SignedIn bool   `json:"signedIn"`
}

// Claims carried by a session token. Subject is the provider UID.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Sessions issues HS256 session tokens, keeps them in a cookie and
// remembers signed-out token IDs until they would have expired anyway.
type Sessions struct {
	secret  []byte
	ttl     time.Duration
	store   *sessions.CookieStore
	revoked *expirable.LRU[string, struct{}]
	now     func() time.Time

	mu   sync.RWMutex
	subs map[int]func(Identity)
	next int
}

// NewSessions creates a Sessions. secure marks the cookie HTTPS-only.
func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(int(ttl.Seconds()))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode

	return &Sessions{
		secret:  []byte(secret),
		ttl:     ttl,
		store:   store,
		revoked: expirable.NewLRU[string, struct{}](maxRevokedCache, nil, ttl),
		now:     time.Now,
		subs:    make(map[int]func(Identity)),
	}
}

// Issue signs a token for the given account.
func (s *Sessions) Issue(uid, email string) (string, error) {
	now := s.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   uid,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// Verify parses a token and checks signature, expiry and revocation.
func (s *Sessions) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if s.revoked.Contains(claims.ID) {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Revoke makes a valid token unusable. Invalid tokens are ignored.
func (s *Sessions) Revoke(token string) {
	claims, err := s.Verify(token)
	if err != nil {
		return
	}
	s.revoked.Add(claims.ID, struct{}{})
	s.publish(Identity{})
}

// Identify reads the token from the Authorization header or, failing that,
// the session cookie. A missing or bad token yields a signed-out Identity.
func (s *Sessions) Identify(r *http.Request) Identity {
	token := s.tokenFrom(r)
	if token == "" {
		return Identity{}
	}
	claims, err := s.Verify(token)
	if err != nil {
		return Identity{}
	}
	return Identity{UserID: claims.Subject, Email: claims.Email, SignedIn: true}
}

// SignIn issues a token, stores it in the session cookie and returns it.
func (s *Sessions) SignIn(w http.ResponseWriter, r *http.Request, uid, email string) (string, error) {
	token, err := s.Issue(uid, email)
	if err != nil {
		return "", err
	}

	sess, _ := s.store.Get(r, cookieName)
	sess.Values[tokenKey] = token
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	s.publish(Identity{UserID: uid, Email: email, SignedIn: true})
	return token, nil
}

// SignOut revokes the caller's token and expires the cookie.
func (s *Sessions) SignOut(w http.ResponseWriter, r *http.Request) error {
	if token := s.tokenFrom(r); token != "" {
		s.Revoke(token)
	}

	sess, _ := s.store.Get(r, cookieName)
	delete(sess.Values, tokenKey)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Subscribe registers fn for session changes: sign-in publishes the new
// identity, sign-out a signed-out one. The returned func unsubscribes.
func (s *Sessions) Subscribe(fn func(Identity)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Sessions) publish(id Identity) {
	s.mu.RLock()
	subs := make([]func(Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(id)
	}
}

func (s *Sessions) tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	sess, err := s.store.Get(r, cookieName)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[tokenKey].(string)
	return token
}
