package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealmuse/internal/config"
	"mealmuse/internal/shared"
)

// fakeToolkit serves accounts:signUp and accounts:signInWithPassword and
// answers with the provider error in errMessage when set.
func fakeToolkit(t *testing.T, errMessage string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body struct {
			Email             string `json:"email"`
			Password          string `json:"password"`
			ReturnSecureToken bool   `json:"returnSecureToken"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.ReturnSecureToken)

		w.Header().Set("Content-Type", "application/json")
		if errMessage != "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 400, "message": errMessage},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"localId": "uid-123",
			"email":   body.Email,
			"idToken": "secret",
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestService(baseURL string) *Service {
	cfg := &config.Config{
		IdentityAPIKey:  "test-key",
		IdentityBaseURL: baseURL,
	}
	return NewService(NewToolkitClient(cfg), zerolog.Nop())
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		srv, _ := fakeToolkit(t, "")
		acct, err := newTestService(srv.URL).CreateUser(ctx, "cook@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, Account{UID: "uid-123", Email: "cook@example.com"}, acct)
	})

	cases := []struct {
		name     string
		provider string
		code     string
		message  string
	}{
		{"EmailExists", "EMAIL_EXISTS", "EMAIL_EXISTS", "A user with this email address already exists."},
		{"WeakPassword", "WEAK_PASSWORD : Password should be at least 6 characters", "WEAK_PASSWORD", "Password should be at least 6 characters"},
		{"Other", "OPERATION_NOT_ALLOWED : Password sign-in is disabled for this project.", "OPERATION_NOT_ALLOWED", "An unexpected error occurred while creating the user."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := fakeToolkit(t, tc.provider)
			_, err := newTestService(srv.URL).CreateUser(ctx, "cook@example.com", "hunter22")

			var ierr *shared.IdentityError
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, tc.code, ierr.Code)
			assert.Equal(t, tc.message, ierr.Message)
		})
	}

	t.Run("InvalidInputMakesNoCall", func(t *testing.T) {
		srv, calls := fakeToolkit(t, "")
		_, err := newTestService(srv.URL).CreateUser(ctx, "not-an-email", "123")

		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Violations, 2)
		assert.Equal(t, 0, *calls)
	})

	t.Run("MissingKey", func(t *testing.T) {
		svc := NewService(NewToolkitClient(&config.Config{IdentityBaseURL: "http://127.0.0.1:1"}), zerolog.Nop())
		_, err := svc.CreateUser(ctx, "cook@example.com", "hunter22")

		var ierr *shared.IdentityError
		require.True(t, errors.As(err, &ierr))
		assert.Equal(t, "An unexpected error occurred while creating the user.", ierr.Message)
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		srv, _ := fakeToolkit(t, "")
		acct, err := newTestService(srv.URL).SignIn(ctx, "cook@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, "uid-123", acct.UID)
	})

	for _, code := range []string{"EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS"} {
		t.Run(code, func(t *testing.T) {
			srv, _ := fakeToolkit(t, code)
			_, err := newTestService(srv.URL).SignIn(ctx, "cook@example.com", "hunter22")
			assert.EqualError(t, err, "Invalid email or password. Please try again.")
		})
	}

	t.Run("Other", func(t *testing.T) {
		srv, _ := fakeToolkit(t, "USER_DISABLED : The user account has been disabled by an administrator.")
		_, err := newTestService(srv.URL).SignIn(ctx, "cook@example.com", "hunter22")
		assert.EqualError(t, err, "There was a problem with signing you in.")
	})
}
