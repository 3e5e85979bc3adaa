// Package identity creates accounts and signs users in against a managed
// identity provider. Credentials are passed through and never stored.
package identity

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"mealmuse/internal/schema"
	"mealmuse/internal/shared"
)

// Account is a provider-side user.
type Account struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Credentials is the sign-up and sign-in form.
type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

func (Credentials) ValidationMessage(field, rule string) string {
	switch field {
	case "email":
		return "Please enter a valid email address."
	case "password":
		return "Password must be at least 6 characters."
	}
	return ""
}

const (
	msgEmailExists       = "A user with this email address already exists."
	msgCreateUnexpected  = "An unexpected error occurred while creating the user."
	msgInvalidCredential = "Invalid email or password. Please try again."
	msgSignInProblem     = "There was a problem with signing you in."
)

// Service maps provider outcomes to user-facing results.
type Service struct {
	provider Provider
	log      zerolog.Logger
}

// NewService creates a new Service.
func NewService(p Provider, log zerolog.Logger) *Service {
	return &Service{provider: p, log: log}
}

// CreateUser registers a new account. Provider failures come back as
// *shared.IdentityError with a message safe to show.
func (s *Service) CreateUser(ctx context.Context, email, password string) (Account, error) {
	if err := schema.Validate(Credentials{Email: email, Password: password}); err != nil {
		return Account{}, err
	}

	acct, err := s.provider.SignUp(ctx, email, password)
	if err == nil {
		return acct, nil
	}

	s.log.Warn().Err(err).Msg("sign-up failed")
	var perr *ProviderError
	if !errors.As(err, &perr) {
		return Account{}, &shared.IdentityError{Message: msgCreateUnexpected}
	}
	switch perr.Code {
	case "EMAIL_EXISTS":
		return Account{}, &shared.IdentityError{Code: perr.Code, Message: msgEmailExists}
	case "WEAK_PASSWORD":
		msg := perr.Message
		if msg == "" {
			msg = "Password should be at least 6 characters"
		}
		return Account{}, &shared.IdentityError{Code: perr.Code, Message: msg}
	default:
		return Account{}, &shared.IdentityError{Code: perr.Code, Message: msgCreateUnexpected}
	}
}

// SignIn checks email and password with the provider.
func (s *Service) SignIn(ctx context.Context, email, password string) (Account, error) {
	if err := schema.Validate(Credentials{Email: email, Password: password}); err != nil {
		return Account{}, err
	}

	acct, err := s.provider.SignInWithPassword(ctx, email, password)
	if err == nil {
		return acct, nil
	}

	s.log.Warn().Err(err).Msg("sign-in failed")
	var perr *ProviderError
	if !errors.As(err, &perr) {
		return Account{}, &shared.IdentityError{Message: msgSignInProblem}
	}
	switch perr.Code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return Account{}, &shared.IdentityError{Code: perr.Code, Message: msgInvalidCredential}
	default:
		return Account{}, &shared.IdentityError{Code: perr.Code, Message: msgSignInProblem}
	}
}
