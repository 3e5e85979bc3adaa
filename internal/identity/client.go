package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mealmuse/internal/config"
)

// ProviderError is an error reported by the identity provider, e.g.
// "WEAK_PASSWORD : Password should be at least 6 characters".
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("identity provider error: status=%d code=%s", e.Status, e.Code)
	}
	return fmt.Sprintf("identity provider error: status=%d code=%s message=%s", e.Status, e.Code, e.Message)
}

// Provider is the subset of the identity provider the app uses.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (Account, error)
	SignInWithPassword(ctx context.Context, email, password string) (Account, error)
}

const requestTimeout = 15 * time.Second

// toolkitClient talks to the Identity Toolkit REST API (or its emulator).
type toolkitClient struct {
	apiKey     string
	projectID  string
	baseURL    string
	httpClient *http.Client
}

// NewToolkitClient creates an Identity Toolkit REST client.
func NewToolkitClient(cfg *config.Config) Provider {
	return &toolkitClient{
		apiKey:     cfg.IdentityAPIKey,
		projectID:  cfg.IdentityProjectID,
		baseURL:    strings.TrimRight(cfg.IdentityBaseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (c *toolkitClient) SignUp(ctx context.Context, email, password string) (Account, error) {
	return c.call(ctx, "accounts:signUp", email, password)
}

func (c *toolkitClient) SignInWithPassword(ctx context.Context, email, password string) (Account, error) {
	return c.call(ctx, "accounts:signInWithPassword", email, password)
}

func (c *toolkitClient) call(ctx context.Context, method, email, password string) (Account, error) {
	if c.apiKey == "" {
		return Account{}, errors.New("IDENTITY_API_KEY is not configured")
	}

	jsonBody, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return Account{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", c.baseURL, method, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return Account{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.projectID != "" {
		req.Header.Set("X-Goog-User-Project", c.projectID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Account{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Account{}, decodeProviderError(resp)
	}

	var out struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Account{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return Account{UID: out.LocalID, Email: out.Email}, nil
}

func decodeProviderError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error.Message == "" {
		return &ProviderError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	code, detail, _ := strings.Cut(payload.Error.Message, " : ")
	return &ProviderError{
		Status:  resp.StatusCode,
		Code:    strings.TrimSpace(code),
		Message: strings.TrimSpace(detail),
	}
}
