package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/precifi/precifi-go/api"
	"github.com/precifi/precifi-go/internal/util"
)

// Result is a successful authentication outcome.
type Result struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Authenticator performs authentication against a backend. The concrete
// strategy (real HTTP backend or the development mock) is chosen at
// construction time, never branched on inside the Manager.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*Result, error)
	Register(ctx context.Context, name, email, password string) (*Result, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// NormalizeEmail canonicalizes an email for comparison: trimmed, NFKD
// normalized, lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(util.Normalize(strings.TrimSpace(email)))
}

// HTTPAuthenticator authenticates against the precifi backend over the
// shared API client.
type HTTPAuthenticator struct {
	client *api.Client
}

var _ Authenticator = (*HTTPAuthenticator)(nil)

// NewHTTPAuthenticator creates an Authenticator backed by the given client.
func NewHTTPAuthenticator(client *api.Client) *HTTPAuthenticator {
	return &HTTPAuthenticator{client: client}
}

func (a *HTTPAuthenticator) Login(ctx context.Context, email, password string) (*Result, error) {
	var res Result
	body := map[string]string{"email": email, "password": password}
	if err := a.client.Post(ctx, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *HTTPAuthenticator) Register(ctx context.Context, name, email, password string) (*Result, error) {
	var res Result
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := a.client.Post(ctx, "/auth/register", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *HTTPAuthenticator) RequestPasswordReset(ctx context.Context, email string) error {
	return a.client.Post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

func (a *HTTPAuthenticator) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "password": newPassword}
	return a.client.Post(ctx, "/auth/reset-password", body, nil)
}

// MockUserID is the fixed ID of every mock-authenticated user.
const MockUserID = "mock-user-id"

// MockAuthenticator is the development strategy: it accepts any non-empty
// credentials without a network round trip, deriving a deterministic token
// from the email and the user's name from the email's local part.
type MockAuthenticator struct{}

var _ Authenticator = (*MockAuthenticator)(nil)

// NewMockAuthenticator creates the development authenticator.
func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{}
}

func (a *MockAuthenticator) Login(ctx context.Context, email, password string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		name = "User"
	}
	return &Result{
		Token: mockToken(email),
		User:  User{ID: MockUserID, Email: email, Name: name},
	}, nil
}

func (a *MockAuthenticator) Register(ctx context.Context, name, email, password string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	return &Result{
		Token: mockToken(email),
		User:  User{ID: MockUserID, Email: email, Name: name},
	}, nil
}

func (a *MockAuthenticator) RequestPasswordReset(ctx context.Context, email string) error {
	return ctx.Err()
}

func (a *MockAuthenticator) ResetPassword(ctx context.Context, token, newPassword string) error {
	return ctx.Err()
}

// mockToken derives a stable opaque token from the email so repeated mock
// logins for the same account agree.
func mockToken(email string) string {
	sum := sha256.Sum256([]byte(email))
	return "mock-token-" + hex.EncodeToString(sum[:8])
}
