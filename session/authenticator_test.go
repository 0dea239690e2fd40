package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/precifi/precifi-go/api"
)

func TestMockLoginDerivesUserFromEmail(t *testing.T) {
	a := NewMockAuthenticator()

	res, err := a.Login(context.Background(), "Jane.Doe@Example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, MockUserID, res.User.ID)
	assert.Equal(t, "jane.doe@example.com", res.User.Email)
	assert.Equal(t, "jane.doe", res.User.Name)
	assert.NotEmpty(t, res.Token)
}

func TestMockTokenIsDeterministic(t *testing.T) {
	a := NewMockAuthenticator()

	r1, err := a.Login(context.Background(), "a@b.com", "pw1")
	require.NoError(t, err)
	r2, err := a.Login(context.Background(), "a@b.com", "pw2")
	require.NoError(t, err)
	r3, err := a.Login(context.Background(), "c@d.com", "pw1")
	require.NoError(t, err)

	assert.Equal(t, r1.Token, r2.Token, "same email, same token")
	assert.NotEqual(t, r1.Token, r3.Token, "different email, different token")
}

func TestMockRegisterUsesProvidedName(t *testing.T) {
	a := NewMockAuthenticator()

	res, err := a.Register(context.Background(), "Ada", "ada@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Ada", res.User.Name)
	assert.Equal(t, "ada@b.com", res.User.Email)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.COM "))
	assert.Equal(t, NormalizeEmail("café@b.com"), NormalizeEmail("café@b.com"))
}

func TestHTTPAuthenticatorLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req["email"])
		assert.Equal(t, "secret123", req["password"])

		json.NewEncoder(w).Encode(Result{
			Token: "srv-token",
			User:  User{ID: "42", Email: "a@b.com", Name: "A"},
		})
	}))
	defer srv.Close()

	a := NewHTTPAuthenticator(api.NewClient(srv.URL))
	res, err := a.Login(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "srv-token", res.Token)
	assert.Equal(t, "42", res.User.ID)
}

func TestHTTPAuthenticatorLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"})
	}))
	defer srv.Close()

	a := NewHTTPAuthenticator(api.NewClient(srv.URL))
	_, err := a.Login(context.Background(), "a@b.com", "bad")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestHTTPAuthenticatorPasswordReset(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a := NewHTTPAuthenticator(api.NewClient(srv.URL))
	require.NoError(t, a.RequestPasswordReset(context.Background(), "a@b.com"))
	require.NoError(t, a.ResetPassword(context.Background(), "reset-tok", "newpw123"))
	assert.Equal(t, []string{"/auth/forgot-password", "/auth/reset-password"}, paths)
}
