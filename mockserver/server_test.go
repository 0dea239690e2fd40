package mockserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/precifi/precifi-go/api"
	"github.com/precifi/precifi-go/finance"
	"github.com/precifi/precifi-go/mockserver"
	"github.com/precifi/precifi-go/session"
	"github.com/precifi/precifi-go/storage/memory"
)

func setupServer(t *testing.T) (*httptest.Server, *mockserver.Server) {
	t.Helper()
	s := mockserver.New()
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv, s
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, &reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func register(t *testing.T, srv *httptest.Server, name, email, password string) mockserver.AuthResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[mockserver.AuthResponse](t, resp)
}

func TestRegisterAndLogin(t *testing.T) {
	srv, _ := setupServer(t)

	created := register(t, srv, "Ada", "Ada@Example.com", "secret123")
	assert.NotEmpty(t, created.Token)
	assert.NotEmpty(t, created.User.ID)
	assert.Equal(t, "ada@example.com", created.User.Email, "email is normalized")
	assert.Equal(t, "Ada", created.User.Name)

	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/login", map[string]string{
		"email": "ada@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loggedIn := decodeBody[mockserver.AuthResponse](t, resp)
	assert.Equal(t, created.User.ID, loggedIn.User.ID)
	assert.NotEqual(t, created.Token, loggedIn.Token, "each login mints a fresh token")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	srv, _ := setupServer(t)
	register(t, srv, "Ada", "ada@example.com", "secret123")

	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/register", map[string]string{
		"name": "Imposter", "email": "ADA@example.com", "password": "secret456",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody[mockserver.ErrorResponse](t, resp)
	assert.Equal(t, "Email is already in use", body.Message)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	srv, _ := setupServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Password is too weak", decodeBody[mockserver.ErrorResponse](t, resp).Message)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv, _ := setupServer(t)
	register(t, srv, "Ada", "ada@example.com", "secret123")

	for _, creds := range []map[string]string{
		{"email": "ada@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "secret123"},
	} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/auth/login", creds)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid email or password", decodeBody[mockserver.ErrorResponse](t, resp).Message)
	}
}

func TestFinanceEndpointsRequireBearer(t *testing.T) {
	srv, _ := setupServer(t)

	for _, path := range []string{"/profile", "/transactions", "/budgets", "/vault/locks"} {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestFinanceEndpointsWithToken(t *testing.T) {
	srv, _ := setupServer(t)
	created := register(t, srv, "Ada", "ada@example.com", "secret123")

	client := api.NewClient(srv.URL)
	client.SetAuthToken(created.Token)

	var txs []finance.Transaction
	require.NoError(t, client.Get(context.Background(), "/transactions", &txs))
	assert.Len(t, txs, 10)

	var budgets []finance.Budget
	require.NoError(t, client.Get(context.Background(), "/budgets", &budgets))
	assert.Len(t, budgets, 4)

	var user session.User
	require.NoError(t, client.Get(context.Background(), "/profile", &user))
	assert.Equal(t, created.User, user)

	var vault struct {
		Locks   []finance.VaultLock  `json:"locks"`
		Summary finance.VaultSummary `json:"summary"`
	}
	require.NoError(t, client.Get(context.Background(), "/vault/locks", &vault))
	require.Len(t, vault.Locks, 1)
	assert.Greater(t, vault.Summary.WeeklyRelease, 0.0)
}

func TestPasswordResetFlow(t *testing.T) {
	srv, s := setupServer(t)
	register(t, srv, "Ada", "ada@example.com", "secret123")

	// Unknown emails get the same 204, and no token.
	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/forgot-password", map[string]string{"email": "nobody@example.com"})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, s.ResetTokenFor("nobody@example.com"))

	resp = doJSON(t, http.MethodPost, srv.URL+"/auth/forgot-password", map[string]string{"email": "ada@example.com"})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	token := s.ResetTokenFor("ada@example.com")
	require.NotEmpty(t, token)

	resp = doJSON(t, http.MethodPost, srv.URL+"/auth/reset-password", map[string]string{
		"token": token, "password": "newsecret123",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Old password no longer works, new one does, token is single-use.
	resp = doJSON(t, http.MethodPost, srv.URL+"/auth/login", map[string]string{"email": "ada@example.com", "password": "secret123"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/auth/login", map[string]string{"email": "ada@example.com", "password": "newsecret123"})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/auth/reset-password", map[string]string{"token": token, "password": "another123"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEndToEndSessionManagerAgainstMockServer(t *testing.T) {
	srv, _ := setupServer(t)

	client := api.NewClient(srv.URL)
	m := session.NewManager(session.NewHTTPAuthenticator(client), memory.NewStore(), client)
	require.NoError(t, m.Restore(context.Background()))

	// Register, then confirm the bearer header lets protected calls through.
	require.NoError(t, m.Register(context.Background(), "Ada", "ada@example.com", "secret123"))
	require.True(t, m.Current().IsAuthenticated)

	var txs []finance.Transaction
	require.NoError(t, client.Get(context.Background(), "/transactions", &txs))
	assert.NotEmpty(t, txs)

	// Logout clears the header; protected calls fail again.
	require.NoError(t, m.Logout(context.Background()))
	err := client.Get(context.Background(), "/transactions", &txs)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestOpenAPISpecServed(t *testing.T) {
	srv, _ := setupServer(t)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/openapi.yaml", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "precifi mock API")
}
