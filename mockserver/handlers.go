package mockserver

import (
	"encoding/hex"
	"net/http"

	"github.com/google/uuid"

	"github.com/precifi/precifi-go/finance"
	"github.com/precifi/precifi-go/internal/util"
	"github.com/precifi/precifi-go/session"
)

// Error strings shown inline by the auth screens.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgEmailInUse         = "Email is already in use"
	msgWeakPassword       = "Password is too weak"
)

const minPasswordLen = 8

// AuthResponse is the success body of login and register.
type AuthResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// handleRegister handles POST /auth/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[registerRequest](w, r)
	if !ok {
		return
	}
	email := session.NormalizeEmail(req.Email)
	if email == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}
	if len(req.Password) < minPasswordLen {
		writeError(w, http.StatusBadRequest, msgWeakPassword)
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, msgEmailInUse)
		return
	}
	acct := &account{
		user:     session.User{ID: uuid.NewString(), Email: email, Name: req.Name},
		password: req.Password,
	}
	s.accounts[email] = acct
	token := s.issueTokenLocked(email)
	s.mu.Unlock()

	s.logger.Info("account registered", "user_id", acct.user.ID)
	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: acct.user})
}

// handleLogin handles POST /auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[loginRequest](w, r)
	if !ok {
		return
	}
	email := session.NormalizeEmail(req.Email)

	s.mu.Lock()
	acct, exists := s.accounts[email]
	if !exists || acct.password != req.Password {
		s.mu.Unlock()
		s.logger.Info("login rejected", "email", email)
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	token := s.issueTokenLocked(email)
	s.mu.Unlock()

	s.logger.Info("login accepted", "user_id", acct.user.ID)
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: acct.user})
}

// handleForgotPassword handles POST /auth/forgot-password. It always
// responds 204 so the endpoint cannot be used to probe which emails have
// accounts.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[forgotPasswordRequest](w, r)
	if !ok {
		return
	}
	email := session.NormalizeEmail(req.Email)

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		token := uuid.NewString()
		s.resetTokens[token] = email
		s.logger.Info("password reset token issued", "email", email)
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// handleResetPassword handles POST /auth/reset-password.
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[resetPasswordRequest](w, r)
	if !ok {
		return
	}
	if len(req.Password) < minPasswordLen {
		writeError(w, http.StatusBadRequest, msgWeakPassword)
		return
	}

	s.mu.Lock()
	email, valid := s.resetTokens[req.Token]
	if !valid {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "invalid or expired reset token")
		return
	}
	delete(s.resetTokens, req.Token)
	s.accounts[email].password = req.Password
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// handleProfile returns the authenticated user.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, finance.DemoTransactions())
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, finance.DemoBudgets())
}

func (s *Server) handleVaultLocks(w http.ResponseWriter, r *http.Request) {
	locks := finance.DemoVaultLocks()
	writeJSON(w, http.StatusOK, struct {
		Locks   []finance.VaultLock  `json:"locks"`
		Summary finance.VaultSummary `json:"summary"`
	}{locks, finance.SummarizeVault(locks, s.now())})
}

// issueTokenLocked mints an opaque bearer token for an account. Callers
// must hold s.mu.
func (s *Server) issueTokenLocked(email string) string {
	var token string
	if raw, err := util.RandomBytes(24); err == nil {
		token = "precifi-" + hex.EncodeToString(raw)
	} else {
		// crypto/rand failing means the process is in a bad way; a uuid
		// is an acceptable token for a dev server.
		token = uuid.NewString()
	}
	s.tokens[token] = email
	return token
}
