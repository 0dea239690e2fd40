package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/precifi/precifi-go/api"
	"github.com/precifi/precifi-go/storage"
)

// Manager is the single authority for session truth. It mediates between
// UI consumers, the authentication backend, and the secure credential
// store. Construct one per process with NewManager and share it; all
// mutating operations are serialized by an internal in-flight guard.
type Manager struct {
	auth   Authenticator
	store  storage.Store
	client *api.Client
	logger *slog.Logger

	mu        sync.Mutex
	state     Session
	inFlight  bool
	listeners []func(Session)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger. Defaults to a silent logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager wired to the given authenticator, credential
// store, and HTTP client. The manager starts in the loading,
// unauthenticated state; call Restore once at startup to settle it.
func NewManager(auth Authenticator, store storage.Store, client *api.Client, opts ...Option) *Manager {
	m := &Manager{
		auth:   auth,
		store:  store,
		client: client,
		state:  Session{IsLoading: true},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return m
}

// Current returns a snapshot of the session state.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Subscribe registers a listener invoked with a snapshot after every state
// transition. Listeners are called sequentially from the mutating
// goroutine and must not call back into the Manager.
func (m *Manager) Subscribe(fn func(Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// begin marks an operation in flight and applies mutate to the state. It
// returns ErrOperationInFlight if another operation is running.
func (m *Manager) begin(mutate func(*Session)) error {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return ErrOperationInFlight
	}
	m.inFlight = true
	mutate(&m.state)
	m.publishLocked()
	return nil
}

// finish clears the in-flight flag and applies mutate to the state.
func (m *Manager) finish(mutate func(*Session)) {
	m.mu.Lock()
	m.inFlight = false
	mutate(&m.state)
	m.publishLocked()
}

// publishLocked snapshots the state and notifies listeners outside the
// lock. Callers must hold m.mu; it is released on return.
func (m *Manager) publishLocked() {
	snapshot := m.state.clone()
	listeners := make([]func(Session), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Restore loads a persisted session from the credential store, invoked
// once at startup. A missing or unreadable credential silently settles the
// session as unauthenticated; restore failures are logged, never surfaced.
// Exactly one read of each storage key is performed, and no writes.
func (m *Manager) Restore(ctx context.Context) error {
	if err := m.begin(func(s *Session) {
		s.IsLoading = true
		s.Err = ""
	}); err != nil {
		return err
	}

	token, tokenErr := m.store.Get(ctx, TokenKey)
	rawUser, userErr := m.store.Get(ctx, UserKey)

	var user User
	ok := tokenErr == nil && userErr == nil && token != ""
	if ok {
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			m.logger.Error("failed to decode stored user", "error", err)
			ok = false
		}
	} else if tokenErr != nil && !errors.Is(tokenErr, storage.ErrNotFound) {
		m.logger.Error("failed to read stored token", "error", tokenErr)
	} else if userErr != nil && !errors.Is(userErr, storage.ErrNotFound) {
		m.logger.Error("failed to read stored user", "error", userErr)
	}

	if !ok {
		m.finish(func(s *Session) {
			*s = Session{}
		})
		return nil
	}

	m.client.SetAuthToken(token)
	m.finish(func(s *Session) {
		*s = Session{User: &user, Token: token, IsAuthenticated: true}
	})
	m.logger.Info("restored session from credential store", "user_id", user.ID)
	return nil
}

// Login authenticates with the injected backend and, on success, persists
// the credential and marks the session authenticated. Callers are expected
// to pass non-empty credentials; validation is the backend's concern.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := m.begin(func(s *Session) {
		s.IsLoading = true
		s.Err = ""
	}); err != nil {
		return err
	}

	res, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.logger.Error("login failed", "error", err)
		m.fail(errorMessage(err, "Failed to login. Please try again."))
		return err
	}

	m.establish(ctx, res)
	m.logger.Info("user logged in", "user_id", res.User.ID)
	return nil
}

// Register creates an account with the injected backend and, on success,
// persists the credential and marks the session authenticated.
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	if err := m.begin(func(s *Session) {
		s.IsLoading = true
		s.Err = ""
	}); err != nil {
		return err
	}

	res, err := m.auth.Register(ctx, name, email, password)
	if err != nil {
		m.logger.Error("registration failed", "error", err)
		m.fail(errorMessage(err, "Failed to register. Please try again."))
		return err
	}

	m.establish(ctx, res)
	m.logger.Info("user registered", "user_id", res.User.ID)
	return nil
}

// Logout clears the auth header and the stored credential, then settles
// the session unauthenticated. Storage cleanup is best-effort: delete
// failures are logged and never block sign-out.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.begin(func(s *Session) {
		s.IsLoading = true
	}); err != nil {
		return err
	}

	m.client.ClearAuthToken()

	var wg sync.WaitGroup
	for _, key := range []string{TokenKey, UserKey} {
		key := key
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.store.Delete(ctx, key); err != nil {
				m.logger.Error("failed to clear stored credential", "key", key, "error", err)
			}
		}()
	}
	wg.Wait()

	m.finish(func(s *Session) {
		*s = Session{}
	})
	m.logger.Info("user logged out")
	return nil
}

// RequestPasswordReset asks the backend to send a reset email. It shares
// the loading/error surface of the other operations but never changes the
// authenticated state.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	if err := m.begin(func(s *Session) {
		s.IsLoading = true
		s.Err = ""
	}); err != nil {
		return err
	}

	if err := m.auth.RequestPasswordReset(ctx, email); err != nil {
		m.logger.Error("password reset request failed", "error", err)
		m.fail(errorMessage(err, "Failed to request a password reset. Please try again."))
		return err
	}
	m.finish(func(s *Session) {
		s.IsLoading = false
	})
	return nil
}

// ResetPassword completes a password reset with the token from the reset
// email. The session state is otherwise untouched.
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := m.begin(func(s *Session) {
		s.IsLoading = true
		s.Err = ""
	}); err != nil {
		return err
	}

	if err := m.auth.ResetPassword(ctx, token, newPassword); err != nil {
		m.logger.Error("password reset failed", "error", err)
		m.fail(errorMessage(err, "Failed to reset the password. Please try again."))
		return err
	}
	m.finish(func(s *Session) {
		s.IsLoading = false
	})
	return nil
}

// ClearError clears the error message. It has no other side effects.
func (m *Manager) ClearError() {
	m.mu.Lock()
	m.state.Err = ""
	m.publishLocked()
}

// establish synchronizes a successful authentication result with the HTTP
// client and the credential store, then marks the session authenticated.
func (m *Manager) establish(ctx context.Context, res *Result) {
	m.client.SetAuthToken(res.Token)
	m.persist(ctx, res.Token, res.User)

	user := res.User
	m.finish(func(s *Session) {
		*s = Session{User: &user, Token: res.Token, IsAuthenticated: true}
	})
}

// persist writes the token and serialized user to the credential store.
// Both writes are fired concurrently; order between them is not
// guaranteed. Failures are logged, not surfaced — the in-memory session is
// authoritative for the current process even if durability failed.
func (m *Manager) persist(ctx context.Context, token string, user User) {
	rawUser, err := json.Marshal(user)
	if err != nil {
		m.logger.Error("failed to encode user for storage", "error", err)
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := m.store.Set(ctx, TokenKey, token); err != nil {
			m.logger.Error("failed to store token", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := m.store.Set(ctx, UserKey, string(rawUser)); err != nil {
			m.logger.Error("failed to store user", "error", err)
		}
	}()
	wg.Wait()
}

// fail settles a failed operation: loading cleared, message surfaced, and
// any previously authenticated user/token left untouched so a failed
// re-login does not sign out the current user.
func (m *Manager) fail(msg string) {
	m.finish(func(s *Session) {
		s.IsLoading = false
		s.Err = msg
	})
}

// errorMessage prefers the API's message for typed API errors and falls
// back to a generic one for transport failures.
func errorMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
