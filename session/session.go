// Package session owns the in-memory session state for the precifi client
// and keeps it converged with the HTTP client's auth header and the secure
// credential store.
package session

import "errors"

// Credential store keys for the persisted session. The manager is the sole
// writer of both keys.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// ErrOperationInFlight is returned when a mutating operation is started
// while another is still running. Operations on a Session are serialized.
var ErrOperationInFlight = errors.New("session operation already in flight")

// User is the authenticated account identity. It is immutable once
// constructed; a fresh login or register replaces it wholesale.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is a whole-record snapshot of the session state. Observers only
// ever see consistent pre- or post-operation snapshots, never partial
// field updates.
type Session struct {
	User            *User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
	// Err is a human-readable message from the last failed operation,
	// empty when clear.
	Err string
}

func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
