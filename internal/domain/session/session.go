// internal/domain/session/session.go
package session

import "strings"

// Session is the authenticated identity bound to the running client.
// Exactly one session (or none) is active per process; ownership lives in
// usecase.SessionStore.
type Session struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"` // empty when the provider has none
}

// New normalizes and builds a session value.
func New(id, email, displayName string) Session {
	return Session{
		ID:          strings.TrimSpace(id),
		Email:       strings.TrimSpace(email),
		DisplayName: strings.TrimSpace(displayName),
	}
}

// Valid reports whether the session identifies a user.
func (s Session) Valid() bool {
	return s.ID != ""
}
