// Package auth holds the authenticated user session and the two sign-in
// modes: first-party cookie/JWT and redirect-based OIDC.
package auth

import "sync"

// AuthUser is the signed-in account as reported by the identity endpoint.
type AuthUser struct {
	ID    string `json:"id" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Session is the in-process slot holding the current user. It is populated
// after a successful session check and cleared on logout or when the API
// rejects the credentials.
type Session struct {
	mu   sync.RWMutex
	user *AuthUser
}

func NewSession() *Session {
	return &Session{}
}

// Current returns the signed-in user, if any.
func (s *Session) Current() (AuthUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return AuthUser{}, false
	}
	return *s.user, true
}

// Set stores the signed-in user.
func (s *Session) Set(user AuthUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
}

// Clear drops the signed-in user.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}
