package authsdk

import (
	"sync"
)

// Session carries a bearer token for the profile endpoints. Tokens are not
// refreshed; sign in again once the server answers invalid_token.
type Session struct {
	client *SDKClient

	mu    sync.RWMutex
	token string
}

// Token returns the bearer token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken swaps the bearer token, e.g. after signing in again.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}
