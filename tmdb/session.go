package tmdb

import "sync"

// Session holds the credentials established by the authentication flow.
// Only the Authenticator and Logout write to it; resource calls read
// snapshots through Credentials.
type Session struct {
	mu           sync.RWMutex
	requestToken string
	sessionID    string
	userID       int64
	hasUserID    bool
}

// Credentials returns a copy of the current session state
func (s *Session) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Credentials{
		RequestToken: s.requestToken,
		SessionID:    s.sessionID,
		UserID:       s.userID,
		HasUserID:    s.hasUserID,
	}
}

// begin starts a new flow with token, dropping any previous session so a
// session id is never paired with an unrelated request token
func (s *Session) begin(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestToken = token
	s.sessionID = ""
	s.userID = 0
	s.hasUserID = false
}

func (s *Session) setSessionID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = id
}

func (s *Session) setUserID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = id
	s.hasUserID = true
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestToken = ""
	s.sessionID = ""
	s.userID = 0
	s.hasUserID = false
}
