package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

// Session holds the bearer token the daemon presents to the backend.
// The token is not verified here (the backend does that); we only parse
// it to learn the user id and the expiry, which gates every poll task.
type Session struct {
	mutex     sync.RWMutex
	token     string
	userID    string
	expiresAt time.Time
}

func New() *Session {
	return &Session{}
}

type claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *Session) Login(token string) error {
	if token == "" {
		return errors.BadRequest("Token is required", nil)
	}

	parsed := claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &parsed); err != nil {
		return errors.BadRequest("Malformed session token", err)
	}

	userID := parsed.UserID
	if userID == "" {
		userID = parsed.Subject
	}
	if userID == "" {
		return errors.BadRequest("Session token carries no user id", nil)
	}

	s.mutex.Lock()
	s.token = token
	s.userID = userID
	if parsed.ExpiresAt != nil {
		s.expiresAt = parsed.ExpiresAt.Time
	} else {
		s.expiresAt = time.Time{}
	}
	s.mutex.Unlock()

	logger.Info("Session started for user %s", userID)
	return nil
}

func (s *Session) Logout() {
	s.mutex.Lock()
	s.token = ""
	s.userID = ""
	s.expiresAt = time.Time{}
	s.mutex.Unlock()

	logger.Info("Session cleared")
}

func (s *Session) Token() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.token
}

func (s *Session) UserID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.userID
}

// Authenticated is the guard every poll task re-evaluates at each tick.
func (s *Session) Authenticated() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.token == "" {
		return false
	}
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return false
	}
	return true
}
