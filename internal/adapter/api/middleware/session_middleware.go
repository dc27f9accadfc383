package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tradepost/internal/infrastructure/session"
)

type SessionMiddleware struct {
	sess *session.Session
}

func NewSessionMiddleware(sess *session.Session) *SessionMiddleware {
	return &SessionMiddleware{sess: sess}
}

// RequireSession rejects local API calls while the daemon holds no
// valid backend session. The UI shell is expected to log in first.
func (m *SessionMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.sess.Authenticated() {
			return echo.NewHTTPError(http.StatusUnauthorized, "No active session")
		}
		c.Set("uid", m.sess.UserID())
		return next(c)
	}
}
