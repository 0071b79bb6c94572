package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-pessoas/internal/apiclient"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"github.com/prefeitura-rio/app-pessoas/internal/session"
	"go.uber.org/zap"
)

// SessionKey is the gin context key holding the current *session.Session
const SessionKey = "session"

// LoginPath is where unauthenticated callers are sent
const LoginPath = "/login"

// UnauthorizedResponse tells the client to go back to the login page
type UnauthorizedResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

// SessionResolver looks sessions up by ID
type SessionResolver interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// SessionCookies reads and clears the session cookie
type SessionCookies interface {
	SessionID(r *http.Request) (string, bool)
	Clear(w http.ResponseWriter, r *http.Request) error
}

// RequireSession rejects requests without a live session. The session and its
// backend token are attached to the request context for handlers and the API client.
func RequireSession(sessions SessionResolver, cookies SessionCookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := cookies.SessionID(c.Request)
		if !ok {
			AbortUnauthorized(c, cookies, models.ErrNotAuthenticated)
			return
		}

		s, err := sessions.Get(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, models.ErrSessionExpired) && !errors.Is(err, models.ErrSessionNotFound) {
				observability.Logger().Error("failed to load session", zap.Error(err))
			}
			AbortUnauthorized(c, cookies, err)
			return
		}

		ctx := session.WithSession(c.Request.Context(), s)
		ctx = apiclient.WithToken(ctx, s.Token)
		c.Request = c.Request.WithContext(ctx)
		c.Set(SessionKey, s)
		c.Next()
	}
}

// AbortUnauthorized clears the session cookie and answers 401 with a login redirect
func AbortUnauthorized(c *gin.Context, cookies SessionCookies, cause error) {
	if cookies != nil {
		if err := cookies.Clear(c.Writer, c.Request); err != nil {
			observability.Logger().Warn("failed to clear session cookie", zap.Error(err))
		}
	}

	message := "Não autenticado"
	switch {
	case errors.Is(cause, models.ErrSessionExpired), models.IsKind(cause, models.KindUnauthorized):
		message = (&models.APIError{ErrorType: models.ErrTypeUnauthorized}).UserMessage()
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, UnauthorizedResponse{Error: message, Redirect: LoginPath})
}

// CurrentSession returns the session attached by RequireSession
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
