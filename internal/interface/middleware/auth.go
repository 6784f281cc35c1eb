package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

const (
	ctxUser   = "user"
	ctxToken  = "token"
	ctxUserID = "userID"
)

// SessionResolver turns a bearer token into an authenticated session.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (application.Session, error)
}

// Auth requires "Authorization: Bearer <token>" naming a live session.
// It sets user, token and userID in the Gin context on success. Every
// failure gets the same 401 response.
func Auth(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, http.StatusUnauthorized, application.ErrUnauthenticated.Message)
			return
		}
		sess, err := sessions.ResolveSession(c.Request.Context(), token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, application.ErrUnauthenticated.Message)
			return
		}

		c.Set(ctxUser, sess.User)
		c.Set(ctxToken, sess.Token)
		c.Set(ctxUserID, sess.User.ID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// CurrentSession returns the session set by Auth.
func CurrentSession(c *gin.Context) (application.Session, bool) {
	u, ok := c.Get(ctxUser)
	if !ok {
		return application.Session{}, false
	}
	user, ok := u.(*entity.User)
	if !ok {
		return application.Session{}, false
	}
	return application.Session{User: user, Token: c.GetString(ctxToken)}, true
}
