package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/darkhorse3pl/auth-service/internal/domain"
)

const authContextKey = "auth_context"

// AuthContext is what the auth middleware attaches for downstream
// handlers: the verified user, the session backing the token, and the
// raw claims.
type AuthContext struct {
	User      *domain.User
	SessionID string
	Claims    *domain.TokenClaims
}

func setAuthContext(c *gin.Context, ac *AuthContext) {
	c.Set(authContextKey, ac)
}

// GetAuthContext returns the authentication context attached by the
// middleware. The second return is false on unauthenticated routes.
func GetAuthContext(c *gin.Context) (*AuthContext, bool) {
	v, ok := c.Get(authContextKey)
	if !ok {
		return nil, false
	}
	ac, ok := v.(*AuthContext)
	return ac, ok
}
