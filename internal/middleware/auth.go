package middleware

import (
	"context"
	"errors"
	"strings"

	"concerthall/internal/domain"
	"concerthall/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextUser   = "user"
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// PrincipalResolver turns a bearer token into the user it was issued for.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// JWTAuth requires a valid bearer token and stores the principal in the
// context under user, user_id and role.
func JWTAuth(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}

		user, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				response.Unauthorized(c, err.Error())
			} else {
				response.FromError(c, err)
			}
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextRole, string(user.Role))
		c.Next()
	}
}

// CurrentUser returns the principal stored by JWTAuth.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok && u != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
