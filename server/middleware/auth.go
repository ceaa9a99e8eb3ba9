package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity/auth/authctx"
	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/model"
)

// bearerPrefix is matched case-sensitively: "bearer x" is rejected.
const bearerPrefix = "Bearer "

// ContextKeyIdentity is the gin context key holding the caller identity.
const ContextKeyIdentity = "identity"

// IdentityResolver turns a raw token into an identity.
// Implemented by auth.Service.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*model.Identity, error)
}

// Auth is the authentication gate. It extracts the bearer token,
// resolves it to an identity and attaches that identity to both the
// gin context and the request context. Requests without a usable
// token never reach the handler.
func Auth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ContextKeyIdentity, identity)
		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), identity))
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.EmptyToken()
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", errors.InvalidToken()
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	if token == "" {
		return "", errors.EmptyToken()
	}
	return token, nil
}

// IdentityFrom returns the identity the Auth middleware attached.
func IdentityFrom(c *gin.Context) (*model.Identity, bool) {
	value, ok := c.Get(ContextKeyIdentity)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*model.Identity)
	return identity, ok
}

// PermissionChecker answers permission questions about an identity.
// Implemented by authz.Checker.
type PermissionChecker interface {
	HasPermission(ctx context.Context, identity *model.Identity, permission string) error
	HasRole(ctx context.Context, identity *model.Identity, role string) error
}

// RequirePermission gates a route on a named permission. Must run
// after Auth.
func RequirePermission(checker PermissionChecker, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			abortWithError(c, errors.Unauthorized(""))
			return
		}
		if err := checker.HasPermission(c.Request.Context(), identity, permission); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireRole gates a route on a named role. Must run after Auth.
func RequireRole(checker PermissionChecker, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			abortWithError(c, errors.Unauthorized(""))
			return
		}
		if err := checker.HasRole(c.Request.Context(), identity, role); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// abortWithError writes the standard error envelope and stops the chain.
func abortWithError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
