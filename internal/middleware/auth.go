package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxRequester = "requester"
	ctxTokenKey  = "token_key"
)

// ErrTokenRevoked is returned by resolvers when the token key is gone.
var ErrTokenRevoked = errors.New("token revoked")

// IdentityResolver turns validated claims into a requester. It must fail when
// the key no longer belongs to the user.
type IdentityResolver interface {
	ResolveToken(ctx context.Context, userID int64, key string) (domain.Requester, error)
}

// Authenticate resolves the bearer token, if any. Requests without an
// Authorization header continue as anonymous; a present but invalid token is
// rejected with 401.
func Authenticate(tokens *jwt.Service, resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}

		scheme, tokenStr, ok := strings.Cut(header, " ")
		if !ok || !(strings.EqualFold(scheme, "Bearer") || strings.EqualFold(scheme, "Token")) {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		tokenStr = strings.TrimSpace(tokenStr)
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Empty token")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		requester, err := resolver.ResolveToken(c.Request.Context(), claims.UserID, claims.ID)
		if err != nil {
			if errors.Is(err, ErrTokenRevoked) {
				response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Token has been revoked")
				c.Abort()
				return
			}
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, requester.UserID)
		c.Set(ctxRequester, requester)
		c.Set(ctxTokenKey, claims.ID)
		c.Next()
	}
}

// RequesterFrom returns the identity set by Authenticate, anonymous if none.
func RequesterFrom(c *gin.Context) domain.Requester {
	if v, ok := c.Get(ctxRequester); ok {
		if r, ok := v.(domain.Requester); ok {
			return r
		}
	}
	return domain.Requester{}
}

// SetRequester is used by tests and internal callers to act as a user.
func SetRequester(c *gin.Context, r domain.Requester) {
	c.Set(ctxUserID, r.UserID)
	c.Set(ctxRequester, r)
}
