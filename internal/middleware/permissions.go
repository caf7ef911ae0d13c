package middleware

import (
	"net/http"
	"strconv"

	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

func abortUnauthenticated(c *gin.Context) {
	response.Error(c, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication credentials were not provided")
	c.Abort()
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if RequesterFrom(c).IsAnonymous() {
			abortUnauthenticated(c)
			return
		}
		c.Next()
	}
}

// ReadOnlyOrAuthenticated lets safe methods through and requires a user for
// everything else.
func ReadOnlyOrAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		if RequesterFrom(c).IsAnonymous() {
			abortUnauthenticated(c)
			return
		}
		c.Next()
	}
}

// PostOnlyOrAuthenticated lets anonymous POST through (sign up) and requires a
// user for everything else.
func PostOnlyOrAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost {
			c.Next()
			return
		}
		if RequesterFrom(c).IsAnonymous() {
			abortUnauthenticated(c)
			return
		}
		c.Next()
	}
}

// SelfOrSuperuser requires the :param user id to be the requester, unless the
// requester is a superuser.
func SelfOrSuperuser(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := RequesterFrom(c)
		if requester.IsAnonymous() {
			abortUnauthenticated(c)
			return
		}
		id, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
			c.Abort()
			return
		}
		if !requester.CanModify(id) {
			response.Error(c, http.StatusForbidden, "PERMISSION_DENIED", "You do not have permission to perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
