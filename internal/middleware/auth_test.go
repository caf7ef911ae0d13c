package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveToken(ctx context.Context, userID int64, key string) (domain.Requester, error) {
	args := m.Called(ctx, userID, key)
	return args.Get(0).(domain.Requester), args.Error(1)
}

func newAuthRouter(tokens *jwt.Service, resolver IdentityResolver, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Authenticate(tokens, resolver))
	router.Use(extra...)

	handler := func(c *gin.Context) {
		r := RequesterFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": r.UserID, "superuser": r.IsSuperuser})
	}
	router.GET("/protected", handler)
	router.POST("/protected", handler)
	router.DELETE("/protected", handler)
	router.GET("/users/:id/subscriptions", handler)
	return router
}

func doRequest(router http.Handler, method, path, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens := jwt.New("test-secret-123", time.Hour)
	validToken, err := tokens.GenerateToken(42, "key-42")
	require.NoError(t, err)

	resolver := new(mockResolver)
	resolver.On("ResolveToken", mock.Anything, int64(42), "key-42").
		Return(domain.Requester{UserID: 42, IsSuperuser: true}, nil)

	w := doRequest(newAuthRouter(tokens, resolver), http.MethodGet, "/protected", "Bearer "+validToken)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(42), body["user_id"])
	assert.Equal(t, true, body["superuser"])
	resolver.AssertExpectations(t)
}

func TestAuthenticate_TokenScheme(t *testing.T) {
	tokens := jwt.New("secret", time.Hour)
	token, _ := tokens.GenerateToken(7, "k")
	resolver := new(mockResolver)
	resolver.On("ResolveToken", mock.Anything, int64(7), "k").Return(domain.Requester{UserID: 7}, nil)

	w := doRequest(newAuthRouter(tokens, resolver), http.MethodGet, "/protected", "Token "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	resolver := new(mockResolver)
	w := doRequest(newAuthRouter(jwt.New("wrong-secret", time.Hour), resolver), http.MethodGet, "/protected", "Bearer invalid-jwt-here")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	resolver.AssertNotCalled(t, "ResolveToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthenticate_RevokedKey(t *testing.T) {
	tokens := jwt.New("secret", time.Hour)
	token, _ := tokens.GenerateToken(3, "old-key")
	resolver := new(mockResolver)
	resolver.On("ResolveToken", mock.Anything, int64(3), "old-key").Return(domain.Requester{}, ErrTokenRevoked)

	w := doRequest(newAuthRouter(tokens, resolver), http.MethodGet, "/protected", "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

func TestAuthenticate_ResolverFailure(t *testing.T) {
	tokens := jwt.New("secret", time.Hour)
	token, _ := tokens.GenerateToken(3, "k")
	resolver := new(mockResolver)
	resolver.On("ResolveToken", mock.Anything, int64(3), "k").Return(domain.Requester{}, errors.New("db down"))

	w := doRequest(newAuthRouter(tokens, resolver), http.MethodGet, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthenticate_NoTokenIsAnonymous(t *testing.T) {
	w := doRequest(newAuthRouter(jwt.New("secret", time.Hour), new(mockResolver)), http.MethodGet, "/protected", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)
}

func TestAuthenticate_WrongFormat(t *testing.T) {
	w := doRequest(newAuthRouter(jwt.New("secret", time.Hour), new(mockResolver)), http.MethodGet, "/protected", "Basic dGVzdA==")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestPermissionPolicies(t *testing.T) {
	tokens := jwt.New("secret", time.Hour)
	userToken, _ := tokens.GenerateToken(5, "k5")
	adminToken, _ := tokens.GenerateToken(9, "k9")
	resolver := new(mockResolver)
	resolver.On("ResolveToken", mock.Anything, int64(5), "k5").Return(domain.Requester{UserID: 5}, nil)
	resolver.On("ResolveToken", mock.Anything, int64(9), "k9").Return(domain.Requester{UserID: 9, IsSuperuser: true}, nil)

	readOnly := newAuthRouter(tokens, resolver, ReadOnlyOrAuthenticated())
	assert.Equal(t, http.StatusOK, doRequest(readOnly, http.MethodGet, "/protected", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(readOnly, http.MethodDelete, "/protected", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(readOnly, http.MethodDelete, "/protected", "Bearer "+userToken).Code)

	postOnly := newAuthRouter(tokens, resolver, PostOnlyOrAuthenticated())
	assert.Equal(t, http.StatusOK, doRequest(postOnly, http.MethodPost, "/protected", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(postOnly, http.MethodGet, "/protected", "").Code)

	required := newAuthRouter(tokens, resolver, RequireAuth())
	assert.Equal(t, http.StatusUnauthorized, doRequest(required, http.MethodGet, "/protected", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(required, http.MethodGet, "/protected", "Bearer "+userToken).Code)

	self := newAuthRouter(tokens, resolver, SelfOrSuperuser("id"))
	assert.Equal(t, http.StatusOK, doRequest(self, http.MethodGet, "/users/5/subscriptions", "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(self, http.MethodGet, "/users/6/subscriptions", "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusOK, doRequest(self, http.MethodGet, "/users/6/subscriptions", "Bearer "+adminToken).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(self, http.MethodGet, "/users/6/subscriptions", "").Code)
}
