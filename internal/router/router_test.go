package router

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/repository"
	"foodgram/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type app struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

func setupApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:router_test_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := database.Connect(dsn, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		MediaURL:  "/media",
		PageSize:  6,
	}
	engine, err := New(Deps{
		Config: cfg,
		DB:     db,
		Store:  storage.NewLocalStore(t.TempDir(), cfg.MediaURL),
	})
	require.NoError(t, err)
	return &app{t: t, db: db, engine: engine}
}

func (a *app) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

// signUp registers a user and returns a fresh token for them.
func (a *app) signUp(username string) string {
	a.t.Helper()
	w, _ := a.do(http.MethodPost, "/api/users", "", map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "First",
		"last_name":  "Last",
		"password":   "s3cret-pass",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w, body := a.do(http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return body["data"].(map[string]any)["auth_token"].(string)
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestEndToEnd_RecipeToShoppingList(t *testing.T) {
	a := setupApp(t)
	tag := domain.Tag{Name: "Lunch", Color: "#E26C2D", Slug: "lunch"}
	flour := domain.Ingredient{Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, repository.NewTagRepository(a.db).Create(context.Background(), &tag))
	require.NoError(t, repository.NewIngredientRepository(a.db).Create(context.Background(), &flour))

	cook := a.signUp("cook")
	fan := a.signUp("fan")

	w, body := a.do(http.MethodPost, "/api/recipes", cook, map[string]any{
		"name":         "Bread",
		"text":         "Bake it.",
		"cooking_time": 60,
		"image":        pngDataURI(t),
		"tags":         []int64{tag.ID},
		"ingredients":  []map[string]any{{"id": flour.ID, "amount": 500}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	recipe := body["data"].(map[string]any)
	id := int64(recipe["id"].(float64))

	imageURL, err := url.Parse(recipe["image"].(string))
	require.NoError(t, err)
	w, _ = a.do(http.MethodGet, imageURL.Path, "", nil)
	assert.Equal(t, http.StatusOK, w.Code, "local media is served")

	w, _ = a.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", id), fan, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = a.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite", id), fan, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, body = a.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d", id), fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["data"].(map[string]any)["is_favorited"])
	assert.Equal(t, true, body["data"].(map[string]any)["is_in_shopping_cart"])

	w, _ = a.do(http.MethodGet, "/api/recipes/download_shopping_cart", fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w, _ = a.do(http.MethodPost, fmt.Sprintf("/api/users/%s/subscribe", meID(t, a, cook)), fan, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	w, body = a.do(http.MethodGet, "/api/users/subscriptions", fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["data"].(map[string]any)["count"])

	w, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/recipes/%d", id), fan, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// meID returns the requester's own id as a path segment.
func meID(t *testing.T, a *app, token string) string {
	t.Helper()
	w, body := a.do(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return fmt.Sprintf("%.0f", body["data"].(map[string]any)["id"].(float64))
}

func TestEndToEnd_LogoutRevokesToken(t *testing.T) {
	a := setupApp(t)
	token := a.signUp("leaver")

	w, _ := a.do(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodPost, "/api/auth/token/logout", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w, _ = a.do(http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = a.do(http.MethodGet, "/api/recipes", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, "anonymous reads stay open")
}

func TestHealthMetricsAndUnknownRoutes(t *testing.T) {
	a := setupApp(t)

	w, body := a.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	w, body = a.do(http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])

	w, _ = a.do(http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `foodgram_http_requests_total{method="GET",path="/api/tags",status="200"} 1`)
}
