package recipe

import (
	"net/http"
	"strconv"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/view"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service  *Service
	pageSize int
}

func NewHandler(service *Service, pageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize}
}

// RegisterRoutes mounts /recipes. Reads are open; writes need a user and,
// for existing recipes, authorship or superuser rights.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	recipes := rg.Group("/recipes", middleware.ReadOnlyOrAuthenticated())
	{
		recipes.GET("", h.List)
		recipes.POST("", h.Create)
		recipes.GET("/:id", h.Get)
		recipes.PATCH("/:id", h.Update)
		recipes.DELETE("/:id", h.Delete)
	}
}

// List returns a page of recipes.
// @Summary  List recipes
// @Tags     Recipes
// @Produce  json
// @Param    tags                query []string false "Tag slugs" collectionFormat(multi)
// @Param    author              query int      false "Author id"
// @Param    is_favorited        query int      false "1 to show only the requester's favorites"
// @Param    is_in_shopping_cart query int      false "1 to show only the requester's cart"
// @Param    page                query int      false "Page number" default(1)
// @Param    limit               query int      false "Page size"
// @Router   /recipes [get]
func (h *Handler) List(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), middleware.RequesterFrom(c), q, pagination.FromQuery(c, h.pageSize))
	if err != nil {
		response.FromError(c, err)
		return
	}
	for i := range page.Results {
		absolutize(c, &page.Results[i])
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.service.Get(c.Request.Context(), id, middleware.RequesterFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	absolutize(c, &recipe)
	response.Success(c, http.StatusOK, recipe)
}

// Create publishes a recipe authored by the requester.
// @Summary  Create recipe
// @Tags     Recipes
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    request body RecipeRequest true "Recipe with base64 image"
// @Success  201 {object} view.Recipe
// @Failure  400 {object} map[string]interface{} "Validation error with field messages"
// @Failure  401 {object} map[string]interface{} "Not authenticated"
// @Router   /recipes [post]
func (h *Handler) Create(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	recipe, err := h.service.Create(c.Request.Context(), middleware.RequesterFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	absolutize(c, &recipe)
	response.Success(c, http.StatusCreated, recipe)
}

// Update fully replaces a recipe.
// @Summary  Update recipe
// @Tags     Recipes
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id      path int           true "Recipe id"
// @Param    request body RecipeRequest true "Recipe; image optional"
// @Success  200 {object} view.Recipe
// @Failure  403 {object} map[string]interface{} "Not the author"
// @Failure  404 {object} map[string]interface{} "Recipe not found"
// @Router   /recipes/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	recipe, err := h.service.Update(c.Request.Context(), id, middleware.RequesterFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	absolutize(c, &recipe)
	response.Success(c, http.StatusOK, recipe)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, middleware.RequesterFrom(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func parseListQuery(c *gin.Context) (ListQuery, error) {
	q := ListQuery{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      isTruthy(c.Query("is_favorited")),
		IsInShoppingCart: isTruthy(c.Query("is_in_shopping_cart")),
	}
	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return ListQuery{}, apperr.Validation(map[string]string{"author": "A valid user id is required."})
		}
		q.AuthorID = id
	}
	return q, nil
}

func isTruthy(v string) bool {
	return v == "1" || v == "true" || v == "True"
}

func absolutize(c *gin.Context, r *view.Recipe) {
	r.Image = response.AbsoluteURL(c, r.Image)
}
