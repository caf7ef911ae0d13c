package subscription

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("/subscriptions", middleware.RequireAuth(), h.ListMine)
		users.GET("/:id/subscriptions", middleware.SelfOrSuperuser("id"), h.ListForUser)
		users.POST("/:id/subscribe", middleware.RequireAuth(), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.RequireAuth(), h.Unsubscribe)
	}
}

// Subscribe follows an author.
// @Summary  Subscribe to author
// @Tags     Subscriptions
// @Produce  json
// @Security BearerAuth
// @Param    id            path  int true  "Author id"
// @Param    recipes_limit query int false "Max recipes shown under the author"
// @Success  201 {object} view.Author
// @Failure  400 {object} map[string]interface{} "Self-subscription or already subscribed"
// @Router   /users/{id}/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	limit, err := recipesLimit(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	author, err := h.service.Subscribe(c.Request.Context(), middleware.RequesterFrom(c), id, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	absolutize(c, &author)
	response.Success(c, http.StatusCreated, author)
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Unsubscribe(c.Request.Context(), middleware.RequesterFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) ListMine(c *gin.Context) {
	h.list(c, middleware.RequesterFrom(c).UserID)
}

func (h *Handler) ListForUser(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	h.list(c, id)
}

func (h *Handler) list(c *gin.Context, userID int64) {
	limit, err := recipesLimit(c)
	if err != nil {
		response.FromError(c, err)
		return
	}
	page, err := h.service.List(c.Request.Context(), middleware.RequesterFrom(c), userID, pagination.FromQuery(c, h.pageSize), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	for i := range page.Results {
		absolutize(c, &page.Results[i])
	}
	response.Success(c, http.StatusOK, page)
}

// recipesLimit reads ?recipes_limit=; absent means no cap.
func recipesLimit(c *gin.Context) (int, error) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Validation(map[string]string{"recipes_limit": "A valid non-negative integer is required."})
	}
	return n, nil
}

func absolutize(c *gin.Context, a *view.Author) {
	for i := range a.Recipes {
		a.Recipes[i].Image = response.AbsoluteURL(c, a.Recipes[i].Image)
	}
}
