package favorite

import (
	"net/http"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	fav := rg.Group("/recipes/:id/favorite", middleware.RequireAuth())
	{
		fav.POST("", h.Add)
		fav.DELETE("", h.Remove)
	}
}

// Add marks a recipe as a favorite of the requester.
//
// @Summary  Add to favorites
// @Tags     Favorite
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "Recipe id"
// @Success  201 {object} view.RecipeShort
// @Failure  400 {object} map[string]interface{} "Already in favorites"
// @Failure  404 {object} map[string]interface{} "Recipe not found"
// @Router   /recipes/{id}/favorite [post]
func (h *Handler) Add(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.service.Add(c.Request.Context(), middleware.RequesterFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	recipe.Image = response.AbsoluteURL(c, recipe.Image)
	response.Success(c, http.StatusCreated, recipe)
}

// Remove drops a recipe from the requester's favorites.
//
// @Summary  Remove from favorites
// @Tags     Favorite
// @Security BearerAuth
// @Param    id path int true "Recipe id"
// @Success  204
// @Failure  404 {object} map[string]interface{} "Recipe not found or not in favorites"
// @Router   /recipes/{id}/favorite [delete]
func (h *Handler) Remove(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), middleware.RequesterFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
