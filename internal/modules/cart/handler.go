package cart

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
	rg.POST("/recipes/:id/shopping_cart", middleware.RequireAuth(), h.Add)
	rg.DELETE("/recipes/:id/shopping_cart", middleware.RequireAuth(), h.Remove)
}

// Add puts a recipe into the requester's shopping cart.
// @Summary  Add to shopping cart
// @Tags     ShoppingCart
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "Recipe id"
// @Success  201 {object} view.RecipeShort
// @Router   /recipes/{id}/shopping_cart [post]
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
