package shoppinglist

import (
	"fmt"
	"net/http"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const filename = "shopping_cart.pdf"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recipes/download_shopping_cart", middleware.RequireAuth(), h.Download)
}

// Download streams the requester's aggregated shopping list as a PDF.
// @Summary  Download shopping list
// @Tags     ShoppingCart
// @Produce  application/pdf
// @Security BearerAuth
// @Success  200 {file} binary
// @Router   /recipes/download_shopping_cart [get]
func (h *Handler) Download(c *gin.Context) {
	data, err := h.service.Render(c.Request.Context(), middleware.RequesterFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
