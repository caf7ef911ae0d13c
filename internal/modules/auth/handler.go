package auth

import (
	"errors"
	"net/http"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages accounts and token login/logout.
type Handler struct {
	service  *Service
	pageSize int
}

func NewHandler(service *Service, pageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize}
}

// RegisterRoutes mounts /auth/token/* and /users. Sign-up is the only
// anonymous write; user reads follow the usual read-only policy.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	token := rg.Group("/auth/token")
	{
		token.POST("/login", h.Login)
		token.POST("/logout", middleware.RequireAuth(), h.Logout)
	}

	users := rg.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", h.ListUsers)
		users.GET("/me", middleware.RequireAuth(), h.Me)
		users.POST("/set_password", middleware.RequireAuth(), h.SetPassword)
		users.GET("/:id", h.GetUser)
	}
}

// Register creates an account.
// @Summary  Sign up
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    request body RegisterRequest true "Account data"
// @Success  201 {object} view.User
// @Failure  400 {object} map[string]interface{} "Validation error with field messages"
// @Router   /users [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// Login exchanges email and password for a token.
// @Summary  Obtain token
// @Tags     Auth
// @Accept   json
// @Produce  json
// @Param    request body LoginRequest true "Credentials"
// @Success  200 {object} TokenResponse
// @Failure  400 {object} map[string]interface{} "Bad credentials"
// @Router   /auth/token/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.ErrorWithDetails(c, http.StatusBadRequest, ErrInvalidCredentials.Code, ErrInvalidCredentials.Message,
				map[string]string{"password": ErrInvalidCredentials.Message})
			return
		}
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, token)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.RequesterFrom(c).UserID); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), middleware.RequesterFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), id, middleware.RequesterFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// ListUsers returns a page of users with is_subscribed for the requester.
// @Summary  List users
// @Tags     Users
// @Produce  json
// @Param    page  query int false "Page number" default(1)
// @Param    limit query int false "Page size"
// @Router   /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, err := h.service.ListUsers(c.Request.Context(), middleware.RequesterFrom(c), pagination.FromQuery(c, h.pageSize))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if err := h.service.SetPassword(c.Request.Context(), middleware.RequesterFrom(c).UserID, req); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
