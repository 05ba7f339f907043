package auth

import (
	"net/http"

	"concerthall/internal/middleware"
	"concerthall/internal/pkg/response"
	"concerthall/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts signup and login. loginGuards run before the
// login handler (rate limiting).
func (h *Handler) RegisterPublicRoutes(r gin.IRouter, loginGuards ...gin.HandlerFunc) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", append(loginGuards, h.Login)...)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected gin.IRouter) {
	protected.GET("/users/me", h.GetMe)
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.ToDetails(err))
		return
	}

	user, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, ToUserPublic(user))
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.ToDetails(err))
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, token)
}

func (h *Handler) GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}
	response.Success(c, http.StatusOK, ToUserPublic(user))
}
