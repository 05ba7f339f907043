package admin

import (
	"net/http"
	"strconv"

	"concerthall/internal/middleware"
	"concerthall/internal/modules/auth"
	"concerthall/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects r to be already guarded by JWTAuth; the admin role
// check is added here.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	group := r.Group("/admin", middleware.AdminOnly())
	{
		group.GET("/users/pending", h.GetPendingOrganizations)
		group.PATCH("/users/:id/verify", h.VerifyOrganization)
	}
}

// GET /admin/users/pending
func (h *Handler) GetPendingOrganizations(c *gin.Context) {
	users, err := h.service.GetPendingOrganizations(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]auth.UserPublic, 0, len(users))
	for i := range users {
		out = append(out, auth.ToUserPublic(&users[i]))
	}
	response.Success(c, http.StatusOK, out)
}

// PATCH /admin/users/:id/verify
func (h *Handler) VerifyOrganization(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	principal, _ := middleware.CurrentUser(c)
	user, err := h.service.VerifyOrganization(c.Request.Context(), principal.ID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, auth.ToUserPublic(user))
}
