package concert

import (
	"context"
	"net/http"
	"strconv"

	"concerthall/internal/domain"
	"concerthall/internal/middleware"
	"concerthall/internal/pkg/response"
	"concerthall/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// RegisterRoutes mounts the concert endpoints. auth guards the mutating
// routes; reads and the live feed are public. Both "/concerts" and
// "/concerts/" are served.
func (h *Handler) RegisterRoutes(r gin.IRouter, auth gin.HandlerFunc) {
	concerts := r.Group("/concerts")
	{
		for _, root := range []string{"", "/"} {
			concerts.GET(root, h.List)
			concerts.POST(root, auth, h.Create)
		}
		for _, filter := range []string{"/filter", "/filter/"} {
			concerts.GET(filter, h.Filter)
		}
		if h.hub != nil {
			concerts.GET("/ws", h.hub.ServeWS)
		}
		concerts.GET("/:id", h.Get)
		concerts.PATCH("/:id", auth, h.Update)
		concerts.PATCH("/:id/cancel", auth, h.Cancel)
		concerts.DELETE("/:id", auth, h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateConcertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.ToDetails(err))
		return
	}

	user, _ := middleware.CurrentUser(c)
	concert, err := h.service.Create(c.Request.Context(), user, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, concert)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	concert, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, concert)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateConcertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.ToDetails(err))
		return
	}

	user, _ := middleware.CurrentUser(c)
	concert, err := h.service.Update(c.Request.Context(), user, id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, concert)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, _ := middleware.CurrentUser(c)
	concert, err := h.service.Cancel(c.Request.Context(), user, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, concert)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, _ := middleware.CurrentUser(c)
	if err := h.service.Delete(c.Request.Context(), user, id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, DeleteResponse{Message: "Concert deleted", ID: id})
}

func (h *Handler) List(c *gin.Context) {
	h.list(c, h.service.List)
}

// Filter only returns upcoming concerts.
func (h *Handler) Filter(c *gin.Context) {
	h.list(c, h.service.Filter)
}

type listFunc func(ctx context.Context, f domain.ConcertFilter) ([]domain.Concert, error)

func (h *Handler) list(c *gin.Context, run listFunc) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", validator.ToDetails(err))
		return
	}

	filter, err := ParseListQuery(q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	concerts, err := run(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, concerts)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid concert ID")
		return 0, false
	}
	return id, true
}
