package catalog

import (
	"net/http"
	"strconv"

	"concerthall/internal/pkg/response"
	"concerthall/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /composers and /instruments. Listing is public;
// create and fetch-by-id go through auth.
func (h *Handler) RegisterRoutes(r gin.IRouter, auth gin.HandlerFunc) {
	composers := r.Group("/composers")
	{
		for _, root := range []string{"", "/"} {
			composers.GET(root, h.ListComposers)
			composers.POST(root, auth, h.CreateComposer)
		}
		composers.GET("/:id", auth, h.GetComposer)
	}

	instruments := r.Group("/instruments")
	{
		for _, root := range []string{"", "/"} {
			instruments.GET(root, h.ListInstruments)
			instruments.POST(root, auth, h.CreateInstrument)
		}
		instruments.GET("/:id", auth, h.GetInstrument)
	}
}

/* ---------- COMPOSER HANDLERS ---------- */

func (h *Handler) CreateComposer(c *gin.Context) {
	var req CreateComposerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.ToDetails(err))
		return
	}

	composer, err := h.service.CreateComposer(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, composer)
}

func (h *Handler) GetComposer(c *gin.Context) {
	id, ok := parseID(c, "Invalid composer ID")
	if !ok {
		return
	}

	composer, err := h.service.GetComposer(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, composer)
}

func (h *Handler) ListComposers(c *gin.Context) {
	skip, limit, ok := parsePage(c)
	if !ok {
		return
	}

	composers, err := h.service.ListComposers(c.Request.Context(), skip, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, composers)
}

/* ---------- INSTRUMENT HANDLERS ---------- */

func (h *Handler) CreateInstrument(c *gin.Context) {
	var req CreateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.ToDetails(err))
		return
	}

	instrument, err := h.service.CreateInstrument(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, instrument)
}

func (h *Handler) GetInstrument(c *gin.Context) {
	id, ok := parseID(c, "Invalid instrument ID")
	if !ok {
		return
	}

	instrument, err := h.service.GetInstrument(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, instrument)
}

func (h *Handler) ListInstruments(c *gin.Context) {
	skip, limit, ok := parsePage(c)
	if !ok {
		return
	}

	instruments, err := h.service.ListInstruments(c.Request.Context(), skip, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, instruments)
}

/* ---------- HELPERS ---------- */

func parseID(c *gin.Context, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", msg)
		return 0, false
	}
	return id, true
}

func parsePage(c *gin.Context) (int, int, bool) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", validator.ToDetails(err))
		return 0, 0, false
	}

	skip, limit := 0, defaultLimit
	if q.Skip != nil {
		skip = *q.Skip
	}
	if q.Limit != nil {
		limit = *q.Limit
	}
	return skip, limit, true
}
