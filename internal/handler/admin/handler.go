package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/handler"
	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/service/salon"
)

// Handler exposes the salon moderation endpoints. Routes are mounted
// behind the admin role check.
type Handler struct {
	service *salon.AdminService
}

func NewHandler(service *salon.AdminService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/admin/salons")
	{
		group.GET("", h.ListAll)
		group.GET("/:id", h.Get)
		group.POST("/:id/approve", h.Approve)
		group.POST("/:id/block", h.Block)
		group.POST("/:id/reactivate", h.Reactivate)
	}
}

func (h *Handler) ListAll(c *gin.Context) {
	var status *model.SalonStatus
	if v := c.Query("status"); v != "" {
		s := model.SalonStatus(v)
		status = &s
	}

	salons, err := h.service.ListAll(c.Request.Context(), status)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(salons))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid salon ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) Approve(c *gin.Context) {
	h.transition(c, h.service.Approve)
}

func (h *Handler) Block(c *gin.Context) {
	h.transition(c, h.service.Block)
}

func (h *Handler) Reactivate(c *gin.Context) {
	h.transition(c, h.service.Reactivate)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*model.Salon, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid salon ID"))
		return
	}

	updated, err := fn(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}
