package report

import (
	"github.com/gin-gonic/gin"

	"github.com/penlight/core/internal/middleware"
	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/pkg/pagination"
	"github.com/penlight/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/reports")
	g.POST("", authMW, h.submit)

	a := g.Group("", authMW, adminMW)
	a.GET("", h.list)
	a.POST("/:id/resolve", h.resolve)
}

func (h *Handler) submit(c *gin.Context) {
	var dto SubmitReportDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	r, err := h.svc.Submit(&dto, middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, toResponse(r))
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	status := models.ReportStatus(c.Query("status"))
	items, pag, err := h.svc.List(status, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paged(c, toListResponse(items), pag)
}

func (h *Handler) resolve(c *gin.Context) {
	r, err := h.svc.Resolve(c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, toResponse(r))
}
