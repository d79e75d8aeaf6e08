package application

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
	g := rg.Group("/applications")
	g.POST("", authMW, h.submit)
	g.GET("/mine", authMW, h.mine)

	a := g.Group("", authMW, adminMW)
	a.GET("", h.list)
	a.POST("/:id/decide", h.decide)
}

func (h *Handler) submit(c *gin.Context) {
	var dto SubmitApplicationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Submit(&dto, middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, toResponse(a))
}

func (h *Handler) mine(c *gin.Context) {
	items, err := h.svc.Mine(middleware.CurrentUser(c).ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, toListResponse(items))
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	status := models.ApplicationStatus(c.Query("status"))
	items, pag, err := h.svc.List(status, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paged(c, toListResponse(items), pag)
}

func (h *Handler) decide(c *gin.Context) {
	var dto DecideApplicationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Decide(c.Param("id"), dto.Approve)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, toResponse(a))
}
