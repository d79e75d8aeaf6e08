package chat

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/penlight/core/internal/middleware"
	"github.com/penlight/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/chat")
	g.GET("/messages", h.history)
	g.POST("/messages", authMW, h.post)
}

func (h *Handler) history(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	items, err := h.svc.History(limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, toListResponse(items))
}

func (h *Handler) post(c *gin.Context) {
	var dto PostMessageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	msg, err := h.svc.Post(&dto, middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, toResponse(msg))
}
