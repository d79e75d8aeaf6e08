package comment

import (
	"github.com/gin-gonic/gin"

	"github.com/penlight/core/internal/middleware"
	"github.com/penlight/core/internal/pkg/pagination"
	"github.com/penlight/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/articles/:slug/comments", h.listByArticle)
	rg.POST("/articles/:slug/comments", authMW, h.create)
	rg.DELETE("/comments/:id", authMW, h.delete)
}

// listByArticle accepts the article's ID in the :slug position; comments
// hang off the article's document ID, which the article payload exposes.
func (h *Handler) listByArticle(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.ListByArticle(c.Param("slug"), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paged(c, toListResponse(items), pag)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.svc.Create(c.Param("slug"), &dto, middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, toResponse(cm))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id"), middleware.CurrentUser(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
