package article

import (
	"github.com/gin-gonic/gin"

	"github.com/penlight/core/internal/middleware"
	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/pkg/markdown"
	"github.com/penlight/core/internal/pkg/pagination"
	"github.com/penlight/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, optionalMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/articles")

	g.GET("", h.list)
	g.GET("/mine", authMW, h.listMine)
	g.GET("/:slug", optionalMW, h.get)
	g.POST("", authMW, h.create)
	g.PATCH("/:id", authMW, h.update)
	g.DELETE("/:id", authMW, h.delete)

	a := g.Group("", authMW, adminMW)
	a.POST("/:id/approve", h.approve)
	a.POST("/:id/reject", h.reject)
	a.GET("/pending/list", h.listPending)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.List(q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paged(c, toListResponse(items), pag)
}

func (h *Handler) listMine(c *gin.Context) {
	u := middleware.CurrentUser(c)
	q := pagination.FromContext(c)
	items, pag, err := h.svc.ListByAuthor(u.ID, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paged(c, toListResponse(items), pag)
}

func (h *Handler) listPending(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.ListPending(q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paged(c, toListResponse(items), pag)
}

func (h *Handler) get(c *gin.Context) {
	a, err := h.svc.GetBySlug(c.Param("slug"), middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, toResponse(a, true, markdown.Render(a.Text)))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Create(&dto, middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, toResponse(a, true, ""))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Update(c.Param("id"), &dto, middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, toResponse(a, true, ""))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id"), middleware.CurrentUser(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) approve(c *gin.Context) {
	h.review(c, models.ArticleApproved)
}

func (h *Handler) reject(c *gin.Context) {
	h.review(c, models.ArticleRejected)
}

func (h *Handler) review(c *gin.Context, next models.ArticleStatus) {
	a, err := h.svc.Review(c.Param("id"), next)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, toResponse(a, false, ""))
}
