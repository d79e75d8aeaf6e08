package admin

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
	g := rg.Group("/admin", authMW, adminMW)

	g.GET("/overview", h.overview)
	g.GET("/users", h.listUsers)
	g.PATCH("/users/:id/status", h.setStatus)
	g.POST("/users/:id/ban-toggle", h.toggleStatus)
	g.PATCH("/users/:id/role", h.setRole)
	g.GET("/cron", h.listCronJobs)
	g.POST("/cron/:name/run", h.runCronJob)
}

func (h *Handler) overview(c *gin.Context) {
	o, err := h.svc.Overview()
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, o)
}

func (h *Handler) listUsers(c *gin.Context) {
	q := pagination.FromContext(c)
	role := models.UserRole(c.Query("role"))
	status := models.UserStatus(c.Query("status"))

	items, pag, err := h.svc.ListUsers(role, status, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paged(c, toListResponse(items), pag)
}

func (h *Handler) setStatus(c *gin.Context) {
	var dto SetStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.SetUserStatus(c.Param("id"), dto.Status, middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, toResponse(u))
}

func (h *Handler) toggleStatus(c *gin.Context) {
	u, err := h.svc.ToggleUserStatus(c.Param("id"), middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, toResponse(u))
}

func (h *Handler) setRole(c *gin.Context) {
	var dto SetRoleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.SetUserRole(c.Param("id"), dto.Role, middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, toResponse(u))
}

func (h *Handler) listCronJobs(c *gin.Context) {
	response.OK(c, h.svc.CronJobs())
}

func (h *Handler) runCronJob(c *gin.Context) {
	sum, err := h.svc.RunCronJob(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, sum)
}
