package account

import (
	"github.com/gin-gonic/gin"

	"github.com/penlight/core/internal/middleware"
	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")

	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.GET("/verify", h.verify)

	a := g.Group("", authMW)
	a.POST("/logout", h.logout)
	a.POST("/verify/resend", h.resend)
	a.GET("/me", h.me)
	a.PATCH("/me", h.updateProfile)
	a.GET("/sessions", h.sessions)
	a.DELETE("/sessions/:id", h.revokeSession)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, token, err := h.svc.Register(&dto, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, loginResponse{Token: token, User: toProfile(u)})
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, token, err := h.svc.Login(&dto, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, loginResponse{Token: token, User: toProfile(u)})
}

func (h *Handler) logout(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if err := h.svc.Logout(u.ID, middleware.CurrentSessionID(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) verify(c *gin.Context) {
	if err := h.svc.Verify(c.Query("token")); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"verified": true})
}

func (h *Handler) resend(c *gin.Context) {
	if err := h.svc.ResendVerification(middleware.CurrentUser(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) me(c *gin.Context) {
	response.OK(c, toProfile(middleware.CurrentUser(c)))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var dto UpdateProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.UpdateProfile(middleware.CurrentUser(c), &dto)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, toProfile(u))
}

func (h *Handler) sessions(c *gin.Context) {
	u := middleware.CurrentUser(c)
	sessions, err := h.svc.Sessions(u.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	current := middleware.CurrentSessionID(c)
	response.OK(c, toSessionList(sessions, current))
}

func (h *Handler) revokeSession(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if err := h.svc.RevokeSession(u.ID, c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func toSessionList(sessions []models.UserSession, currentID string) []sessionResponse {
	out := make([]sessionResponse, len(sessions))
	for i, s := range sessions {
		out[i] = sessionResponse{
			ID:        s.ID,
			IP:        s.IP,
			UA:        s.UA,
			Current:   s.ID == currentID,
			Created:   s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		}
	}
	return out
}
