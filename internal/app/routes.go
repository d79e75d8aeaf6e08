package app

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/penlight/core/internal/middleware"
	"github.com/penlight/core/internal/modules/auth/account"
	"github.com/penlight/core/internal/modules/community/application"
	"github.com/penlight/core/internal/modules/community/chat"
	"github.com/penlight/core/internal/modules/community/report"
	"github.com/penlight/core/internal/modules/content/article"
	"github.com/penlight/core/internal/modules/content/comment"
	"github.com/penlight/core/internal/modules/gateway/gateway"
	"github.com/penlight/core/internal/modules/system/admin"
	"github.com/penlight/core/internal/pkg/mail"
	"github.com/penlight/core/internal/pkg/response"
	"github.com/penlight/core/internal/pkg/storegate"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(gate *storegate.Gate) {
	r := a.router
	db := a.db

	authMW := middleware.Auth(db)
	optionalMW := middleware.OptionalAuth(db)
	adminMW := middleware.RequireAdmin()

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	r.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"uptime": time.Since(processStart).Round(time.Second).String(),
		})
	})

	api := r.Group(apiPrefix)

	// Identity
	mailer := mail.New(a.cfg.Mail)
	accountSvc := account.NewService(db, mailer, a.cfg.BaseURL, a.logger)
	account.NewHandler(accountSvc).RegisterRoutes(api, authMW)

	// Content
	articleSvc := article.NewService(db, gate)
	articleSvc.SetNotifier(a.hub)
	article.NewHandler(articleSvc).RegisterRoutes(api, authMW, optionalMW, adminMW)

	commentSvc := comment.NewService(db, gate)
	comment.NewHandler(commentSvc).RegisterRoutes(api, authMW)

	// Community
	chatSvc := chat.NewService(db, gate, chat.NewBroker())
	chatSvc.Broker().Subscribe(a.hub.ChatMessagePosted)
	chat.NewHandler(chatSvc).RegisterRoutes(api, authMW)

	reportSvc := report.NewService(db, gate)
	reportSvc.SetNotifier(a.hub)
	report.NewHandler(reportSvc).RegisterRoutes(api, authMW, adminMW)

	applicationSvc := application.NewService(db, gate)
	application.NewHandler(applicationSvc).RegisterRoutes(api, authMW, adminMW)

	// Dashboard
	adminSvc := admin.NewService(db, gate)
	adminSvc.SetScheduler(a.sched)
	admin.NewHandler(adminSvc).RegisterRoutes(api, authMW, adminMW)

	// Live delivery
	gateway.RegisterRoutes(r.Group(""), a.hub, authMW, adminMW)
}

var processStart = time.Now()
