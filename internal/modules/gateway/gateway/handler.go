package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts socket.io and the connection stats endpoint.
func RegisterRoutes(rg *gin.RouterGroup, hub *Hub, authMW, adminMW gin.HandlerFunc) {
	handler := gin.WrapH(hub.Handler())
	rg.Any("/socket.io", handler)
	rg.Any("/socket.io/*any", handler)

	rg.GET("/gateway/stats", authMW, adminMW, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"chat":  hub.ClientCount(RoomChat),
			"admin": hub.ClientCount(RoomAdmin),
			"total": hub.ClientCount(""),
		})
	})
}
