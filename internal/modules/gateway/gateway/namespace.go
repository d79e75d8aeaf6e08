package gateway

import (
	"strings"

	socketio "github.com/zishang520/socket.io/v2/socket"

	"github.com/penlight/core/internal/models"
)

func (h *Hub) registerNamespaces() {
	chatNS := h.sio.Of(namespaceChat, nil)
	_ = chatNS.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}

		user := h.authenticate(client)
		if user == nil {
			_ = client.Emit("message", h.gatewayMessageFormat(eventAuthFailed, "sign in to join the chat"))
			client.Disconnect(true)
			return
		}

		sid := string(client.Id())
		h.register <- clientMeta{sid: sid, room: RoomChat}
		_ = client.Emit("message", h.gatewayMessageFormat(eventConnected, "connected"))

		_ = client.On("disconnect", func(_ ...any) {
			h.unregister <- clientMeta{sid: sid, room: RoomChat}
		})
	})

	adminNS := h.sio.Of(namespaceAdmin, nil)
	_ = adminNS.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}

		user := h.authenticate(client)
		if user == nil || !user.IsAdmin() {
			_ = client.Emit("message", h.gatewayMessageFormat(eventAuthFailed, "auth failed"))
			client.Disconnect(true)
			return
		}

		sid := string(client.Id())
		h.register <- clientMeta{sid: sid, room: RoomAdmin}
		_ = client.Emit("message", h.gatewayMessageFormat(eventConnected, "connected"))

		_ = client.On("disconnect", func(_ ...any) {
			h.unregister <- clientMeta{sid: sid, room: RoomAdmin}
		})
	})
}

func (h *Hub) authenticate(client *socketio.Socket) *models.UserModel {
	if h.validate == nil {
		return nil
	}
	token := extractToken(client)
	if token == "" {
		return nil
	}
	user, err := h.validate(token)
	if err != nil {
		return nil
	}
	return user
}

func extractToken(client *socketio.Socket) string {
	handshake := client.Handshake()
	if handshake == nil {
		return ""
	}
	if token := firstValueFromMultiMap(handshake.Query, "token"); token != "" {
		return token
	}
	return firstValueFromMultiMap(handshake.Headers, "authorization")
}

func firstValueFromMultiMap(values map[string][]string, key string) string {
	for k, list := range values {
		if !strings.EqualFold(strings.TrimSpace(k), key) || len(list) == 0 {
			continue
		}
		if v := strings.TrimSpace(list[0]); v != "" {
			return v
		}
	}
	return ""
}
