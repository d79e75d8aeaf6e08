package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	"github.com/penlight/core/internal/models"
	pkgredis "github.com/penlight/core/internal/pkg/redis"
)

func NewHub(rc *pkgredis.Client, logger *zap.Logger, validate TokenValidator) *Hub {
	sio := socketio.NewServer(nil, nil)
	h := &Hub{
		id:         uuid.New().String(),
		sidRoom:    make(map[string]string),
		roomCount:  make(map[string]int),
		broadcast:  make(chan Message, 256),
		register:   make(chan clientMeta, 256),
		unregister: make(chan clientMeta, 256),
		rc:         rc,
		logger:     logger,
		sio:        sio,
		validate:   validate,
	}
	h.registerNamespaces()
	return h
}

// Run starts the hub loop and the Redis subscriber. Blocks until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	go h.subscribeRedis(ctx)

	for {
		select {
		case <-ctx.Done():
			h.sio.Close(nil)
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.deliver(msg)
			h.publishRedis(ctx, msg)
		}
	}
}

func (h *Hub) registerClient(c clientMeta) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if oldRoom, ok := h.sidRoom[c.sid]; ok {
		if oldRoom == c.room {
			return
		}
		if h.roomCount[oldRoom] > 0 {
			h.roomCount[oldRoom]--
		}
	}
	h.sidRoom[c.sid] = c.room
	h.roomCount[c.room]++
}

func (h *Hub) unregisterClient(c clientMeta) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.sidRoom[c.sid]
	if !ok {
		return
	}
	delete(h.sidRoom, c.sid)
	if h.roomCount[room] > 0 {
		h.roomCount[room]--
	}
}

// Broadcast queues an event for every client in room, on every instance.
func (h *Hub) Broadcast(event string, payload interface{}, room string) {
	h.broadcast <- Message{Event: event, Payload: payload, Room: room}
}

// BroadcastChat sends to the chat room.
func (h *Hub) BroadcastChat(event string, payload interface{}) {
	h.Broadcast(event, payload, RoomChat)
}

// BroadcastAdmin sends to connected admin dashboards.
func (h *Hub) BroadcastAdmin(event string, payload interface{}) {
	h.Broadcast(event, payload, RoomAdmin)
}

// ChatMessagePosted is the chat broker subscriber: every persisted message
// goes out to the chat namespace.
func (h *Hub) ChatMessagePosted(m models.ChatMessageModel) {
	h.BroadcastChat(EventChatMessage, m)
}

// ArticleSubmitted notifies admin dashboards of a new pending article.
func (h *Hub) ArticleSubmitted(a *models.ArticleModel) {
	h.BroadcastAdmin(EventArticleSubmitted, a)
}

// ReportCreated notifies admin dashboards of a new abuse report.
func (h *Hub) ReportCreated(r *models.ReportModel) {
	h.BroadcastAdmin(EventReportCreated, r)
}

// ClientCount returns connected clients, optionally filtered by room.
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room == "" {
		return len(h.sidRoom)
	}
	return h.roomCount[room]
}

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}

func (h *Hub) gatewayMessageFormat(event string, payload interface{}) gatewayPayload {
	return gatewayPayload{Type: event, Data: payload}
}

func (h *Hub) emitNamespace(nsp string, msg Message) {
	h.sio.Of(nsp, nil).Emit("message", h.gatewayMessageFormat(msg.Event, msg.Payload))
}

func (h *Hub) deliver(msg Message) {
	switch msg.Room {
	case RoomAdmin:
		h.emitNamespace(namespaceAdmin, msg)
	case RoomChat:
		h.emitNamespace(namespaceChat, msg)
	case "":
		h.emitNamespace(namespaceAdmin, msg)
		h.emitNamespace(namespaceChat, msg)
	}
}

func (h *Hub) publishRedis(ctx context.Context, msg Message) {
	channel := redisChanChat
	if msg.Room == RoomAdmin {
		channel = redisChanAdmin
	}
	msg.Origin = h.id
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := h.rc.Publish(ctx, channel, string(data)); err != nil && h.logger != nil {
		h.logger.Warn("gateway publish failed", zap.String("channel", channel), zap.Error(err))
	}
}

// subscribeRedis re-delivers broadcasts queued by other instances. Our
// own messages come back tagged with this hub's ID and are skipped; they
// were already delivered locally.
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rc.Subscribe(ctx, redisChanChat, redisChanAdmin)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return

		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			if msg.Origin == h.id {
				continue
			}
			h.deliver(msg)
		}
	}
}
