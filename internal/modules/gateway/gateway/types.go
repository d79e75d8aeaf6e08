package gateway

import (
	"sync"

	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	"github.com/penlight/core/internal/models"
	pkgredis "github.com/penlight/core/internal/pkg/redis"
)

const (
	RoomChat  = "chat"
	RoomAdmin = "admin"

	namespaceChat  = "/chat"
	namespaceAdmin = "/admin"

	redisChanChat  = "penlight:gateway:chat"
	redisChanAdmin = "penlight:gateway:admin"

	// Events pushed to connected clients.
	EventChatMessage      = "chat_message"
	EventReportCreated    = "report_created"
	EventArticleSubmitted = "article_submitted"
	eventConnected        = "GATEWAY_CONNECT"
	eventAuthFailed       = "AUTH_FAILED"
)

// Message is the envelope used by hub broadcasts and Redis fan-out.
// Origin carries the publishing instance so subscribers can skip messages
// they already delivered locally.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
	Origin  string      `json:"origin,omitempty"`
}

type gatewayPayload struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clientMeta struct {
	sid  string
	room string
}

// TokenValidator resolves a raw handshake token to an account, or an
// error for anonymous/expired tokens.
type TokenValidator func(token string) (*models.UserModel, error)

// Hub manages the socket.io namespaces and cross-instance fan-out.
type Hub struct {
	mu sync.RWMutex

	sidRoom   map[string]string
	roomCount map[string]int

	broadcast  chan Message
	register   chan clientMeta
	unregister chan clientMeta

	id       string
	rc       *pkgredis.Client
	logger   *zap.Logger
	sio      *socketio.Server
	validate TokenValidator
}
