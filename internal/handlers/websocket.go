package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cartel47-backend/internal/middleware"
	"cartel47-backend/internal/models"
)

const (
	MessageBetSettled = "BET_SETTLED"
	MessagePing       = "PING"
	MessagePong       = "PONG"

	writeWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub *WebSocketHub
	log *zap.Logger
}

// WebSocketHub owns every connection. Only run writes to a connection, so
// writes never race.
type WebSocketHub struct {
	clients    map[string]*websocket.Conn
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	log        *zap.Logger
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
}

type Message struct {
	Type   string      `json:"type"`
	UserID string      `json:"user_id,omitempty"`
	BetID  string      `json:"bet_id,omitempty"`
	Data   interface{} `json:"data"`
}

func NewWebSocketHandler(log *zap.Logger) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[string]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
		done:       make(chan struct{}),
		log:        log,
	}

	go hub.run()

	return &WebSocketHandler{
		hub: hub,
		log: log,
	}
}

func (h *WebSocketHandler) Close() {
	close(h.hub.done)
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("failed to upgrade to websocket", zap.Error(err))
		return
	}

	client := &Client{
		UserID: userID,
		Conn:   conn,
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	defer func() {
		select {
		case h.hub.unregister <- client:
		case <-h.hub.done:
			conn.Close()
		}
	}()

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("websocket error", zap.String("user_id", userID), zap.Error(err))
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case MessagePing:
		h.send(&Message{
			Type:   MessagePong,
			UserID: client.UserID,
			Data: gin.H{
				"timestamp": time.Now().Unix(),
			},
		})
	}
}

// BroadcastBetSettled pushes the settled bet and its proof to the owner.
// A full queue drops the event rather than blocking settlement.
func (h *WebSocketHandler) BroadcastBetSettled(bet *models.Bet, proof models.ProofBundle) {
	h.send(&Message{
		Type:   MessageBetSettled,
		UserID: bet.UserID,
		BetID:  bet.ID,
		Data: gin.H{
			"bet":   bet,
			"proof": proof,
		},
	})
}

func (h *WebSocketHandler) send(msg *Message) {
	select {
	case h.hub.broadcast <- msg:
	default:
		h.log.Warn("websocket queue full, dropping message",
			zap.String("type", msg.Type),
			zap.String("user_id", msg.UserID),
		)
	}
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			if old, ok := hub.clients[client.UserID]; ok && old != client.Conn {
				old.Close()
			}
			hub.clients[client.UserID] = client.Conn
			hub.log.Debug("client registered", zap.String("user_id", client.UserID))

		case client := <-hub.unregister:
			if conn, ok := hub.clients[client.UserID]; ok && conn == client.Conn {
				delete(hub.clients, client.UserID)
				hub.log.Debug("client unregistered", zap.String("user_id", client.UserID))
			}
			client.Conn.Close()

		case message := <-hub.broadcast:
			hub.broadcastMessage(message)

		case <-hub.done:
			for userID, conn := range hub.clients {
				conn.Close()
				delete(hub.clients, userID)
			}
			return
		}
	}
}

func (hub *WebSocketHub) broadcastMessage(message *Message) {
	if message.UserID != "" {
		if conn, ok := hub.clients[message.UserID]; ok {
			hub.write(message.UserID, conn, message)
		}
		return
	}

	for userID, conn := range hub.clients {
		hub.write(userID, conn, message)
	}
}

func (hub *WebSocketHub) write(userID string, conn *websocket.Conn, message *Message) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(message); err != nil {
		hub.log.Debug("websocket write failed", zap.String("user_id", userID), zap.Error(err))
	}
}
