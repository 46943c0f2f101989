package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 4096
	sendBufSize = 256
)

// Handler upgrades HTTP requests and pumps messages between the websocket
// and the hub
type Handler struct {
	hub      *Hub
	exists   func(gameID string) bool
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a Handler. exists, when set, rejects subscriptions to
// unknown games.
func NewHandler(hub *Hub, exists func(gameID string) bool, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		exists: exists,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "WSHandler").Logger(),
	}
}

// ServeWS handles GET /ws. The optional ?player= query selects whose fog
// the feed follows; without it the client observes every event.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	viewer := core.NoColor
	if name := r.URL.Query().Get("player"); name != "" && name != "none" {
		c, err := core.ParseColor(name)
		if err != nil {
			http.Error(w, `{"error":"invalid player"}`, http.StatusBadRequest)
			return
		}
		viewer = c
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Conn{
		conn:   conn,
		viewer: viewer,
		send:   make(chan []byte, sendBufSize),
	}
	h.hub.Register(client)
	h.hub.send(client, Envelope{Type: TypeConnected, Data: map[string]any{"viewer": viewer}})

	go h.writePump(client)
	go h.readPump(client)

	h.logger.Info().
		Str("viewer", viewer.String()).
		Int("total", h.hub.ConnectionCount()).
		Msg("WebSocket client connected")
}

// readPump reads subscription requests until the connection drops
func (h *Handler) readPump(c *Conn) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		h.logger.Info().Str("viewer", c.viewer.String()).Msg("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket unexpected close")
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil || msg.GameID == "" {
			h.hub.send(c, Envelope{Type: TypeError, Data: map[string]any{"error": "expected {action, game_id}"}})
			continue
		}

		switch msg.Action {
		case "subscribe":
			if h.exists != nil && !h.exists(msg.GameID) {
				h.hub.send(c, Envelope{Type: TypeError, GameID: msg.GameID, Data: map[string]any{"error": "game not found"}})
				continue
			}
			h.hub.Subscribe(c, msg.GameID)
			h.hub.send(c, Envelope{Type: TypeSubscribed, GameID: msg.GameID, Data: map[string]any{}})
		case "unsubscribe":
			h.hub.Unsubscribe(c, msg.GameID)
			h.hub.send(c, Envelope{Type: TypeUnsubscribed, GameID: msg.GameID, Data: map[string]any{}})
		default:
			h.hub.send(c, Envelope{Type: TypeError, GameID: msg.GameID, Data: map[string]any{"error": "unknown action " + msg.Action}})
		}
	}
}

// writePump writes queued messages and keeps the connection alive
func (h *Handler) writePump(c *Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
