// Package ws serves a game's event feed to websocket clients.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events"
)

// Envelope types the hub sends besides engine events
const (
	TypeConnected    = "connected"
	TypeSubscribed   = "subscribed"
	TypeUnsubscribed = "unsubscribed"
	TypeGameRemoved  = "game.removed"
	TypeError        = "error"
)

// Envelope wraps every message sent to a client
type Envelope struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
	Data   any    `json:"data"`
}

// ClientMessage is what a client sends: {"action":"subscribe","game_id":"..."}
type ClientMessage struct {
	Action string `json:"action"`
	GameID string `json:"game_id"`
}

// Conn is one websocket client. viewer decides which private events it gets.
type Conn struct {
	conn   *websocket.Conn
	viewer core.Color
	send   chan []byte
}

// Hub tracks connections and their game subscriptions
type Hub struct {
	mu          sync.RWMutex
	connections map[*Conn]bool
	games       map[string]map[*Conn]bool // gameID -> set of connections
	logger      zerolog.Logger
}

// NewHub creates an empty hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[*Conn]bool),
		games:       make(map[string]map[*Conn]bool),
		logger:      logger.With().Str("component", "WSHub").Logger(),
	}
}

// Register adds a connection to the hub
func (h *Hub) Register(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

// Unregister removes a connection and all its subscriptions, then closes its
// send channel
func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connections[c] {
		return
	}
	delete(h.connections, c)
	for gameID, conns := range h.games {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.games, gameID)
		}
	}
	close(c.send)
}

// Subscribe adds a connection to a game's feed
func (h *Hub) Subscribe(c *Conn, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connections[c] {
		return
	}
	if h.games[gameID] == nil {
		h.games[gameID] = make(map[*Conn]bool)
	}
	h.games[gameID][c] = true
}

// Unsubscribe removes a connection from a game's feed
func (h *Hub) Unsubscribe(c *Conn, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.games[gameID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.games, gameID)
		}
	}
}

// Broadcast sends ev to every subscriber of its game allowed to see it
func (h *Hub) Broadcast(ev events.Event) {
	gameID := ev.GameID()
	data, err := json.Marshal(Envelope{Type: ev.Type(), GameID: gameID, Data: ev})
	if err != nil {
		h.logger.Error().Err(err).Str("game_id", gameID).Str("event_type", ev.Type()).Msg("Failed to marshal websocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.games[gameID] {
		if !events.VisibleTo(ev, c.viewer) {
			continue
		}
		h.enqueue(c, gameID, data)
	}
}

// CloseGame tells a game's subscribers it is gone and drops the subscriptions
func (h *Hub) CloseGame(gameID string) {
	data, _ := json.Marshal(Envelope{Type: TypeGameRemoved, GameID: gameID, Data: map[string]any{}})

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.games[gameID] {
		h.enqueue(c, gameID, data)
	}
	delete(h.games, gameID)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.connections {
		close(c.send)
	}
	h.connections = make(map[*Conn]bool)
	h.games = make(map[string]map[*Conn]bool)
}

// ConnectionCount returns the number of connected clients
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// GameSubscriberCount returns the number of connections subscribed to a game
func (h *Hub) GameSubscriberCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// send queues a reply for one connection
func (h *Hub) send(c *Conn, env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error().Err(err).Str("type", env.Type).Msg("Failed to marshal websocket reply")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.connections[c] {
		h.enqueue(c, env.GameID, data)
	}
}

// enqueue must be called with h.mu held
func (h *Hub) enqueue(c *Conn, gameID string, data []byte) {
	select {
	case c.send <- data:
	default:
		h.logger.Warn().
			Str("game_id", gameID).
			Str("viewer", c.viewer.String()).
			Msg("Dropping websocket message, buffer full")
	}
}
