package gameserver

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events"
)

const streamBufferSize = 256

// streamClient represents a connected stream for one viewer
type streamClient struct {
	id         string
	viewer     core.Color
	updateChan chan *structpb.Struct
}

// StreamManager fans a game's events out to its stream clients. It is
// subscribed to the game's event bus.
type StreamManager struct {
	gameID    string
	clients   map[string]*streamClient // client id -> stream client
	clientsMu sync.RWMutex             // Protects clients map
	closed    bool
	logger    zerolog.Logger
}

var _ events.Subscriber = (*StreamManager)(nil)

// NewStreamManager creates a new stream manager
func NewStreamManager(gameID string, logger zerolog.Logger) *StreamManager {
	return &StreamManager{
		gameID:  gameID,
		clients: make(map[string]*streamClient),
		logger:  logger.With().Str("component", "StreamManager").Str("game_id", gameID).Logger(),
	}
}

// RegisterClient adds a stream client for viewer and returns it. It returns
// nil once the manager has been closed.
func (sm *StreamManager) RegisterClient(viewer core.Color) *streamClient {
	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()

	if sm.closed {
		return nil
	}
	client := &streamClient{
		id:         uuid.NewString(),
		viewer:     viewer,
		updateChan: make(chan *structpb.Struct, streamBufferSize),
	}
	sm.clients[client.id] = client

	sm.logger.Debug().
		Str("client_id", client.id).
		Str("viewer", viewer.String()).
		Int("total_streams", len(sm.clients)).
		Msg("Stream client registered")
	return client
}

// UnregisterClient removes a stream client
func (sm *StreamManager) UnregisterClient(id string) {
	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()

	if client, exists := sm.clients[id]; exists {
		close(client.updateChan)
		delete(sm.clients, id)

		sm.logger.Debug().
			Str("client_id", id).
			Int("remaining_streams", len(sm.clients)).
			Msg("Stream client unregistered")
	}
}

// GetClientCount returns the number of connected stream clients
func (sm *StreamManager) GetClientCount() int {
	sm.clientsMu.RLock()
	defer sm.clientsMu.RUnlock()
	return len(sm.clients)
}

// CloseAll closes all stream clients and refuses new ones
func (sm *StreamManager) CloseAll() {
	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()

	sm.closed = true
	for id, client := range sm.clients {
		close(client.updateChan)
		delete(sm.clients, id)
	}
}

// ID implements events.Subscriber
func (sm *StreamManager) ID() string {
	return "stream_manager_" + sm.gameID
}

// InterestedIn implements events.Subscriber. Internal phase edges stay on the server.
func (sm *StreamManager) InterestedIn(eventType string) bool {
	return eventType != events.TypeStateTransition
}

// HandleEvent implements events.Subscriber
func (sm *StreamManager) HandleEvent(ev events.Event) {
	if sm.GetClientCount() == 0 {
		return
	}
	update, err := toStruct(eventEnvelope{
		Type:      ev.Type(),
		GameID:    ev.GameID(),
		Timestamp: ev.Timestamp().Format(time.RFC3339Nano),
		Data:      ev,
	})
	if err != nil {
		sm.logger.Error().Err(err).Str("event_type", ev.Type()).Msg("Failed to encode stream update")
		return
	}

	sm.clientsMu.RLock()
	defer sm.clientsMu.RUnlock()

	for id, client := range sm.clients {
		if !events.VisibleTo(ev, client.viewer) {
			continue
		}
		// Non-blocking send to avoid blocking the game
		select {
		case client.updateChan <- update:
		default:
			sm.logger.Warn().
				Str("client_id", id).
				Str("event_type", ev.Type()).
				Msg("Stream update channel full, dropping update")
		}
	}
}
