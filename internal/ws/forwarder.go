package ws

import (
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events"
)

// forwarder is the bus subscriber that feeds one game's events to the hub
type forwarder struct {
	hub    *Hub
	gameID string
}

var _ events.Subscriber = (*forwarder)(nil)

func (f *forwarder) ID() string { return "ws_forwarder_" + f.gameID }

// InterestedIn skips internal phase edges
func (f *forwarder) InterestedIn(eventType string) bool {
	return eventType != events.TypeStateTransition
}

func (f *forwarder) HandleEvent(ev events.Event) {
	f.hub.Broadcast(ev)
}

// Attach subscribes the hub to a game's bus. Its signature matches the
// game manager's creation hook.
func (h *Hub) Attach(gameID string, bus *events.EventBus) {
	bus.Subscribe(&forwarder{hub: h, gameID: gameID})
}
