package events_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events"
)

func TestBuffer(t *testing.T) {
	bus := events.NewEventBusWithLogger(zerolog.Nop())
	var got []string
	bus.SubscribeFunc(events.TypeMessage, func(e events.Event) {
		got = append(got, e.(*events.MessageEvent).Text)
	})

	buf := events.NewBuffer(bus)
	buf.Publish(events.NewMessageEvent("g", core.White, events.SeverityInfo, "first", 1))
	buf.Publish(events.NewMessageEvent("g", core.White, events.SeverityInfo, "second", 1))
	assert.Empty(t, got, "nothing is delivered before Deliver")

	buf.Deliver(buf.Take())
	assert.Equal(t, []string{"first", "second"}, got)
	assert.Empty(t, buf.Take())

	buf.Deliver(buf.Take())
	assert.Len(t, got, 2, "delivering an empty batch is a no-op")
}

func TestBuffer_TakeAndDeliver(t *testing.T) {
	bus := events.NewEventBusWithLogger(zerolog.Nop())
	count := 0
	bus.SubscribeFunc(events.TypeGameOver, func(events.Event) { count++ })

	buf := events.NewBuffer(bus)
	buf.Publish(events.NewGameOverEvent("g", core.Black, 0, 4))

	taken := buf.Take()
	require.Len(t, taken, 1)
	assert.Zero(t, count)

	// Events published while delivering land in the buffer for the next batch
	bus.SubscribeFunc(events.TypeGameOver, func(events.Event) {
		buf.Publish(events.NewMessageEvent("g", core.NoColor, events.SeverityInfo, "after", 4))
	})
	buf.Deliver(taken)
	assert.Equal(t, 1, count)

	next := buf.Take()
	require.Len(t, next, 1)
	assert.Equal(t, "after", next[0].(*events.MessageEvent).Text)
}
