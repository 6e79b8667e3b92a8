package gateway

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiddencard/internal/app"
	"hiddencard/internal/config"
	"hiddencard/internal/domain"
)

func newTestGateway() *Gateway {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := &Gateway{
		cfg:     config.Default(),
		manager: NewManager(),
		logger:  logger,
		inbound: make(chan inboundEvent, 64),
		changes: make(chan connChange, 16),
	}
	g.registry = app.NewRegistry(rand.New(rand.NewSource(1)), g, logger)
	return g
}

func TestTickDrainsInboundInArrivalOrder(t *testing.T) {
	g := newTestGateway()

	for _, id := range []domain.ClientID{"a", "b", "c", "d"} {
		g.inbound <- inboundEvent{clientID: id, ev: domain.Event{
			Kind:   domain.EventJoinRoom,
			RoomID: 0,
			Player: &domain.Player{ID: id, Name: string(id)},
		}}
	}
	g.tick()

	room := g.registry.Room(0)
	require.NotNil(t, room)
	for i, id := range []domain.ClientID{"a", "b", "c", "d"} {
		assert.Equal(t, i, room.State().SeatIndexByClient(id), "client %s", id)
	}
}

func TestDeferredEventsWaitForTheNextTick(t *testing.T) {
	g := newTestGateway()

	g.inbound <- inboundEvent{clientID: "a", ev: domain.Event{
		Kind:   domain.EventJoinRoom,
		RoomID: 0,
		Player: &domain.Player{ID: "a", Name: "a"},
	}}
	g.tick()

	// The join produced broadcast facts; they sit in the buffer until the
	// next tick flushes them.
	require.NotEmpty(t, g.deferred)

	g.tick()
	assert.Empty(t, g.deferred)
}

func TestConnectionChangesApplyBeforeInbound(t *testing.T) {
	g := newTestGateway()

	g.inbound <- inboundEvent{clientID: "a", ev: domain.Event{
		Kind:   domain.EventJoinRoom,
		RoomID: 0,
		Player: &domain.Player{ID: "a", Name: "a"},
	}}
	g.tick()
	require.Equal(t, 0, g.registry.Room(0).State().SeatIndexByClient("a"))

	g.changes <- connChange{clientID: "a", connected: false}
	g.tick()
	assert.False(t, g.registry.Room(0).State().Seats[0].Connected)

	g.changes <- connChange{clientID: "a", connected: true}
	g.tick()
	assert.True(t, g.registry.Room(0).State().Seats[0].Connected)
}

func TestManagerTracksConnectionsByClient(t *testing.T) {
	m := NewManager()
	a := &Connection{id: "a", writeChan: make(chan []byte, 1), closeChan: make(chan struct{})}
	b := &Connection{id: "b", writeChan: make(chan []byte, 1), closeChan: make(chan struct{})}

	m.Add(a)
	m.Add(b)
	assert.Equal(t, 2, m.Count())
	assert.Same(t, a, m.Get("a"))

	m.Remove(a)
	assert.Nil(t, m.Get("a"))
	assert.Equal(t, 1, m.Count())

	// Removing a stale connection must not evict the live one.
	m.Remove(a)
	assert.Same(t, b, m.Get("b"))
}
