package app

import (
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"hiddencard/internal/domain"
)

var (
	ErrAlreadyInRoom    = errors.New("client is already in a room")
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrClientNotInRoom  = errors.New("client is not in a room")
	ErrActionNotAllowed = errors.New("action not allowed")
)

// Registry owns every room and the client-to-room membership map. It is a
// plain struct handed to the gateway; like the rooms it owns, it is only
// called from the tick loop and needs no locking.
type Registry struct {
	rooms      map[domain.RoomID]*Room
	clientRoom map[domain.ClientID]domain.RoomID
	nextRoomID domain.RoomID

	rng    *rand.Rand
	sink   EventSink
	logger *slog.Logger
}

// NewRegistry constructs a registry with one pre-provisioned room, so the
// first client can join without creating anything.
func NewRegistry(rng *rand.Rand, sink EventSink, logger *slog.Logger) *Registry {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	reg := &Registry{
		rooms:      make(map[domain.RoomID]*Room),
		clientRoom: make(map[domain.ClientID]domain.RoomID),
		rng:        rng,
		sink:       sink,
		logger:     logger,
	}
	reg.rooms[reg.nextRoomID] = NewRoom(reg.nextRoomID, "", rng, sink, logger)
	reg.nextRoomID++
	return reg
}

// Room returns the room by id, or nil.
func (reg *Registry) Room(id domain.RoomID) *Room { return reg.rooms[id] }

// RoomOf returns the room the client belongs to, or nil.
func (reg *Registry) RoomOf(id domain.ClientID) *Room {
	roomID, ok := reg.clientRoom[id]
	if !ok {
		return nil
	}
	return reg.rooms[roomID]
}

// Process runs one client-sent event. The sender identity comes from the
// authenticated connection, never from the wire payload. A returned error
// belongs to the sender; the gateway forwards it as a room_error event.
func (reg *Registry) Process(id domain.ClientID, ev domain.Event) error {
	switch ev.Kind {
	case domain.EventCreateRoom:
		return reg.createRoom(id, ev.Player)

	case domain.EventJoinRoom:
		return reg.joinRoom(id, ev.RoomID, ev.Player)

	case domain.EventReJoinRoom:
		return reg.rejoinRoom(id, ev.Player)

	case domain.EventPlayerLeave:
		room := reg.RoomOf(id)
		if room == nil {
			return ErrClientNotInRoom
		}
		room.Leave(id)
		delete(reg.clientRoom, id)
		return nil

	case domain.EventClientJustLaunched:
		if roomID, ok := reg.clientRoom[id]; ok {
			reg.sink.Send([]domain.ClientID{id}, domain.Event{
				Kind:   domain.EventAskForRejoinRoom,
				RoomID: roomID,
			})
		}
		return nil

	case domain.EventRoomReset:
		room := reg.RoomOf(id)
		if room == nil {
			return ErrClientNotInRoom
		}
		reg.logger.Warn("room reset", "room", room.ID, "client", id)
		room.Reset()
		return nil

	case domain.EventServerReset:
		reg.logger.Warn("server reset", "client", id)
		reg.rooms = map[domain.RoomID]*Room{
			0: NewRoom(0, "", reg.rng, reg.sink, reg.logger),
		}
		reg.clientRoom = make(map[domain.ClientID]domain.RoomID)
		reg.nextRoomID = 1
		return nil

	case domain.EventReady, domain.EventHandSorted, domain.EventCallCard,
		domain.EventBlock, domain.EventPlayCards, domain.EventPass:
		room := reg.RoomOf(id)
		if room == nil {
			return ErrClientNotInRoom
		}
		room.ProcessClientEvent(id, ev)
		return nil

	default:
		// Server-synthesized kinds arriving over the wire are forgeries.
		return ErrActionNotAllowed
	}
}

// HandleConnection is the gateway's channel for transport-level connect and
// disconnect. It is not reachable from the wire, so player_connected events
// cannot be forged by a client.
func (reg *Registry) HandleConnection(id domain.ClientID, connected bool) {
	room := reg.RoomOf(id)
	if room == nil {
		return
	}
	room.SetConnected(id, connected)
}

func (reg *Registry) createRoom(id domain.ClientID, p *domain.Player) error {
	if _, ok := reg.clientRoom[id]; ok {
		return ErrAlreadyInRoom
	}
	if p == nil {
		return ErrActionNotAllowed
	}
	p.ID = id

	// The room is registered only once the creator is seated, so a failed
	// join leaves nothing behind.
	room := NewRoom(reg.nextRoomID, id, reg.rng, reg.sink, reg.logger)
	if err := room.Join(p); err != nil {
		return err
	}
	reg.rooms[room.ID] = room
	reg.nextRoomID++
	reg.clientRoom[id] = room.ID
	reg.logger.Info("room created", "room", room.ID, "creator", id)
	return nil
}

func (reg *Registry) joinRoom(id domain.ClientID, roomID domain.RoomID, p *domain.Player) error {
	if _, ok := reg.clientRoom[id]; ok {
		return ErrAlreadyInRoom
	}
	room, ok := reg.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	if p == nil {
		return ErrActionNotAllowed
	}
	p.ID = id

	if err := room.Join(p); err != nil {
		return err
	}
	reg.clientRoom[id] = room.ID
	return nil
}

func (reg *Registry) rejoinRoom(id domain.ClientID, p *domain.Player) error {
	room := reg.RoomOf(id)
	if room == nil {
		return ErrClientNotInRoom
	}
	if p == nil {
		p = &domain.Player{ID: id}
	}
	p.ID = id
	return room.Rejoin(p)
}
