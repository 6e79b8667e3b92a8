package domain

// EventKind tags the wire event union.
type EventKind string

const (
	// Client -> registry.
	EventCreateRoom         EventKind = "create_room"
	EventJoinRoom           EventKind = "join_room"
	EventReJoinRoom         EventKind = "rejoin_room"
	EventPlayerLeave        EventKind = "player_leave"
	EventClientJustLaunched EventKind = "client_just_launched"
	EventRoomReset          EventKind = "room_reset"   // dev only
	EventServerReset        EventKind = "server_reset" // dev only

	// Client -> room (table actions).
	EventReady      EventKind = "ready"
	EventHandSorted EventKind = "hand_sorted"
	EventCallCard   EventKind = "call_card"
	EventBlock      EventKind = "block"
	EventPlayCards  EventKind = "play_cards"
	EventPass       EventKind = "pass"

	// Server-synthesized facts.
	EventAssignSeat  EventKind = "assign_seat"
	EventToDealStage EventKind = "to_deal_stage"
	EventDealHand    EventKind = "deal_hand"
	EventToCallStage EventKind = "to_call_stage"
	EventEnded       EventKind = "ended"

	// Server -> client only.
	EventJoinRoomOk       EventKind = "join_room_ok"
	EventReJoinRoomOk     EventKind = "rejoin_room_ok"
	EventAskForRejoinRoom EventKind = "ask_for_rejoin_room"
	EventSyncState        EventKind = "sync_state"
	EventRoomError        EventKind = "room_error"

	// Transport notifications, injected by the gateway.
	EventPlayerConnected    EventKind = "player_connected"
	EventPlayerDisconnected EventKind = "player_disconnected"
)

// Event is the single wire message. Which fields are meaningful depends on
// Kind; unused fields stay at their zero value.
type Event struct {
	Kind EventKind `json:"kind"`

	Player   *Player  `json:"player,omitempty"`
	ClientID ClientID `json:"client_id,omitempty"`
	RoomID   RoomID   `json:"room_id,omitempty"`

	Seat  int    `json:"seat,omitempty"`
	Card  *Card  `json:"card,omitempty"`
	Cards []Card `json:"cards,omitempty"`

	State   *GameState `json:"state,omitempty"`
	Scores  []int      `json:"scores,omitempty"`
	Winners []int      `json:"winners,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}
