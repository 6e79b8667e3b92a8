package app

import (
	"log/slog"
	"math/rand"

	"hiddencard/internal/domain"
)

const (
	handSize = 13

	// baseWager is the per-opponent coin stake settled at the end of a hand.
	baseWager = 100
)

// Room hosts one table: the authoritative game state, the deck, and the set
// of member clients. Rooms are owned by the Registry and are only touched
// from the gateway tick loop, so they carry no locking.
type Room struct {
	ID      domain.RoomID
	Creator domain.ClientID

	state   *domain.GameState
	deck    *domain.Deck
	members map[domain.ClientID]*domain.Player

	rng    *rand.Rand
	sink   EventSink
	logger *slog.Logger

	queue []domain.Event
}

// NewRoom constructs an empty room in the pre-game stage.
func NewRoom(id domain.RoomID, creator domain.ClientID, rng *rand.Rand, sink EventSink, logger *slog.Logger) *Room {
	return &Room{
		ID:      id,
		Creator: creator,
		state:   domain.NewGameState(),
		deck:    domain.NewDeck(),
		members: make(map[domain.ClientID]*domain.Player),
		rng:     rng,
		sink:    sink,
		logger:  logger.With("room", id),
	}
}

// State exposes the authoritative state for read-only inspection.
func (r *Room) State() *domain.GameState { return r.state }

// Join seats the player at the first vacant seat, acks the join and
// broadcasts the new table snapshot.
func (r *Room) Join(p *domain.Player) error {
	if !r.state.HasVacantSeat() {
		return ErrRoomFull
	}
	r.members[p.ID] = p
	r.sink.Send([]domain.ClientID{p.ID}, domain.Event{
		Kind:   domain.EventJoinRoomOk,
		RoomID: r.ID,
	})
	r.ProcessEvent(domain.Event{
		Kind:     domain.EventAssignSeat,
		Seat:     r.state.VacantSeatIndex(),
		Player:   p,
		ClientID: p.ID,
	})
	r.broadcastSync()
	return nil
}

// Rejoin reattaches a client to its existing seat. The client gets a fresh
// redacted snapshot, never an event replay.
func (r *Room) Rejoin(p *domain.Player) error {
	if r.state.SeatIndexByClient(p.ID) < 0 {
		return ErrClientNotInRoom
	}
	r.members[p.ID] = p
	r.ProcessEvent(domain.Event{Kind: domain.EventPlayerConnected, ClientID: p.ID})
	r.sink.Send([]domain.ClientID{p.ID}, domain.Event{
		Kind:   domain.EventReJoinRoomOk,
		RoomID: r.ID,
		State:  r.state.RedactedFor(p.ID),
	})
	r.broadcastSync()
	return nil
}

// Leave drops the client from the room. Before the hand starts the seat is
// vacated; mid-hand the seat stays occupied but goes disconnected, so the
// table does not shift under the remaining players.
func (r *Room) Leave(id domain.ClientID) {
	delete(r.members, id)
	seat := r.state.SeatIndexByClient(id)
	if seat < 0 {
		return
	}
	switch r.state.Stage {
	case domain.StagePreGame, domain.StageEnded:
		r.state.Seats[seat] = domain.PlayerSeat{}
	default:
		r.ProcessEvent(domain.Event{Kind: domain.EventPlayerDisconnected, ClientID: id})
	}
	r.broadcastSync()
}

// SetConnected flips the seat's connected flag from a transport notification.
func (r *Room) SetConnected(id domain.ClientID, connected bool) {
	kind := domain.EventPlayerConnected
	if !connected {
		kind = domain.EventPlayerDisconnected
	}
	r.ProcessEvent(domain.Event{Kind: kind, ClientID: id})
	r.broadcastSync()
}

// Reset abandons the current hand and returns the table to the pre-game
// stage. Dev tooling only.
func (r *Room) Reset() {
	r.state.ResetHand()
	r.broadcastSync()
}

// Empty reports whether no clients remain in the room.
func (r *Room) Empty() bool { return len(r.members) == 0 }

// ProcessClientEvent sanitizes a client-sent table action and runs it. The
// seat is always resolved server-side from the sender's identity; whatever
// the wire said is discarded.
func (r *Room) ProcessClientEvent(id domain.ClientID, ev domain.Event) {
	ev.ClientID = id
	ev.Seat = r.state.SeatIndexByClient(id)
	ev.Player = nil
	ev.State = nil
	r.ProcessEvent(ev)
}

// ProcessEvent runs the event and every event it derives through the
// validate/reduce/publish pipeline. Derived events go through an explicit
// FIFO queue so a single client action settles in bounded, ordered steps.
func (r *Room) ProcessEvent(ev domain.Event) {
	r.queue = append(r.queue, ev)
	for len(r.queue) > 0 {
		next := r.queue[0]
		r.queue = r.queue[1:]
		r.step(next)
	}
}

func (r *Room) enqueue(ev domain.Event) {
	r.queue = append(r.queue, ev)
}

func (r *Room) step(ev domain.Event) {
	if !r.state.Validate(ev) {
		r.logger.Debug("event rejected", "kind", ev.Kind, "seat", ev.Seat, "client", ev.ClientID)
		return
	}
	if err := r.state.Reduce(ev); err != nil {
		r.logger.Error("reduce failed", "kind", ev.Kind, "err", err)
		return
	}
	r.publish(ev)
	r.derive(ev)
}

// publish fans the applied fact out to the room. Hands are confidential:
// DealHand goes only to its seat's client, everything else is broadcast.
func (r *Room) publish(ev domain.Event) {
	switch ev.Kind {
	case domain.EventDealHand:
		p := r.state.Seats[ev.Seat].Player
		if p == nil {
			return
		}
		r.sink.SendDeferred([]domain.ClientID{p.ID}, ev)
	case domain.EventEnded:
		// Published by finishHand with scores and winners attached.
	default:
		r.sink.SendDeferred(r.memberIDs(), ev)
	}
}

// derive enqueues the follow-up events a fact triggers.
func (r *Room) derive(ev domain.Event) {
	switch ev.Kind {
	case domain.EventReady:
		if r.state.Stage == domain.StagePreGame && r.state.AllReady() {
			r.enqueue(domain.Event{Kind: domain.EventToDealStage})
		}

	case domain.EventToDealStage:
		r.deck = domain.NewDeck()
		r.deck.Shuffle(r.rng)
		// Round-robin: card i goes to seat i mod 4.
		seats := len(r.state.Seats)
		hands := make([][]domain.Card, seats)
		for i := 0; i < handSize*seats; i++ {
			hands[i%seats] = append(hands[i%seats], r.deck.Draw())
		}
		for seat, hand := range hands {
			r.enqueue(domain.Event{Kind: domain.EventDealHand, Seat: seat, Cards: hand})
		}

	case domain.EventHandSorted:
		if r.state.Stage == domain.StageDealCards && r.state.AllHandsSorted() {
			holder := r.state.HolderOf(r.state.SpecialCard)
			r.enqueue(domain.Event{Kind: domain.EventToCallStage, Seat: holder})
		}

	case domain.EventCallCard:
		// Reduce aborts straight to Ended when the called card is not in
		// play; there is no Ended event on that path.
		if r.state.Stage == domain.StageEnded {
			r.finishHand("called card is not in play")
		}

	case domain.EventPlayCards, domain.EventPass:
		if r.state.Stage == domain.StagePlayCards && r.state.HandTerminated() {
			r.enqueue(domain.Event{Kind: domain.EventEnded})
		}

	case domain.EventEnded:
		r.finishHand("")
	}
}

// finishHand publishes the hand result, settles coins when a mode was fixed,
// and resets the table for the next hand.
func (r *Room) finishHand(reason string) {
	ended := domain.Event{Kind: domain.EventEnded, RoomID: r.ID, Reason: reason}
	if r.state.Mode != nil {
		ended.Scores = r.state.FinalScores()
		ended.Winners = r.settle()
	}
	r.sink.SendDeferred(r.memberIDs(), ended)
	r.logger.Info("hand ended", "scores", ended.Scores, "winners", ended.Winners, "reason", reason)

	r.state.ResetHand()
	r.broadcastSync()
}

// settle decides the winning team from the accumulated trick scores and
// moves coins between seats. Each losing seat pays baseWager to every
// winning seat, which keeps the transfer balanced for both 2v2 and 1v3.
func (r *Room) settle() []int {
	mode := r.state.Mode

	inTeam := make(map[int]bool)
	switch mode.Kind {
	case domain.ModeHiddenAllies:
		inTeam[mode.Caller] = true
		inTeam[mode.Callee] = true
	case domain.ModeOneVsThree:
		inTeam[mode.Blocker] = true
	}

	teamScore, restScore := 0, 0
	for i := range r.state.Seats {
		if inTeam[i] {
			teamScore += r.state.Seats[i].Score
		} else {
			restScore += r.state.Seats[i].Score
		}
	}
	if teamScore == restScore {
		return nil
	}

	teamWon := teamScore > restScore
	var winners, losers []int
	for i := range r.state.Seats {
		if inTeam[i] == teamWon {
			winners = append(winners, i)
		} else {
			losers = append(losers, i)
		}
	}
	for _, w := range winners {
		r.state.Seats[w].Coins += baseWager * len(losers)
	}
	for _, l := range losers {
		r.state.Seats[l].Coins -= baseWager * len(winners)
	}
	return winners
}

// broadcastSync pushes a per-recipient redacted snapshot to every member.
func (r *Room) broadcastSync() {
	for id := range r.members {
		r.sink.SendDeferred([]domain.ClientID{id}, domain.Event{
			Kind:   domain.EventSyncState,
			RoomID: r.ID,
			State:  r.state.RedactedFor(id),
		})
	}
}

func (r *Room) memberIDs() []domain.ClientID {
	ids := make([]domain.ClientID, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	return ids
}
