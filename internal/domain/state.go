package domain

import "fmt"

// Stage is the lifecycle stage of a hand.
type Stage string

const (
	StagePreGame   Stage = "pre_game"
	StageDealCards Stage = "deal_cards"
	StageCallCard  Stage = "call_card"
	StagePlayCards Stage = "play_cards"
	StageEnded     Stage = "ended"
)

// ModeKind tags the game mode decided at the end of the call stage.
type ModeKind string

const (
	ModeHiddenAllies ModeKind = "hidden_allies"
	ModeOneVsThree   ModeKind = "one_vs_three"
)

// Mode is fixed once per hand at the CallCard -> PlayCards transition.
type Mode struct {
	Kind    ModeKind `json:"kind"`
	Caller  int      `json:"caller,omitempty"`
	Callee  int      `json:"callee,omitempty"`
	Card    *Card    `json:"card,omitempty"`
	Blocker int      `json:"blocker,omitempty"`
}

// GameState is the authoritative table state. Validate and Reduce form the
// only mutation surface; everything else is a read-only query.
type GameState struct {
	Seats       [4]PlayerSeat `json:"seats"`
	SpecialCard Card          `json:"special_card"`

	Mode  *Mode `json:"mode,omitempty"`
	Stage Stage `json:"stage"`

	// CallerSeat is the designated caller while Stage == StageCallCard.
	CallerSeat  int `json:"caller_seat"`
	CurrentTurn int `json:"current_turn"`

	LastPlaySeat       int          `json:"last_play_seat"`
	LastPlay           *Combination `json:"last_play,omitempty"`
	TablePot           int          `json:"table_pot"`
	HiddenCardRevealed bool         `json:"hidden_card_revealed"`
}

// NewGameState returns an empty table in the pre-game stage.
func NewGameState() *GameState {
	return &GameState{
		SpecialCard:  SpecialCard,
		Stage:        StagePreGame,
		CallerSeat:   -1,
		CurrentTurn:  -1,
		LastPlaySeat: -1,
	}
}

// Validate reports whether the event is legal against the current state. It
// has no side effects and may be called repeatedly.
func (g *GameState) Validate(ev Event) bool {
	switch ev.Kind {
	case EventAssignSeat:
		return ev.Player != nil && validSeat(ev.Seat) && g.Seats[ev.Seat].Vacant()

	case EventReady:
		seat := g.SeatIndexByClient(ev.ClientID)
		return seat >= 0 && !g.Seats[seat].Ready

	case EventToDealStage:
		return g.Stage == StagePreGame

	case EventDealHand:
		return validSeat(ev.Seat) && len(ev.Cards) == 13

	case EventHandSorted:
		if g.Stage != StageDealCards {
			return false
		}
		seat := g.SeatIndexByClient(ev.ClientID)
		return seat >= 0 && !g.Seats[seat].HandSorted

	case EventToCallStage:
		return g.Stage == StageDealCards && validSeat(ev.Seat) &&
			g.Seats[ev.Seat].Holds(g.SpecialCard)

	case EventCallCard:
		return g.Stage == StageCallCard && ev.Seat == g.CallerSeat && ev.Card != nil

	case EventBlock:
		return g.Stage == StageCallCard && validSeat(ev.Seat)

	case EventPlayCards:
		if g.Stage != StagePlayCards || ev.Seat != g.CurrentTurn {
			return false
		}
		combo := Classify(ev.Cards)
		if combo.Shape == ComboInvalid {
			return false
		}
		if !g.Seats[ev.Seat].HoldsAll(ev.Cards) {
			return false
		}
		if g.LastPlay != nil && !combo.Beats(*g.LastPlay) {
			return false
		}
		return true

	case EventPass:
		return g.Stage == StagePlayCards && ev.Seat == g.CurrentTurn

	case EventPlayerConnected, EventPlayerDisconnected:
		return g.SeatIndexByClient(ev.ClientID) >= 0

	case EventEnded:
		return g.Stage == StagePlayCards || g.Stage == StageCallCard

	default:
		return false
	}
}

// Reduce applies a validated event. It assumes Validate already passed; the
// returned error only fires on should-never-happen conditions and leaves the
// state unchanged when it does.
func (g *GameState) Reduce(ev Event) error {
	switch ev.Kind {
	case EventAssignSeat:
		// A fresh seat: nothing survives from a prior occupant. Joining a
		// seat is not the same as rejoining a game.
		g.Seats[ev.Seat] = PlayerSeat{Player: ev.Player, Connected: true}

	case EventReady:
		g.Seats[g.SeatIndexByClient(ev.ClientID)].Ready = true

	case EventToDealStage:
		g.Stage = StageDealCards

	case EventDealHand:
		hand := make([]Card, len(ev.Cards))
		copy(hand, ev.Cards)
		g.Seats[ev.Seat].Hand = hand

	case EventHandSorted:
		g.Seats[g.SeatIndexByClient(ev.ClientID)].HandSorted = true

	case EventToCallStage:
		g.Stage = StageCallCard
		g.CallerSeat = ev.Seat

	case EventCallCard:
		callee := g.HolderOf(*ev.Card)
		if callee < 0 {
			// The called card is not in play; the hand cannot continue.
			g.Mode = nil
			g.Stage = StageEnded
			return nil
		}
		g.Mode = &Mode{Kind: ModeHiddenAllies, Caller: ev.Seat, Callee: callee, Card: ev.Card}
		g.Stage = StagePlayCards
		g.CurrentTurn = ev.Seat

	case EventBlock:
		g.Mode = &Mode{Kind: ModeOneVsThree, Blocker: ev.Seat}
		g.Stage = StagePlayCards
		g.CurrentTurn = ev.Seat

	case EventPlayCards:
		combo := Classify(ev.Cards)
		if err := g.Seats[ev.Seat].removeCards(ev.Cards); err != nil {
			return fmt.Errorf("play by seat %d: %w", ev.Seat, err)
		}
		g.LastPlaySeat = ev.Seat
		g.LastPlay = &combo
		g.TablePot += combo.TrickValue()
		if g.Mode != nil && g.Mode.Kind == ModeHiddenAllies && !g.HiddenCardRevealed {
			for _, c := range combo.Cards {
				if c == *g.Mode.Card {
					g.HiddenCardRevealed = true
					break
				}
			}
		}
		g.advanceTurn()

	case EventPass:
		g.advanceTurn()
		if g.LastPlaySeat >= 0 && g.CurrentTurn == g.LastPlaySeat {
			// Trick closed: everyone passed back to the last player.
			g.Seats[g.CurrentTurn].Score += g.TablePot
			g.TablePot = 0
			g.LastPlay = nil
			g.LastPlaySeat = -1
		}

	case EventPlayerConnected:
		g.Seats[g.SeatIndexByClient(ev.ClientID)].Connected = true

	case EventPlayerDisconnected:
		g.Seats[g.SeatIndexByClient(ev.ClientID)].Connected = false

	case EventEnded:
		g.Stage = StageEnded
	}
	return nil
}

// ResetHand returns the table to the pre-game stage for a fresh hand. Seated
// players and their coins survive; everything per-hand is cleared.
func (g *GameState) ResetHand() {
	for i := range g.Seats {
		g.Seats[i].reset()
	}
	g.Mode = nil
	g.Stage = StagePreGame
	g.CallerSeat = -1
	g.CurrentTurn = -1
	g.LastPlaySeat = -1
	g.LastPlay = nil
	g.TablePot = 0
	g.HiddenCardRevealed = false
}

func (g *GameState) advanceTurn() {
	if g.CurrentTurn < 0 {
		g.CurrentTurn = 0
		return
	}
	g.CurrentTurn = (g.CurrentTurn + 1) % 4
}

func validSeat(i int) bool { return i >= 0 && i < 4 }

// HoldsAll reports whether the seat holds every one of the given cards.
func (s *PlayerSeat) HoldsAll(cards []Card) bool {
	for _, c := range cards {
		if !s.Holds(c) {
			return false
		}
	}
	return true
}

// SeatIndexByClient returns the seat occupied by the client, or -1.
func (g *GameState) SeatIndexByClient(id ClientID) int {
	for i := range g.Seats {
		if p := g.Seats[i].Player; p != nil && p.ID == id {
			return i
		}
	}
	return -1
}

// HolderOf returns the seat currently holding the exact card, or -1.
func (g *GameState) HolderOf(c Card) int {
	for i := range g.Seats {
		if g.Seats[i].Holds(c) {
			return i
		}
	}
	return -1
}

// VacantSeatIndex returns the first vacant seat, or -1 when the table is full.
func (g *GameState) VacantSeatIndex() int {
	for i := range g.Seats {
		if g.Seats[i].Vacant() {
			return i
		}
	}
	return -1
}

// HasVacantSeat reports whether any seat is free.
func (g *GameState) HasVacantSeat() bool { return g.VacantSeatIndex() >= 0 }

// AllReady reports whether all four seats are occupied and ready.
func (g *GameState) AllReady() bool {
	for i := range g.Seats {
		if g.Seats[i].Vacant() || !g.Seats[i].Ready {
			return false
		}
	}
	return true
}

// AllHandsSorted reports whether every occupied seat signaled a sorted hand.
func (g *GameState) AllHandsSorted() bool {
	for i := range g.Seats {
		if g.Seats[i].Vacant() || !g.Seats[i].HandSorted {
			return false
		}
	}
	return true
}

// HandTerminated reports whether at most one seat still holds cards.
func (g *GameState) HandTerminated() bool {
	holding := 0
	for i := range g.Seats {
		if len(g.Seats[i].Hand) > 0 {
			holding++
		}
	}
	return holding <= 1
}

// FinalScores returns the per-seat scores in seat order.
func (g *GameState) FinalScores() []int {
	scores := make([]int, 4)
	for i := range g.Seats {
		scores[i] = g.Seats[i].Score
	}
	return scores
}

// RedactedFor returns a snapshot copy in which only the recipient's own hand
// shows card faces; other seats expose just their hand size.
func (g *GameState) RedactedFor(id ClientID) *GameState {
	out := *g
	for i := range out.Seats {
		out.Seats[i].HandCount = len(g.Seats[i].Hand)
		if p := out.Seats[i].Player; p == nil || p.ID != id {
			out.Seats[i].Hand = nil
		} else {
			hand := make([]Card, len(g.Seats[i].Hand))
			copy(hand, g.Seats[i].Hand)
			out.Seats[i].Hand = hand
		}
	}
	return &out
}
