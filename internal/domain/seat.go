package domain

import "fmt"

// ClientID identifies a client connection identity. It is stable across
// disconnects; the transport binds it from the session token.
type ClientID string

// RoomID identifies a room within the registry.
type RoomID uint64

// Player is the public identity occupying a seat.
type Player struct {
	ID     ClientID `json:"id"`
	Name   string   `json:"name"`
	Avatar string   `json:"avatar,omitempty"`
}

// PlayerSeat is one of the four fixed slots at the table. A seat with a nil
// Player is vacant. The seat owns its hand exclusively.
type PlayerSeat struct {
	Player     *Player `json:"player,omitempty"`
	Hand       []Card  `json:"hand,omitempty"`
	HandCount  int     `json:"hand_count"`
	Coins      int     `json:"coins"`
	Score      int     `json:"score"`
	Ready      bool    `json:"ready"`
	HandSorted bool    `json:"hand_sorted"`
	Connected  bool    `json:"connected"`
}

// Vacant reports whether no player occupies the seat.
func (s *PlayerSeat) Vacant() bool { return s.Player == nil }

// Holds reports whether the seat's hand contains the exact card.
func (s *PlayerSeat) Holds(c Card) bool {
	for _, h := range s.Hand {
		if h == c {
			return true
		}
	}
	return false
}

// hasFourOf reports whether the hand holds all four suits of a rank.
func (s *PlayerSeat) hasFourOf(r Rank) bool {
	count := 0
	for _, c := range s.Hand {
		if c.Rank == r {
			count++
		}
	}
	return count == 4
}

// complementSuits returns the cards of the given rank the seat does NOT hold.
func (s *PlayerSeat) complementSuits(r Rank) []Card {
	var out []Card
	for _, suit := range Suits() {
		c := Card{Rank: r, Suit: suit}
		if !s.Holds(c) {
			out = append(out, c)
		}
	}
	return out
}

// CallableCards returns the cards the seat may name when calling a hidden
// ally: the missing suits of the highest rank the seat does not hold four of,
// probing Two, Ace, King, Queen in order. Nil means nothing is callable.
func (s *PlayerSeat) CallableCards() []Card {
	for _, r := range []Rank{Two, Ace, King, Queen} {
		if !s.hasFourOf(r) {
			return s.complementSuits(r)
		}
	}
	return nil
}

// removeCards takes the given cards out of the hand. Every card must be
// present; validation guarantees this, so a miss is reported as an error and
// the hand is left untouched.
func (s *PlayerSeat) removeCards(cards []Card) error {
	for _, c := range cards {
		if !s.Holds(c) {
			return fmt.Errorf("seat does not hold %s", c)
		}
	}

	remove := make(map[Card]bool, len(cards))
	for _, c := range cards {
		remove[c] = true
	}
	kept := s.Hand[:0]
	for _, c := range s.Hand {
		if !remove[c] {
			kept = append(kept, c)
		}
	}
	s.Hand = kept
	return nil
}

// reset clears per-hand state. Coins and the occupant survive across hands.
func (s *PlayerSeat) reset() {
	s.Hand = nil
	s.HandCount = 0
	s.Score = 0
	s.Ready = false
	s.HandSorted = false
}
