package domain

import (
	"math/rand"
	"sort"
)

// Rank orders cards for trick play. Three is the weakest rank and Two the
// strongest; the numeric values are the comparison order, not the face values.
type Rank int

const (
	Three Rank = iota + 1
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
	Two
)

// Suit identifies a card within its rank. Suits carry no trick-taking power.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var rankNames = map[Rank]string{
	Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8",
	Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A", Two: "2",
}

var suitNames = map[Suit]string{
	Spades: "S", Hearts: "H", Diamonds: "D", Clubs: "C",
}

func (r Rank) String() string { return rankNames[r] }
func (s Suit) String() string { return suitNames[s] }

// Card is identified by its (rank, suit) pair; no two cards in a deck are equal.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string { return c.Rank.String() + c.Suit.String() }

// SpecialCard designates the caller during the call stage.
var SpecialCard = Card{Rank: Seven, Suit: Spades}

// Ranks lists all thirteen ranks in ascending trick order.
func Ranks() []Rank {
	return []Rank{Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace, Two}
}

// Suits lists all four suits.
func Suits() []Suit {
	return []Suit{Spades, Hearts, Diamonds, Clubs}
}

// Deck holds the 52-card set and a draw cursor.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck returns an ordered 52-card deck.
func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for _, s := range Suits() {
		for _, r := range Ranks() {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

// Shuffle permutes the deck uniformly and resets the draw cursor.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	d.next = 0
}

// Draw returns the next card. Drawing past the end is a caller bug; the deck
// has exactly 52 cards and a full deal consumes all of them.
func (d *Deck) Draw() Card {
	c := d.cards[d.next]
	d.next++
	return c
}

// Remaining reports how many cards are left to draw.
func (d *Deck) Remaining() int { return len(d.cards) - d.next }

// Cards exposes the underlying order, for tests.
func (d *Deck) Cards() []Card { return d.cards }

// SortCards orders cards by ascending rank in place. The sort is stable so
// equal ranks keep their relative suit order.
func SortCards(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Rank < cards[j].Rank
	})
}
