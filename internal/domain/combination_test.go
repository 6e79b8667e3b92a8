package domain

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		cards    []Card
		expected ComboShape
	}{
		{
			name:     "single",
			cards:    []Card{{Rank: Three, Suit: Spades}},
			expected: ComboSingle,
		},
		{
			name:     "pair",
			cards:    []Card{{Rank: Ten, Suit: Hearts}, {Rank: Ten, Suit: Diamonds}},
			expected: ComboPair,
		},
		{
			name:     "mismatched pair",
			cards:    []Card{{Rank: Ten, Suit: Hearts}, {Rank: Jack, Suit: Diamonds}},
			expected: ComboInvalid,
		},
		{
			name: "triple",
			cards: []Card{
				{Rank: Seven, Suit: Hearts}, {Rank: Seven, Suit: Diamonds}, {Rank: Seven, Suit: Clubs},
			},
			expected: ComboTriple,
		},
		{
			name: "quad",
			cards: []Card{
				{Rank: King, Suit: Hearts}, {Rank: King, Suit: Diamonds},
				{Rank: King, Suit: Clubs}, {Rank: King, Suit: Spades},
			},
			expected: ComboQuad,
		},
		{
			name: "run of three",
			cards: []Card{
				{Rank: Three, Suit: Hearts}, {Rank: Four, Suit: Diamonds}, {Rank: Five, Suit: Clubs},
			},
			expected: ComboRun,
		},
		{
			name: "run of five to the ace",
			cards: []Card{
				{Rank: Ten, Suit: Hearts}, {Rank: Jack, Suit: Diamonds}, {Rank: Queen, Suit: Clubs},
				{Rank: King, Suit: Spades}, {Rank: Ace, Suit: Hearts},
			},
			expected: ComboRun,
		},
		{
			name: "run may not include the two",
			cards: []Card{
				{Rank: Ace, Suit: Hearts}, {Rank: Two, Suit: Diamonds}, {Rank: Three, Suit: Clubs},
			},
			expected: ComboInvalid,
		},
		{
			name: "run with gap",
			cards: []Card{
				{Rank: Five, Suit: Hearts}, {Rank: Seven, Suit: Diamonds}, {Rank: Eight, Suit: Clubs},
			},
			expected: ComboInvalid,
		},
		{
			name: "double run",
			cards: []Card{
				{Rank: Five, Suit: Hearts}, {Rank: Five, Suit: Diamonds},
				{Rank: Six, Suit: Hearts}, {Rank: Six, Suit: Diamonds},
				{Rank: Seven, Suit: Hearts}, {Rank: Seven, Suit: Diamonds},
			},
			expected: ComboDoubleRun,
		},
		{
			name: "double run with gap",
			cards: []Card{
				{Rank: Five, Suit: Hearts}, {Rank: Five, Suit: Diamonds},
				{Rank: Six, Suit: Hearts}, {Rank: Six, Suit: Diamonds},
				{Rank: Eight, Suit: Hearts}, {Rank: Eight, Suit: Diamonds},
			},
			expected: ComboInvalid,
		},
		{
			name: "double run may not include the two",
			cards: []Card{
				{Rank: King, Suit: Hearts}, {Rank: King, Suit: Diamonds},
				{Rank: Ace, Suit: Hearts}, {Rank: Ace, Suit: Diamonds},
				{Rank: Two, Suit: Hearts}, {Rank: Two, Suit: Diamonds},
			},
			expected: ComboInvalid,
		},
		{
			name: "six card run",
			cards: []Card{
				{Rank: Three, Suit: Hearts}, {Rank: Four, Suit: Diamonds}, {Rank: Five, Suit: Clubs},
				{Rank: Six, Suit: Spades}, {Rank: Seven, Suit: Hearts}, {Rank: Eight, Suit: Diamonds},
			},
			expected: ComboRun,
		},
		{
			name:     "empty set",
			cards:    nil,
			expected: ComboInvalid,
		},
		{
			name: "five unconnected cards",
			cards: []Card{
				{Rank: Three, Suit: Hearts}, {Rank: Five, Suit: Diamonds}, {Rank: Seven, Suit: Clubs},
				{Rank: Nine, Suit: Spades}, {Rank: Jack, Suit: Hearts},
			},
			expected: ComboInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			combo := Classify(tt.cards)
			if combo.Shape != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, combo.Shape)
			}
		})
	}
}

func TestBeats(t *testing.T) {
	single := func(r Rank) Combination {
		return Classify([]Card{{Rank: r, Suit: Spades}})
	}
	pair := func(r Rank) Combination {
		return Classify([]Card{{Rank: r, Suit: Spades}, {Rank: r, Suit: Hearts}})
	}
	run := func(ranks ...Rank) Combination {
		var cards []Card
		for _, r := range ranks {
			cards = append(cards, Card{Rank: r, Suit: Spades})
		}
		return Classify(cards)
	}
	triple := func(r Rank) Combination {
		return Classify([]Card{
			{Rank: r, Suit: Spades}, {Rank: r, Suit: Hearts}, {Rank: r, Suit: Diamonds},
		})
	}
	quad := func(r Rank) Combination {
		return Classify([]Card{
			{Rank: r, Suit: Spades}, {Rank: r, Suit: Hearts},
			{Rank: r, Suit: Diamonds}, {Rank: r, Suit: Clubs},
		})
	}
	doubleRun := func(start Rank) Combination {
		return Classify([]Card{
			{Rank: start, Suit: Spades}, {Rank: start, Suit: Hearts},
			{Rank: start + 1, Suit: Spades}, {Rank: start + 1, Suit: Hearts},
			{Rank: start + 2, Suit: Spades}, {Rank: start + 2, Suit: Hearts},
		})
	}

	tests := []struct {
		name     string
		a, b     Combination
		expected bool
	}{
		{"higher single wins", single(Ace), single(King), true},
		{"lower single loses", single(King), single(Ace), false},
		{"equal single is not greater", single(Ten), single(Ten), false},
		{"two beats ace", single(Two), single(Ace), true},
		{"higher pair wins", pair(Queen), pair(Jack), true},
		{"equal pair is not greater", pair(Ten), pair(Ten), false},
		{"pair does not beat single", pair(Ten), single(Three), false},
		{"higher run wins", run(Ten, Jack, Queen), run(Nine, Ten, Jack), true},
		{"lower run loses", run(Nine, Ten, Jack), run(Ten, Jack, Queen), false},
		{"longer run never beats shorter", run(Nine, Ten, Jack, Queen), run(Nine, Ten, Jack), false},
		{"reflexive run is not greater", run(Nine, Ten, Jack), run(Nine, Ten, Jack), false},
		{"triple bombs a single two", triple(Three), single(Two), true},
		{"triple bombs a pair", triple(Three), pair(Two), true},
		{"quad bombs a run", quad(Four), run(Nine, Ten, Jack), true},
		{"double run bombs a single", doubleRun(Five), single(Two), true},
		{"single never beats a bomb", single(Two), triple(Three), false},
		{"run never beats a bomb", run(Queen, King, Ace), quad(Three), false},
		{"higher triple wins", triple(Two), triple(Ace), true},
		{"lower quad loses", quad(Three), quad(Two), false},
		{"higher double run wins", doubleRun(Four), doubleRun(Three), true},
		{"quad outranks double run", quad(Three), doubleRun(Queen), true},
		{"double run outranks triple", doubleRun(Three), triple(Two), true},
		{"triple does not outrank quad", triple(Two), quad(Three), false},
		{"invalid never beats", Combination{Shape: ComboInvalid}, single(Three), false},
		{"nothing beats invalid", single(Two), Combination{Shape: ComboInvalid}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Beats(tt.b); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTrickValue(t *testing.T) {
	tests := []struct {
		name     string
		cards    []Card
		expected int
	}{
		{"single", []Card{{Rank: Four, Suit: Spades}}, 1},
		{"pair", []Card{{Rank: Four, Suit: Spades}, {Rank: Four, Suit: Hearts}}, 2},
		{
			"run counts its length",
			[]Card{
				{Rank: Four, Suit: Spades}, {Rank: Five, Suit: Spades},
				{Rank: Six, Suit: Spades}, {Rank: Seven, Suit: Spades},
			},
			4,
		},
		{
			"triple",
			[]Card{{Rank: Four, Suit: Spades}, {Rank: Four, Suit: Hearts}, {Rank: Four, Suit: Diamonds}},
			3,
		},
		{
			"double run",
			[]Card{
				{Rank: Four, Suit: Spades}, {Rank: Four, Suit: Hearts},
				{Rank: Five, Suit: Spades}, {Rank: Five, Suit: Hearts},
				{Rank: Six, Suit: Spades}, {Rank: Six, Suit: Hearts},
			},
			6,
		},
		{
			"quad",
			[]Card{
				{Rank: Four, Suit: Spades}, {Rank: Four, Suit: Hearts},
				{Rank: Four, Suit: Diamonds}, {Rank: Four, Suit: Clubs},
			},
			4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.cards).TrickValue(); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}
