package domain

// ComboShape classifies a set of cards offered as a play.
type ComboShape int

const (
	ComboInvalid ComboShape = iota
	ComboSingle
	ComboPair
	ComboRun       // 3+ consecutive ranks, single copy each, top rank <= Ace
	ComboTriple    // bomb
	ComboDoubleRun // bomb: 3 consecutive ranks, each as a pair
	ComboQuad      // bomb
)

var shapeNames = map[ComboShape]string{
	ComboInvalid:   "invalid",
	ComboSingle:    "single",
	ComboPair:      "pair",
	ComboRun:       "run",
	ComboTriple:    "triple",
	ComboDoubleRun: "double_run",
	ComboQuad:      "quad",
}

func (s ComboShape) String() string { return shapeNames[s] }

// bombStrength fixes the cross-shape bomb order: Triple < DoubleRun < Quad.
var bombStrength = map[ComboShape]int{
	ComboTriple:    1,
	ComboDoubleRun: 2,
	ComboQuad:      3,
}

// Combination is a classified play. Cards are sorted ascending by rank.
type Combination struct {
	Shape ComboShape `json:"shape"`
	Cards []Card     `json:"cards"`
}

// Classify analyzes an unordered set of cards and returns the combination it
// forms, or an invalid combination when the cards form no legal shape.
func Classify(cards []Card) Combination {
	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	SortCards(sorted)

	shape := ComboInvalid
	switch len(sorted) {
	case 0:
		// invalid
	case 1:
		shape = ComboSingle
	case 2:
		if sorted[0].Rank == sorted[1].Rank {
			shape = ComboPair
		}
	case 3:
		switch {
		case isConsecutive(sorted):
			shape = ComboRun
		case allSameRank(sorted):
			shape = ComboTriple
		}
	case 4:
		switch {
		case allSameRank(sorted):
			shape = ComboQuad
		case isConsecutive(sorted):
			shape = ComboRun
		}
	case 6:
		switch {
		case isDoubleRun(sorted):
			shape = ComboDoubleRun
		case isConsecutive(sorted):
			shape = ComboRun
		}
	default:
		if isConsecutive(sorted) {
			shape = ComboRun
		}
	}

	if shape == ComboInvalid {
		return Combination{Shape: ComboInvalid}
	}
	return Combination{Shape: shape, Cards: sorted}
}

// IsBomb reports whether the combination outranks all non-bomb shapes.
func (c Combination) IsBomb() bool {
	_, ok := bombStrength[c.Shape]
	return ok
}

// TrickValue is the score the play adds to the table pot.
func (c Combination) TrickValue() int {
	switch c.Shape {
	case ComboSingle:
		return 1
	case ComboPair:
		return 2
	case ComboRun:
		return len(c.Cards)
	case ComboTriple:
		return 3
	case ComboDoubleRun:
		return 6
	case ComboQuad:
		return 4
	default:
		return 0
	}
}

// Beats reports whether c outranks last. Same-shape combinations compare by
// their sorted rank sequences (runs must match in length). Bombs beat every
// non-bomb; bombs of different shapes compare by the fixed bomb order.
// Invalid combinations never beat and are never beaten.
func (c Combination) Beats(last Combination) bool {
	if c.Shape == ComboInvalid || last.Shape == ComboInvalid {
		return false
	}

	if c.Shape == last.Shape {
		if c.Shape == ComboRun && len(c.Cards) != len(last.Cards) {
			return false
		}
		return rankSequenceGreater(c.Cards, last.Cards)
	}

	if c.IsBomb() {
		if !last.IsBomb() {
			return true
		}
		return bombStrength[c.Shape] > bombStrength[last.Shape]
	}
	return false
}

// rankSequenceGreater compares two equal-length sorted card sequences
// lexicographically by rank.
func rankSequenceGreater(a, b []Card) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i].Rank != b[i].Rank {
			return a[i].Rank > b[i].Rank
		}
	}
	return false
}

func allSameRank(cards []Card) bool {
	if len(cards) == 0 {
		return false
	}
	for _, c := range cards {
		if c.Rank != cards[0].Rank {
			return false
		}
	}
	return true
}

// isConsecutive expects sorted input: 3+ strictly increasing ranks whose top
// card is at most an Ace. A run never includes or crosses the Two.
func isConsecutive(cards []Card) bool {
	if len(cards) < 3 {
		return false
	}
	if cards[len(cards)-1].Rank > Ace {
		return false
	}
	for i := 1; i < len(cards); i++ {
		if cards[i].Rank != cards[i-1].Rank+1 {
			return false
		}
	}
	return true
}

// isDoubleRun expects sorted input: exactly 6 cards forming 3 consecutive
// ranks, each rank appearing as a pair, top rank at most an Ace.
func isDoubleRun(cards []Card) bool {
	if len(cards) != 6 {
		return false
	}
	if cards[5].Rank > Ace {
		return false
	}
	var pairRanks []Rank
	for i := 0; i < 6; i += 2 {
		if cards[i].Rank != cards[i+1].Rank {
			return false
		}
		pairRanks = append(pairRanks, cards[i].Rank)
	}
	return pairRanks[1] == pairRanks[0]+1 && pairRanks[2] == pairRanks[1]+1
}
