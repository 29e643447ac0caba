package cards

// Counts is the card-count configuration chosen during setup.
type Counts struct {
	Cards         map[Card]int `json:"cards"`
	AlphaWolfCard Card         `json:"alphaWolfCard"`
}

func NewCounts() Counts {
	return Counts{Cards: map[Card]int{}, AlphaWolfCard: NoAlphaWolfCard}
}

func (c Counts) Get(card Card) int {
	return c.Cards[card]
}

// WithCount returns a copy with card clamped into [0, Limit(card)], and
// whether the stored value changed.
func (c Counts) WithCount(card Card, count int) (Counts, bool) {
	count = max(0, min(count, Limit(card)))
	if c.Cards[card] == count {
		return c, false
	}
	next := c.clone()
	next.Cards[card] = count
	return next, true
}

// WithAlphaWolfCard returns a copy with the selector replaced. Unknown
// choices leave the counts untouched.
func (c Counts) WithAlphaWolfCard(card Card) (Counts, bool) {
	if !ValidAlphaWolfChoice(card) || c.AlphaWolfCard == card {
		return c, false
	}
	next := c.clone()
	next.AlphaWolfCard = card
	return next, true
}

// UsesAlphaWolfCard reports whether the alpha-wolf card is appended as a
// fourth middle slot.
func (c Counts) UsesAlphaWolfCard() bool {
	return c.Cards[AlphaWolf] > 0 && c.AlphaWolfCard != NoAlphaWolfCard && c.AlphaWolfCard != ""
}

// Total is the size of the base deck, without the alpha-wolf card.
func (c Counts) Total() int {
	total := 0
	for _, card := range All {
		total += c.Cards[card]
	}
	return total
}

func (c Counts) clone() Counts {
	next := Counts{Cards: make(map[Card]int, len(c.Cards)), AlphaWolfCard: c.AlphaWolfCard}
	for k, v := range c.Cards {
		next.Cards[k] = v
	}
	return next
}
