package cards

// DeckView is a copy of the deck where hidden slots are nil and encode as null.
type DeckView []*Card

// Reveal builds a view of deck exposing only the given indices. Out of range
// indices are ignored.
func Reveal(deck []Card, indices ...int) DeckView {
	view := make(DeckView, len(deck))
	for _, i := range indices {
		if i < 0 || i >= len(deck) {
			continue
		}
		card := deck[i]
		view[i] = &card
	}
	return view
}

// Hidden returns a view of n slots with nothing revealed.
func Hidden(n int) DeckView {
	return make(DeckView, n)
}

// Full exposes every slot.
func Full(deck []Card) DeckView {
	view := make(DeckView, len(deck))
	for i := range deck {
		card := deck[i]
		view[i] = &card
	}
	return view
}

// Revealed lists the indices that are visible in the view.
func (v DeckView) Revealed() []int {
	var out []int
	for i, c := range v {
		if c != nil {
			out = append(out, i)
		}
	}
	return out
}
