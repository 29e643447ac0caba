package game

import (
	"werewolf/cards"
	"werewolf/history"
)

func (r *Room) isSeat(i int) bool {
	return i >= 0 && i < len(r.seats)
}

// isCenter reports whether i is one of the three shared middle slots. The
// alpha-wolf slot after them is never a valid target.
func (r *Room) isCenter(i int) bool {
	n := len(r.seats)
	return i >= n && i < n+cards.MiddleCards && i < len(r.state.Deck)
}

// seatsHolding lists the seats that started with one of the given cards.
func (r *Room) seatsHolding(match func(cards.Card) bool) []int {
	var out []int
	for i, s := range r.seats {
		if s.StartingCard != "" && match(s.StartingCard) {
			out = append(out, i)
		}
	}
	return out
}

func is(card cards.Card) func(cards.Card) bool {
	return func(c cards.Card) bool { return c == card }
}

// showDeck sends seat a state view where only indices are revealed.
func (r *Room) showDeck(seat int, indices ...int) {
	view := r.stateView(seat)
	view.Deck = cards.Reveal(r.state.Deck, indices...)
	r.send(seat, MakePacketGameState(view))
}

func (r *Room) lookedAt(seat int, indices ...int) {
	e := r.playerEvent(seat, history.LookedAtCards)
	e.Indices = append([]int(nil), indices...)
	for _, i := range indices {
		e.Cards = append(e.Cards, r.state.Deck[i])
	}
	r.record(e)
}

// reveal shows seat the cards at indices and records that it looked.
func (r *Room) reveal(seat int, indices ...int) {
	r.showDeck(seat, indices...)
	r.lookedAt(seat, indices...)
}

func (r *Room) swap(seat, i, j int) {
	deck := r.state.Deck
	deck[i], deck[j] = deck[j], deck[i]

	e := r.playerEvent(seat, history.SwappedCards)
	e.Indices = []int{i, j}
	r.record(e)
}

// rotate moves the cards at indices one position. Shifting left gives every
// index the card of the next one, wrapping around.
func (r *Room) rotate(seat int, indices []int, left bool) {
	m := len(indices)
	if m < 2 {
		return
	}
	deck := r.state.Deck
	old := make([]cards.Card, m)
	for k, i := range indices {
		old[k] = deck[i]
	}
	for k, i := range indices {
		if left {
			deck[i] = old[(k+1)%m]
		} else {
			deck[i] = old[(k-1+m)%m]
		}
	}

	e := r.playerEvent(seat, history.ShiftedCards)
	e.Indices = append([]int(nil), indices...)
	e.Left = left
	r.record(e)
}

func (r *Room) stateView(seat int) StateView {
	view := StateView{
		RoomID:    r.id,
		Seat:      seat,
		Counts:    r.state.Counts,
		LoneWolf:  r.state.LoneWolf,
		Deck:      cards.Hidden(len(r.state.Deck)),
		Phase:     r.state.Phase,
		NightRole: r.state.NightRole,
		Deadline:  r.state.Deadline,
		Paused:    r.state.Paused,
	}
	if r.state.Phase == PhaseEnd {
		view.Deck = cards.Full(r.state.Deck)
		view.Votes = r.state.Votes
	}
	return view
}
