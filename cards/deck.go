package cards

import "math/rand/v2"

// MiddleCards is the number of unassigned slots after the player slots.
const MiddleCards = 3

const maxShuffleAttempts = 10

// Build expands the counts into an unshuffled deck, excluding the alpha-wolf card.
func Build(c Counts) []Card {
	deck := make([]Card, 0, c.Total())
	for _, card := range All {
		for range c.Cards[card] {
			deck = append(deck, card)
		}
	}
	return deck
}

// Shuffle permutes deck in place.
func Shuffle(rng *rand.Rand, deck []Card) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// Prepare shuffles a copy of base for play. It reshuffles a bounded number of
// times to avoid dealing a wolf to every player, then keeps the last shuffle
// regardless. The alpha-wolf card is appended last when selected.
func Prepare(rng *rand.Rand, c Counts, base []Card) []Card {
	deck := make([]Card, len(base), len(base)+1)
	copy(deck, base)

	for range maxShuffleAttempts {
		Shuffle(rng, deck)
		if !allPlayersWolves(deck) {
			break
		}
	}

	if c.UsesAlphaWolfCard() {
		deck = append(deck, c.AlphaWolfCard)
	}
	return deck
}

func allPlayersWolves(deck []Card) bool {
	for i := 0; i < len(deck)-MiddleCards; i++ {
		if !deck[i].IsWolf() {
			return false
		}
	}
	return true
}
