package cards

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counts(alpha Card, pairs ...any) Counts {
	c := NewCounts()
	c.AlphaWolfCard = alpha
	for i := 0; i < len(pairs); i += 2 {
		c.Cards[pairs[i].(Card)] = pairs[i+1].(int)
	}
	return c
}

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		counts   Counts
		seats    int
		expected *ValidationResult
	}{
		{
			name:   "five seats with eight cards",
			counts: counts(NoAlphaWolfCard, Werewolf, 2, Seer, 1, Villager, 5),
			seats:  5,
		},
		{
			name:   "alpha wolf with middle card",
			counts: counts(DreamWolf, AlphaWolf, 1, Werewolf, 1, Villager, 4),
			seats:  3,
		},
		{
			name:     "too few cards for the table",
			counts:   counts(NoAlphaWolfCard, Werewolf, 1),
			seats:    6,
			expected: &ValidationResult{Reason: PlayerCountInvalid},
		},
		{
			name:     "negative count",
			counts:   counts(NoAlphaWolfCard, Seer, -1, Villager, 9),
			seats:    5,
			expected: &ValidationResult{Reason: CardCountInvalid, Description: "Too few selected", Card: Seer},
		},
		{
			name:     "over the limit",
			counts:   counts(NoAlphaWolfCard, Werewolf, 3, Villager, 5),
			seats:    5,
			expected: &ValidationResult{Reason: CardCountInvalid, Description: "Too many selected", Card: Werewolf},
		},
		{
			name:     "alpha wolf without middle card",
			counts:   counts(NoAlphaWolfCard, AlphaWolf, 1, Werewolf, 1, Villager, 4),
			seats:    3,
			expected: &ValidationResult{Reason: AlphaWolfCardMissing, Card: AlphaWolf},
		},
		{
			name:     "count errors come before alpha wolf errors",
			counts:   counts(NoAlphaWolfCard, AlphaWolf, 2, Villager, 4),
			seats:    3,
			expected: &ValidationResult{Reason: CardCountInvalid, Description: "Too many selected", Card: AlphaWolf},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := Validate(tc.counts, tc.seats)
			if tc.expected == nil {
				assert.Nil(t, res)
				return
			}
			require.NotNil(t, res)
			assert.Equal(t, tc.expected.Reason, res.Reason)
			assert.Equal(t, tc.expected.Card, res.Card)
			if tc.expected.Description != "" {
				assert.Equal(t, tc.expected.Description, res.Description)
			}
		})
	}
}

func TestValidate_AnyValidConfiguration(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(1, 2))

	for range 500 {
		c := NewCounts()
		for _, card := range All {
			c.Cards[card] = rng.IntN(Limit(card) + 1)
		}
		if c.Cards[AlphaWolf] > 0 {
			c.AlphaWolfCard = AlphaWolfChoices[1+rng.IntN(len(AlphaWolfChoices)-1)]
		}
		seats := c.Total() - MiddleCards
		if seats < 1 {
			continue
		}
		assert.Nil(t, Validate(c, seats), "counts %v", c)
	}
}

func TestValidate_OutOfBoundsNamesTheCard(t *testing.T) {
	t.Parallel()

	for _, card := range All {
		for _, bad := range []int{-1, Limit(card) + 1} {
			c := NewCounts()
			c.Cards[card] = bad
			res := Validate(c, 5)
			require.NotNil(t, res)
			assert.Equal(t, CardCountInvalid, res.Reason)
			assert.Equal(t, card, res.Card)
		}
	}
}

func TestPrepare_IsPermutation(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(7, 7))
	c := counts(NoAlphaWolfCard, Werewolf, 2, Seer, 1, Robber, 1, Villager, 4)

	base := Build(c)
	for range 100 {
		deck := Prepare(rng, c, base)
		require.Len(t, deck, len(base))

		a := slices.Clone(base)
		b := slices.Clone(deck)
		slices.Sort(a)
		slices.Sort(b)
		assert.Equal(t, a, b)
	}
}

func TestPrepare_AppendsAlphaWolfCard(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(3, 4))
	c := counts(MysticWolf, AlphaWolf, 1, Werewolf, 1, Villager, 4)

	deck := Prepare(rng, c, Build(c))
	require.Len(t, deck, 7)
	assert.Equal(t, MysticWolf, deck[6])
}

func TestPrepare_AvoidsAllWolfTable(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(11, 13))
	// two seats, two wolves, three villagers in the middle
	c := counts(NoAlphaWolfCard, Werewolf, 2, Villager, 3)

	allWolves := 0
	for range 200 {
		deck := Prepare(rng, c, Build(c))
		if allPlayersWolves(deck) {
			allWolves++
		}
	}
	// one in ten shuffles deals both wolves, ten tries almost never fail
	assert.Less(t, allWolves, 5)
}

func TestPrepare_GivesUpWhenEveryShuffleDegenerates(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(1, 1))
	c := counts(NoAlphaWolfCard, Werewolf, 2, AlphaWolf, 1, MysticWolf, 1, DreamWolf, 1)

	deck := Prepare(rng, c, Build(c))
	assert.Len(t, deck, 5)
	assert.True(t, allPlayersWolves(deck))
}

func TestCounts_WithCountClamps(t *testing.T) {
	t.Parallel()

	c := NewCounts()
	c, changed := c.WithCount(Werewolf, 5)
	assert.True(t, changed)
	assert.Equal(t, 2, c.Get(Werewolf))

	c, changed = c.WithCount(Werewolf, 2)
	assert.False(t, changed)

	c, changed = c.WithCount(Seer, -3)
	assert.False(t, changed)
	assert.Equal(t, 0, c.Get(Seer))

	orig := c
	next, _ := c.WithCount(Villager, 3)
	assert.Equal(t, 0, orig.Get(Villager), "original must not be mutated")
	assert.Equal(t, 3, next.Get(Villager))
}

func TestCounts_WithAlphaWolfCard(t *testing.T) {
	t.Parallel()

	c := NewCounts()
	_, changed := c.WithAlphaWolfCard(Seer)
	assert.False(t, changed)

	c, changed = c.WithAlphaWolfCard(DreamWolf)
	assert.True(t, changed)
	assert.Equal(t, DreamWolf, c.AlphaWolfCard)
	assert.False(t, c.UsesAlphaWolfCard())

	c.Cards[AlphaWolf] = 1
	assert.True(t, c.UsesAlphaWolfCard())
}

func TestNextNightRole(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Werewolf, NextNightRole(""))
	assert.Equal(t, AlphaWolf, NextNightRole(Werewolf))
	assert.Equal(t, Insomniac, NextNightRole(Drunk))
	assert.Equal(t, Card(""), NextNightRole(Insomniac))
	assert.Equal(t, Card(""), NextNightRole(Villager))
}

func TestReveal(t *testing.T) {
	t.Parallel()
	deck := []Card{Werewolf, Seer, Villager, Robber}

	view := Reveal(deck, 1, 9, -1)
	require.Len(t, view, 4)
	assert.Equal(t, []int{1}, view.Revealed())
	assert.Equal(t, Seer, *view[1])

	assert.Empty(t, Hidden(4).Revealed())
	assert.Equal(t, []int{0, 1, 2, 3}, Full(deck).Revealed())
}
