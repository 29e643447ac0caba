package history

import (
	"testing"

	"werewolf/cards"
	"werewolf/domain"

	"github.com/stretchr/testify/assert"
)

func TestLog_For(t *testing.T) {
	t.Parallel()

	alice := &domain.User{ID: "1", DisplayName: "alice"}
	bob := &domain.User{ID: "2", DisplayName: "bob"}

	l := New(nil)
	l.Append(Event{Kind: PhaseChanged, Seat: NoSeat, Phase: "night"})
	l.Append(Event{Kind: StartedWithCard, Seat: 0, User: alice, Cards: []cards.Card{cards.Seer}})
	l.Append(Event{Kind: StartedWithCard, Seat: 1, User: bob, Cards: []cards.Card{cards.Werewolf}})
	l.Append(Event{Kind: NightRoleChanged, Seat: NoSeat, Role: cards.Werewolf})
	l.Append(Event{Kind: LookedAtCards, Seat: 0, User: alice, Cards: []cards.Card{cards.Villager}, Indices: []int{3}})

	testCases := []struct {
		name  string
		seat  int
		kinds []Kind
	}{
		{name: "seat zero", seat: 0, kinds: []Kind{PhaseChanged, StartedWithCard, NightRoleChanged, LookedAtCards}},
		{name: "seat one", seat: 1, kinds: []Kind{PhaseChanged, StartedWithCard, NightRoleChanged}},
		{name: "spectator", seat: 7, kinds: []Kind{PhaseChanged, NightRoleChanged}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var kinds []Kind
			for _, e := range l.For(tc.seat) {
				kinds = append(kinds, e.Kind)
				if e.IsPlayerEvent() {
					assert.Equal(t, tc.seat, e.Seat)
				}
			}
			assert.Equal(t, tc.kinds, kinds)
		})
	}
	assert.Equal(t, 5, l.Len())
}

func TestLog_EventsIsACopy(t *testing.T) {
	t.Parallel()

	l := New(nil)
	l.Append(Event{Kind: PhaseChanged, Seat: NoSeat, Phase: "day"})

	events := l.Events()
	events[0].Phase = "tampered"

	assert.Equal(t, "day", l.Events()[0].Phase)
}
