package game

import (
	"time"

	"werewolf/cards"
	"werewolf/history"
	"werewolf/voice"
)

// Role binds a night role to its wake sequence and, for roles that act, the
// handler of its player action. Act reports whether the action was accepted
// and must leave the room untouched when it was not.
type Role struct {
	Card  cards.Card
	Steps func(r *Room) []Step
	Act   func(r *Room, seat int, a Action) bool
}

// DefaultRoles builds the registry of every night role.
func DefaultRoles() map[cards.Card]Role {
	roles := []Role{
		{Card: cards.Werewolf, Steps: werewolfSteps, Act: actLoneWolf},
		{Card: cards.AlphaWolf, Steps: standardSteps(cards.AlphaWolf, setupAlphaWolf), Act: actAlphaWolf},
		{Card: cards.MysticWolf, Steps: standardSteps(cards.MysticWolf, windowFor(cards.MysticWolf, 1)), Act: actMysticWolf},
		{Card: cards.Minion, Steps: standardSteps(cards.Minion, setupMinion)},
		{Card: cards.Mason, Steps: standardSteps(cards.Mason, setupMason)},
		{Card: cards.Seer, Steps: standardSteps(cards.Seer, windowFor(cards.Seer, 2)), Act: actSeer},
		{Card: cards.ApprenticeSeer, Steps: standardSteps(cards.ApprenticeSeer, windowFor(cards.ApprenticeSeer, 1)), Act: actApprenticeSeer},
		{Card: cards.Robber, Steps: standardSteps(cards.Robber, windowFor(cards.Robber, 1)), Act: actRobber},
		{Card: cards.Witch, Steps: standardSteps(cards.Witch, windowFor(cards.Witch, 2)), Act: actWitch},
		{Card: cards.Troublemaker, Steps: standardSteps(cards.Troublemaker, windowFor(cards.Troublemaker, 1)), Act: actTroublemaker},
		{Card: cards.VillageIdiot, Steps: standardSteps(cards.VillageIdiot, windowFor(cards.VillageIdiot, 1)), Act: actVillageIdiot},
		{Card: cards.Drunk, Steps: standardSteps(cards.Drunk, windowFor(cards.Drunk, 1)), Act: actDrunk},
		{Card: cards.Insomniac, Steps: standardSteps(cards.Insomniac, setupInsomniac)},
	}

	registry := make(map[cards.Card]Role, len(roles))
	for _, role := range roles {
		registry[role.Card] = role
	}
	return registry
}

func roleEndPause(s Settings) time.Duration { return s.RoleEndPause }

// standardSteps is the wake, act, close sequence shared by every role but
// the werewolves.
func standardSteps(role cards.Card, setup func(r *Room)) func(r *Room) []Step {
	return func(r *Room) []Step {
		return []Step{
			play(voice.RoleTrack(string(role), "wake")),
			act("setup", func(r *Room) time.Duration {
				setup(r)
				return r.settings.RoleActionDuration
			}),
			act("end actions", endRoleActions(role)),
			play(voice.RoleTrack(string(role), "close")),
			pause("role end", roleEndPause),
		}
	}
}

func werewolfSteps(r *Room) []Step {
	dream := r.state.Counts.Get(cards.DreamWolf) > 0
	wake := voice.RoleTrack(string(cards.Werewolf), "wake")
	if dream {
		wake = "werewolf_dreamwolf_wake"
	}

	steps := []Step{play(wake)}
	if r.state.LoneWolf {
		steps = append(steps,
			pause("lone wolf breath", func(s Settings) time.Duration { return s.LoneWolfBreath }),
			play("werewolf_lonewolf_option"),
		)
	}
	steps = append(steps,
		act("show werewolves", (*Room).showWerewolves),
		act("end actions", endRoleActions(cards.Werewolf)),
	)
	if dream {
		steps = append(steps, play("werewolf_dreamwolf_thumb"))
	}
	return append(steps,
		play(voice.RoleTrack(string(cards.Werewolf), "close")),
		pause("role end", roleEndPause),
	)
}

// showWerewolves wakes every wolf but the dream wolf and shows them the pack.
// Only the dream wolf is shown by its own card. A lone wolf gets a window to
// peek at a middle card.
func (r *Room) showWerewolves() time.Duration {
	pack := r.seatsHolding(cards.Card.IsWolf)
	reveals := make([]RoleReveal, 0, len(pack))
	for _, seat := range pack {
		card := cards.Werewolf
		if r.seats[seat].StartingCard == cards.DreamWolf {
			card = cards.DreamWolf
		}
		reveals = append(reveals, RoleReveal{Seat: seat, Card: card})
	}

	lone := r.state.LoneWolf && len(pack) == 1 && r.seats[pack[0]].StartingCard != cards.DreamWolf
	for _, seat := range pack {
		if r.seats[seat].StartingCard == cards.DreamWolf {
			continue
		}
		actions := 0
		if lone {
			actions = 1
		}
		r.openWindow(seat, cards.Werewolf, actions)
		r.send(seat, MakePacketOtherRolesRevealed(reveals))

		e := r.playerEvent(seat, history.WokeUpTogether)
		e.Role = cards.Werewolf
		e.Indices = pack
		r.record(e)
	}

	if r.state.LoneWolf {
		return r.settings.RoleActionDuration
	}
	return r.settings.WolfRevealDuration
}

func windowFor(role cards.Card, actions int) func(r *Room) {
	return func(r *Room) {
		for _, seat := range r.seatsHolding(is(role)) {
			r.openWindow(seat, role, actions)
		}
	}
}

// openWindow lets seat act as role. A replayed step keeps whatever actions
// were left before the restart.
func (r *Room) openWindow(seat int, role cards.Card, actions int) {
	s := r.seats[seat]
	if !r.recovering {
		s.RoleState = actions
		s.Scratch = nil

		e := r.playerEvent(seat, history.StartedNightRole)
		e.Role = role
		r.record(e)
	}
	if s.RoleState > 0 {
		deadline := r.clock.Now().Add(r.settings.RoleActionDuration).UnixMilli()
		r.send(seat, MakePacketRoleActionWindowOpened(role, deadline, s.RoleState))
	}
}

func endRoleActions(role cards.Card) func(r *Room) time.Duration {
	return func(r *Room) time.Duration {
		for _, s := range r.seats {
			s.RoleState = 0
			s.Scratch = nil
		}
		r.broadcast(MakePacketRoleActionStage(role, 0))
		return 0
	}
}

func setupAlphaWolf(r *Room) {
	actions := 0
	if len(r.state.Deck) == len(r.seats)+cards.MiddleCards+1 {
		actions = 1
	}
	for _, seat := range r.seatsHolding(is(cards.AlphaWolf)) {
		r.openWindow(seat, cards.AlphaWolf, actions)
	}
}

// Minions see the whole pack as plain werewolves.
func setupMinion(r *Room) {
	pack := r.seatsHolding(cards.Card.IsWolf)
	reveals := make([]RoleReveal, 0, len(pack))
	for _, seat := range pack {
		reveals = append(reveals, RoleReveal{Seat: seat, Card: cards.Werewolf})
	}
	for _, seat := range r.seatsHolding(is(cards.Minion)) {
		r.openWindow(seat, cards.Minion, 0)
		r.send(seat, MakePacketOtherRolesRevealed(reveals))
	}
}

func setupMason(r *Room) {
	masons := r.seatsHolding(is(cards.Mason))
	reveals := make([]RoleReveal, 0, len(masons))
	for _, seat := range masons {
		reveals = append(reveals, RoleReveal{Seat: seat, Card: cards.Mason})
	}
	for _, seat := range masons {
		r.openWindow(seat, cards.Mason, 0)
		r.send(seat, MakePacketOtherRolesRevealed(reveals))

		e := r.playerEvent(seat, history.WokeUpTogether)
		e.Role = cards.Mason
		e.Indices = masons
		r.record(e)
	}
}

func setupInsomniac(r *Room) {
	for _, seat := range r.seatsHolding(is(cards.Insomniac)) {
		r.openWindow(seat, cards.Insomniac, 0)
		r.send(seat, MakePacketOwnCardRevealed(r.state.Deck[seat]))
		r.lookedAt(seat, seat)
	}
}
