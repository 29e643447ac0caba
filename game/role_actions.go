package game

import (
	"slices"

	"werewolf/cards"
)

// handleAction runs a night role action for seat. Rejections change nothing
// and are only logged.
func (r *Room) handleAction(seat int, a Action) {
	logger := r.log.With().Int("seat", seat).Str("role", string(a.Role())).Logger()

	if r.state.Phase != PhaseNight || r.state.Paused || a.Role() != r.state.NightRole {
		logger.Debug().Msg("action out of turn")
		return
	}
	s := r.seats[seat]
	if s.RoleState <= 0 {
		logger.Debug().Msg("no actions left")
		return
	}
	role, ok := r.roles[a.Role()]
	if !ok || role.Act == nil {
		logger.Debug().Msg("role has no action")
		return
	}
	if !role.Act(r, seat, a) {
		logger.Debug().Interface("action", a).Msg("action rejected")
		return
	}

	logger.Debug().Interface("action", a).Int("remaining", s.RoleState).Msg("action accepted")
	r.send(seat, MakePacketRoleActionStage(a.Role(), s.RoleState))
	r.persist()
}

func (r *Room) otherSeat(seat, target int) bool {
	return r.isSeat(target) && target != seat
}

func actLoneWolf(r *Room, seat int, a Action) bool {
	act, ok := a.(LoneWolfAction)
	if !ok {
		return false
	}
	if !r.isCenter(act.Index) {
		return false
	}
	r.seats[seat].RoleState--
	r.reveal(seat, act.Index)
	return true
}

// The alpha wolf turns a non-wolf into a wolf by handing them the extra
// middle card. It does not see what it gave away.
func actAlphaWolf(r *Room, seat int, a Action) bool {
	act, ok := a.(AlphaWolfAction)
	if !ok {
		return false
	}
	alphaSlot := len(r.seats) + cards.MiddleCards
	if !r.otherSeat(seat, act.Target) || len(r.state.Deck) != alphaSlot+1 {
		return false
	}
	if r.seats[act.Target].StartingCard.IsWolf() {
		return false
	}
	r.seats[seat].RoleState--
	r.swap(seat, act.Target, alphaSlot)
	return true
}

func actMysticWolf(r *Room, seat int, a Action) bool {
	act, ok := a.(MysticWolfAction)
	if !ok {
		return false
	}
	if !r.otherSeat(seat, act.Target) {
		return false
	}
	r.seats[seat].RoleState--
	r.reveal(seat, act.Target)
	return true
}

// The seer either looks at one other seat, as its first and only action, or
// at up to two distinct middle cards.
func actSeer(r *Room, seat int, a Action) bool {
	act, ok := a.(SeerAction)
	if !ok {
		return false
	}
	s := r.seats[seat]

	if r.isSeat(act.Index) {
		if act.Index == seat || len(s.Scratch) > 0 {
			return false
		}
		s.RoleState = 0
		r.reveal(seat, act.Index)
		return true
	}

	if !r.isCenter(act.Index) || slices.Contains(s.Scratch, act.Index) {
		return false
	}
	s.Scratch = append(s.Scratch, act.Index)
	s.RoleState--
	r.showDeck(seat, s.Scratch...)
	r.lookedAt(seat, act.Index)
	return true
}

func actApprenticeSeer(r *Room, seat int, a Action) bool {
	act, ok := a.(ApprenticeSeerAction)
	if !ok {
		return false
	}
	if !r.isCenter(act.Index) {
		return false
	}
	r.seats[seat].RoleState--
	r.reveal(seat, act.Index)
	return true
}

func actRobber(r *Room, seat int, a Action) bool {
	act, ok := a.(RobberAction)
	if !ok {
		return false
	}
	if !r.otherSeat(seat, act.Target) {
		return false
	}
	r.seats[seat].RoleState--
	r.swap(seat, seat, act.Target)
	r.reveal(seat, seat)
	return true
}

// The witch looks at a middle card first, then must hand that card to any
// seat, herself included.
func actWitch(r *Room, seat int, a Action) bool {
	act, ok := a.(WitchAction)
	if !ok {
		return false
	}
	s := r.seats[seat]

	switch {
	case s.RoleState == 2:
		if !r.isCenter(act.Index) {
			return false
		}
		s.RoleState = 1
		s.Scratch = []int{act.Index}
		r.reveal(seat, act.Index)
		return true
	case s.RoleState == 1 && len(s.Scratch) == 1:
		if !r.isSeat(act.Index) {
			return false
		}
		s.RoleState = 0
		r.swap(seat, s.Scratch[0], act.Index)
		r.showDeck(seat)
		return true
	}
	return false
}

func actTroublemaker(r *Room, seat int, a Action) bool {
	act, ok := a.(TroublemakerAction)
	if !ok {
		return false
	}
	if !r.otherSeat(seat, act.Target1) || !r.otherSeat(seat, act.Target2) || act.Target1 == act.Target2 {
		return false
	}
	r.seats[seat].RoleState--
	r.swap(seat, act.Target1, act.Target2)
	return true
}

// The village idiot shifts every other seat's card one seat over.
func actVillageIdiot(r *Room, seat int, a Action) bool {
	act, ok := a.(VillageIdiotAction)
	if !ok {
		return false
	}
	others := make([]int, 0, len(r.seats)-1)
	for i := range r.seats {
		if i != seat {
			others = append(others, i)
		}
	}
	r.seats[seat].RoleState--
	r.rotate(seat, others, act.ShiftLeft)
	return true
}

func actDrunk(r *Room, seat int, a Action) bool {
	act, ok := a.(DrunkAction)
	if !ok {
		return false
	}
	if !r.isCenter(act.Index) {
		return false
	}
	r.seats[seat].RoleState--
	r.swap(seat, seat, act.Index)
	return true
}
