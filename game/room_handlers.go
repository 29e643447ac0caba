package game

import (
	"werewolf/cards"
	"werewolf/domain"
	"werewolf/history"
)

func (r *Room) handleRequest(seat int, from Client, req Request) {
	if !r.isSeat(seat) || r.seats[seat].client != from {
		r.log.Debug().Int("seat", seat).Str("type", req.Type()).Msg("request from stale client")
		return
	}

	switch req := req.(type) {
	case ReadyRequest:
		r.sendState(seat)
	case UpdateCardCountRequest:
		r.handleCardCount(req.Card, req.Count)
	case UpdateAlphaWolfCardRequest:
		r.handleAlphaWolfCard(req.Card)
	case UpdateLoneWolfRequest:
		r.handleLoneWolf(req.Enabled)
	case StartRequest:
		r.handleStart(seat)
	case DestroyRequest:
		r.handleDestroy(seat)
	case NightRoleActionRequest:
		r.handleAction(seat, req.Action)
	case CastVoteRequest:
		r.handleVote(seat, req.Seat)
	}
}

// sendState pushes seat everything it is entitled to see right now.
func (r *Room) sendState(seat int) {
	r.send(seat, MakePacketGameState(r.stateView(seat)))
	r.send(seat, MakePacketSeatsChanged(r.seatInfos()))
	if r.state.Started() && r.seats[seat].StartingCard != "" {
		r.send(seat, MakePacketOwnCardRevealed(r.seats[seat].StartingCard))
	}
}

func (r *Room) handleCardCount(card cards.Card, count int) {
	if r.state.Phase != PhaseSetup || !card.Valid() {
		return
	}
	counts, changed := r.state.Counts.WithCount(card, count)
	if !changed {
		return
	}
	r.state.Counts = counts
	r.broadcast(MakePacketCardCountChanged(card, counts.Get(card)))
	r.persist()
}

func (r *Room) handleAlphaWolfCard(card cards.Card) {
	if r.state.Phase != PhaseSetup {
		return
	}
	counts, changed := r.state.Counts.WithAlphaWolfCard(card)
	if !changed {
		return
	}
	r.state.Counts = counts
	r.broadcast(MakePacketAlphaWolfCardChanged(card))
	r.persist()
}

func (r *Room) handleLoneWolf(enabled bool) {
	if r.state.Phase != PhaseSetup || r.state.LoneWolf == enabled {
		return
	}
	r.state.LoneWolf = enabled
	r.broadcast(MakePacketLoneWolfChanged(enabled))
	r.persist()
}

// handleStart deals the cards and starts the night. An invalid card setup is
// reported to the requester only.
func (r *Room) handleStart(seat int) {
	if r.state.Phase != PhaseSetup {
		return
	}
	if res := cards.Validate(r.state.Counts, len(r.seats)); res != nil {
		r.log.Debug().Str("reason", res.Reason.String()).Msg("start rejected")
		r.send(seat, MakePacketValidationError(res))
		return
	}

	r.state.Deck = cards.Prepare(r.rng, r.state.Counts, cards.Build(r.state.Counts))
	for i, s := range r.seats {
		s.StartingCard = r.state.Deck[i]
		s.RoleState = 0
		s.Scratch = nil

		e := r.playerEvent(i, history.StartedWithCard)
		e.Cards = []cards.Card{s.StartingCard}
		r.record(e)
		r.send(i, MakePacketOwnCardRevealed(s.StartingCard))
	}

	r.log.Info().Int("seats", len(r.seats)).Msg("game started")
	r.state.NightRole = ""
	r.setPhase(PhaseNight)
	r.advance()
}

func (r *Room) handleDestroy(seat int) {
	r.log.Info().Int("seat", seat).Msg("destroy requested")
	if r.onDestroy != nil {
		r.onDestroy(r.id)
	}
}

func (r *Room) handleVote(seat, target int) {
	if r.state.Phase != PhaseVote || r.state.Paused || !r.isSeat(target) {
		return
	}
	if r.state.Votes[seat] == target {
		return
	}
	r.state.Votes[seat] = target
	r.persist()
}

// finalizeVotes gives every seat that did not vote, or voted for itself, a
// uniformly random vote for someone else.
func (r *Room) finalizeVotes() {
	n := len(r.seats)
	if n < 2 {
		return
	}
	for i, v := range r.state.Votes {
		if v >= 0 && v < n && v != i {
			continue
		}
		j := r.rng.IntN(n - 1)
		if j >= i {
			j++
		}
		r.state.Votes[i] = j
	}
}

// handleJoin seats client for user. A returning user gets their old seat
// back and any older connection on it is dropped.
func (r *Room) handleJoin(user domain.User, requested int, client Client) (int, error) {
	seat := -1
	for i, s := range r.seats {
		if s.User != nil && s.User.ID == user.ID {
			seat = i
			break
		}
	}
	if seat < 0 {
		if !r.isSeat(requested) || r.seats[requested].User != nil {
			return -1, domain.ErrSeatUnavailable
		}
		seat = requested
	}

	s := r.seats[seat]
	if s.client != nil && s.client != client {
		s.client.Close("replaced")
	}
	u := user
	s.User = &u
	s.client = client

	r.log.Info().Int("seat", seat).Str("user", user.ID).Msg("seat joined")
	r.sendState(seat)
	r.send(seat, MakePacketHistoryReplay(r.history.For(seat)))
	if r.state.Phase == PhaseNight && s.RoleState > 0 {
		deadline := r.clock.Now().Add(r.timer.Remaining()).UnixMilli()
		r.send(seat, MakePacketRoleActionWindowOpened(r.state.NightRole, deadline, s.RoleState))
	}
	r.broadcast(MakePacketSeatsChanged(r.seatInfos()))
	r.persist()
	return seat, nil
}

func (r *Room) handleLeave(seat int, client Client) {
	if !r.isSeat(seat) || r.seats[seat].client != client {
		return
	}
	s := r.seats[seat]
	s.client = nil
	s.speaking = false
	r.log.Info().Int("seat", seat).Msg("seat left")
	r.broadcast(MakePacketSeatsChanged(r.seatInfos()))
}
