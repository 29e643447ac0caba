package game

import (
	"time"

	"werewolf/cards"
	"werewolf/history"
	"werewolf/voice"
)

const (
	trackNightStart voice.Track = "night_start"
	trackDayStart   voice.Track = "day_start"
	trackVoteStart  voice.Track = "vote_start"
	trackGameEnd    voice.Track = "game_end"
)

// Step is one unit of a stage. Run performs its side effects and returns how
// long to wait before the next step; zero moves on immediately.
type Step struct {
	Name string
	Run  func(r *Room) time.Duration
}

func pause(name string, d func(s Settings) time.Duration) Step {
	return Step{Name: name, Run: func(r *Room) time.Duration { return d(r.settings) }}
}

func play(track voice.Track) Step {
	return Step{Name: string(track), Run: func(r *Room) time.Duration { return r.playTrack(track) }}
}

func act(name string, f func(r *Room) time.Duration) Step {
	return Step{Name: name, Run: f}
}

// stageSteps rebuilds the step table of the current stage. It only depends on
// persisted state so a recovered room resolves the same table.
func (r *Room) stageSteps() []Step {
	switch r.state.Phase {
	case PhaseNight:
		if r.state.NightRole == "" {
			return []Step{play(trackNightStart)}
		}
		role, ok := r.roles[r.state.NightRole]
		if !ok || role.Steps == nil {
			return nil
		}
		return role.Steps(r)
	case PhaseDay:
		return []Step{play(trackDayStart)}
	case PhaseDeliberation:
		return []Step{act("deliberation", (*Room).openDeliberation)}
	case PhaseVote:
		return []Step{play(trackVoteStart), act("vote", (*Room).openVote)}
	}
	return nil
}

// advance runs steps until one asks to wait, crossing stage boundaries as
// the tables run out.
func (r *Room) advance() {
	r.stopTrack()
	for r.state.Phase > PhaseSetup && r.state.Phase < PhaseEnd {
		steps := r.stageSteps()
		if r.state.Step >= len(steps) {
			r.recovering = false
			r.nextStage()
			continue
		}

		step := steps[r.state.Step]
		r.state.Step++
		r.log.Debug().
			Str("phase", r.state.Phase.String()).
			Str("role", string(r.state.NightRole)).
			Str("step", step.Name).
			Msg("running step")

		d := step.Run(r)
		r.recovering = false
		if d > 0 {
			r.persist()
			r.timer.Start(d)
			return
		}
	}
	r.persist()
}

func (r *Room) handleFire(gen uint64) {
	if r.state.Paused || gen != r.timer.Generation() {
		return
	}
	r.timer.Stop()
	r.advance()
}

func (r *Room) nextStage() {
	switch r.state.Phase {
	case PhaseNight:
		if next := r.nextNightRole(r.state.NightRole); next != "" {
			r.setNightRole(next)
			return
		}
		r.setPhase(PhaseDay)
	case PhaseDay:
		r.setPhase(PhaseDeliberation)
	case PhaseDeliberation:
		r.setPhase(PhaseVote)
	case PhaseVote:
		r.finalizeVotes()
		r.setPhase(PhaseEnd)
		r.revealEnd()
	}
}

// nextNightRole finds the next role in night order with a card in the deck.
// Roles present in the deck without registered steps are skipped.
func (r *Room) nextNightRole(current cards.Card) cards.Card {
	for role := cards.NextNightRole(current); role != ""; role = cards.NextNightRole(role) {
		if !r.rolePresent(role) {
			continue
		}
		if reg, ok := r.roles[role]; !ok || reg.Steps == nil {
			r.log.Warn().Str("role", string(role)).Msg("no steps registered for role, skipping")
			continue
		}
		return role
	}
	return ""
}

func (r *Room) rolePresent(role cards.Card) bool {
	for _, c := range r.state.Deck {
		if c == role || (role == cards.Werewolf && c.IsWolf()) {
			return true
		}
	}
	return false
}

func (r *Room) setPhase(phase Phase) {
	r.state.Phase = phase
	r.state.Step = 0
	r.state.Deadline = 0
	if phase != PhaseNight {
		r.state.NightRole = ""
	}
	if phase == PhaseVote {
		r.state.Votes = make([]int, len(r.seats))
		for i := range r.state.Votes {
			r.state.Votes[i] = -1
		}
	}

	r.log.Info().Str("phase", phase.String()).Msg("phase changed")
	r.broadcast(MakePacketPhaseChanged(phase))
	e := r.roomEvent(history.PhaseChanged)
	e.Phase = phase.String()
	r.record(e)
	r.persist()
}

func (r *Room) setNightRole(role cards.Card) {
	r.state.NightRole = role
	r.state.Step = 0

	r.broadcast(MakePacketNightRoleChanged(role))
	e := r.roomEvent(history.NightRoleChanged)
	e.Role = role
	r.record(e)
	r.persist()
}

func (r *Room) openDeliberation() time.Duration {
	d := r.state.DeliberationDuration
	if d <= 0 {
		d = r.settings.DeliberationDuration
	}
	r.setDeadline(d)
	return d
}

func (r *Room) openVote() time.Duration {
	r.setDeadline(r.settings.VoteDuration)
	return r.settings.VoteDuration
}

func (r *Room) setDeadline(d time.Duration) {
	r.state.Deadline = r.clock.Now().Add(d).UnixMilli()
	r.broadcast(MakePacketDeadlineSet(r.state.Phase, r.state.Deadline))
}

// revealEnd shows every seat the votes and the final deck.
func (r *Room) revealEnd() {
	r.broadcast(MakePacketVotesShown(r.state.Votes))
	for i := range r.seats {
		r.send(i, MakePacketGameState(r.stateView(i)))
	}
	r.playTrack(trackGameEnd)
}

// reenter resumes a restored room at the step that was in flight when the
// snapshot was written, without recording history twice.
func (r *Room) reenter() {
	if r.state.Phase <= PhaseSetup || r.state.Phase >= PhaseEnd {
		return
	}
	if r.state.Paused {
		r.replayPending = true
		return
	}
	r.replayStep()
}

func (r *Room) replayStep() {
	if r.state.Step > 0 {
		r.state.Step--
		r.recovering = true
	}
	r.advance()
}
