package game

import (
	"werewolf/cards"
	"werewolf/history"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const (
	EventGameState              = "gameState"
	EventPhaseChanged           = "phaseChanged"
	EventNightRoleChanged       = "nightRoleChanged"
	EventCardCountChanged       = "cardCountChanged"
	EventAlphaWolfCardChanged   = "alphaWolfCardChanged"
	EventLoneWolfChanged        = "loneWolfChanged"
	EventSeatsChanged           = "seatsChanged"
	EventOwnCardRevealed        = "ownCardRevealed"
	EventOtherRolesRevealed     = "otherRolesRevealed"
	EventRoleActionWindowOpened = "roleActionWindowOpened"
	EventRoleActionStage        = "roleActionStage"
	EventDeadlineSet            = "deadlineSet"
	EventVotesShown             = "votesShown"
	EventHistoryAppended        = "historyAppended"
	EventHistoryReplay          = "historyReplay"
	EventValidationError        = "validationError"
	EventSpeakingChanged        = "speakingChanged"
	EventPauseChanged           = "pauseChanged"
	EventSession                = "session"
)

// Packet is the envelope of every server to client message.
type Packet struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// StateView is a seat's view of the game state, deck masked for that seat.
type StateView struct {
	RoomID    string         `json:"roomId"`
	Seat      int            `json:"seat"`
	Counts    cards.Counts   `json:"cardCounts"`
	LoneWolf  bool           `json:"loneWolfEnabled"`
	Deck      cards.DeckView `json:"deck"`
	Phase     Phase          `json:"phase"`
	NightRole cards.Card     `json:"nightRole,omitempty"`
	Deadline  int64          `json:"deadline,omitempty"`
	Paused    bool           `json:"paused"`
	Votes     []int          `json:"votes,omitempty"`
}

type RoleReveal struct {
	Seat int        `json:"seat"`
	Card cards.Card `json:"card"`
}

func encode(event string, payload any) []byte {
	data, err := json.Marshal(Packet{Event: event, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to encode packet")
		return nil
	}
	return data
}

func MakePacketGameState(view StateView) []byte {
	return encode(EventGameState, view)
}

func MakePacketPhaseChanged(phase Phase) []byte {
	return encode(EventPhaseChanged, map[string]any{"phase": phase})
}

func MakePacketNightRoleChanged(role cards.Card) []byte {
	return encode(EventNightRoleChanged, map[string]any{"role": role})
}

func MakePacketCardCountChanged(card cards.Card, count int) []byte {
	return encode(EventCardCountChanged, map[string]any{"card": card, "count": count})
}

func MakePacketAlphaWolfCardChanged(card cards.Card) []byte {
	return encode(EventAlphaWolfCardChanged, map[string]any{"card": card})
}

func MakePacketLoneWolfChanged(enabled bool) []byte {
	return encode(EventLoneWolfChanged, map[string]any{"enabled": enabled})
}

func MakePacketSeatsChanged(seats []SeatInfo) []byte {
	return encode(EventSeatsChanged, seats)
}

func MakePacketOwnCardRevealed(card cards.Card) []byte {
	return encode(EventOwnCardRevealed, map[string]any{"card": card})
}

func MakePacketOtherRolesRevealed(reveals []RoleReveal) []byte {
	return encode(EventOtherRolesRevealed, reveals)
}

func MakePacketRoleActionWindowOpened(role cards.Card, deadline int64, actions int) []byte {
	return encode(EventRoleActionWindowOpened, map[string]any{"role": role, "deadline": deadline, "actions": actions})
}

// MakePacketRoleActionStage reports the remaining actions of role; zero
// closes the window.
func MakePacketRoleActionStage(role cards.Card, stage int) []byte {
	return encode(EventRoleActionStage, map[string]any{"role": role, "stage": stage})
}

func MakePacketDeadlineSet(phase Phase, deadline int64) []byte {
	return encode(EventDeadlineSet, map[string]any{"phase": phase, "deadline": deadline})
}

func MakePacketVotesShown(votes []int) []byte {
	return encode(EventVotesShown, map[string]any{"votes": votes})
}

func MakePacketHistoryAppended(e history.Event) []byte {
	return encode(EventHistoryAppended, e)
}

func MakePacketHistoryReplay(events []history.Event) []byte {
	return encode(EventHistoryReplay, events)
}

func MakePacketValidationError(res *cards.ValidationResult) []byte {
	return encode(EventValidationError, map[string]any{
		"reason":      res.Reason.String(),
		"description": res.Description,
		"card":        res.Card,
	})
}

func MakePacketSpeakingChanged(seat int, speaking bool) []byte {
	return encode(EventSpeakingChanged, map[string]any{"seat": seat, "speaking": speaking})
}

func MakePacketPauseChanged(paused bool) []byte {
	return encode(EventPauseChanged, map[string]any{"paused": paused})
}

func MakePacketSession(roomID string, seat int, refreshToken string) []byte {
	return encode(EventSession, map[string]any{"roomId": roomID, "seat": seat, "refreshToken": refreshToken})
}
