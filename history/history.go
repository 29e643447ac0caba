// Package history keeps the append-only event log of a room.
package history

import (
	"werewolf/cards"
	"werewolf/domain"
)

type Kind string

const (
	PhaseChanged     Kind = "phaseChanged"
	NightRoleChanged Kind = "nightRoleChanged"

	StartedWithCard  Kind = "startedWithCard"
	StartedNightRole Kind = "startedNightRole"
	LookedAtCards    Kind = "lookedAtCards"
	SwappedCards     Kind = "swappedCards"
	WokeUpTogether   Kind = "wokeUpTogether"
	ShiftedCards     Kind = "shiftedCards"
)

// NoSeat marks room events.
const NoSeat = -1

// Event is either a room event, visible to everyone, or a player event scoped
// to the seat that produced it.
type Event struct {
	Kind      Kind         `json:"kind"`
	Timestamp int64        `json:"timestamp"`
	Seat      int          `json:"seat"`
	User      *domain.User `json:"user,omitempty"`

	Phase   string       `json:"phase,omitempty"`
	Role    cards.Card   `json:"role,omitempty"`
	Cards   []cards.Card `json:"cards,omitempty"`
	Indices []int        `json:"indices,omitempty"`
	Left    bool         `json:"left,omitempty"`
}

func (e Event) IsPlayerEvent() bool {
	return e.Seat != NoSeat
}

// VisibleTo reports whether seat may see e.
func (e Event) VisibleTo(seat int) bool {
	return !e.IsPlayerEvent() || e.Seat == seat
}

type Log struct {
	events []Event
}

func New(events []Event) *Log {
	return &Log{events: events}
}

func (l *Log) Append(e Event) {
	l.events = append(l.events, e)
}

func (l *Log) Len() int {
	return len(l.events)
}

// Events returns a copy of every event in order.
func (l *Log) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// For returns the events seat may see, in order.
func (l *Log) For(seat int) []Event {
	out := make([]Event, 0, len(l.events))
	for _, e := range l.events {
		if e.VisibleTo(seat) {
			out = append(out, e)
		}
	}
	return out
}
