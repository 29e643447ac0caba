package game

import (
	"context"
	"fmt"
	"time"

	"werewolf/cards"
	"werewolf/domain"
	"werewolf/voice"
)

type Phase int

const (
	PhaseNone Phase = iota
	PhaseSetup
	PhaseNight
	PhaseDay
	PhaseDeliberation
	PhaseVote
	PhaseEnd
)

var phaseNames = [...]string{"none", "setup", "night", "day", "deliberation", "vote", "end"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// GameState is everything about a room that survives a restart besides the
// seats and the history.
type GameState struct {
	Counts               cards.Counts  `json:"cardCounts"`
	LoneWolf             bool          `json:"loneWolfEnabled"`
	Deck                 []cards.Card  `json:"deck"`
	Phase                Phase         `json:"phase"`
	NightRole            cards.Card    `json:"nightRole,omitempty"`
	Step                 int           `json:"step"`
	DeliberationDuration time.Duration `json:"deliberationDuration"`
	Deadline             int64         `json:"deadline,omitempty"`
	Votes                []int         `json:"votes,omitempty"`
	Paused               bool          `json:"paused,omitempty"`
}

func (s GameState) Started() bool {
	return s.Phase > PhaseSetup
}

// Seat is a stable position at the table. User is nil for an empty seat,
// client is nil while nobody is connected.
type Seat struct {
	User         *domain.User
	StartingCard cards.Card
	RoleState    int
	Scratch      []int

	client   Client
	speaking bool
}

// Client is the room's handle on a player connection. The transport owns it.
type Client interface {
	Send(data []byte)
	Ping()
	Close(reason string)
}

type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

type TrackCatalog interface {
	Duration(track voice.Track) time.Duration
}

type Settings struct {
	RoleActionDuration   time.Duration
	RoleEndPause         time.Duration
	WolfRevealDuration   time.Duration
	LoneWolfBreath       time.Duration
	DeliberationDuration time.Duration
	VoteDuration         time.Duration
	VoiceTimeout         time.Duration
	PersistTimeout       time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		RoleActionDuration:   10 * time.Second,
		RoleEndPause:         time.Second,
		WolfRevealDuration:   5 * time.Second,
		LoneWolfBreath:       250 * time.Millisecond,
		DeliberationDuration: 5 * time.Minute,
		VoteDuration:         30 * time.Second,
		VoiceTimeout:         2 * time.Second,
		PersistTimeout:       5 * time.Second,
	}
}

// SeatInfo is the public view of a seat.
type SeatInfo struct {
	Seat      int          `json:"seat"`
	User      *domain.User `json:"user"`
	Connected bool         `json:"connected"`
	Speaking  bool         `json:"speaking"`
}

type RoomInfo struct {
	ID     string     `json:"id"`
	Phase  Phase      `json:"phase"`
	Paused bool       `json:"paused"`
	Seats  []SeatInfo `json:"seats"`
}

func (i RoomInfo) SeatOf(userID string) int {
	for _, s := range i.Seats {
		if s.User != nil && s.User.ID == userID {
			return s.Seat
		}
	}
	return -1
}
