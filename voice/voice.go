// Package voice talks to the voice-chat platform that narrates the night.
package voice

import "context"

// Track identifies an audio cue, e.g. "seer_wake".
type Track string

// RoleTrack builds the track name for a role cue.
func RoleTrack(role, cue string) Track {
	return Track(role + "_" + cue)
}

type EventKind string

const (
	TrackFinished   EventKind = "trackFinished"
	SpeakingChanged EventKind = "speakingChanged"
)

// Event is pushed by the platform while a connection is open.
type Event struct {
	Kind     EventKind `json:"kind"`
	Track    Track     `json:"track,omitempty"`
	UserID   string    `json:"userId,omitempty"`
	Speaking bool      `json:"speaking,omitempty"`
}

// Connector joins voice channels. Events for the channel are delivered to
// the handler until the connection is disconnected.
type Connector interface {
	Join(ctx context.Context, channelID string, handler func(Event)) (Connection, error)
}

type Connection interface {
	Play(ctx context.Context, track Track) error
	Stop(ctx context.Context) error
	Disconnect(ctx context.Context) error
}
