package voice

import "context"

// Silent is used when no voice bridge is configured. It never reports a
// finished track, so the engine always waits out the fallback durations.
type Silent struct{}

func (Silent) Join(ctx context.Context, channelID string, handler func(Event)) (Connection, error) {
	return silentConn{}, nil
}

type silentConn struct{}

func (silentConn) Play(ctx context.Context, track Track) error { return nil }
func (silentConn) Stop(ctx context.Context) error              { return nil }
func (silentConn) Disconnect(ctx context.Context) error        { return nil }
