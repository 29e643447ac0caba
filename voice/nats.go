package voice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"werewolf/domain"

	json "github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSConnector drives a voice bot over NATS request/reply. Commands go to
// voice.<channel>.<command>, the bot publishes events on voice.<channel>.events.
type NATSConnector struct {
	nc *nats.Conn
}

func ConnectNATS(url string) (*NATSConnector, error) {
	opts := []nats.Option{
		nats.Name("werewolf-server"),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &NATSConnector{nc: nc}, nil
}

func NewNATSConnector(nc *nats.Conn) *NATSConnector {
	return &NATSConnector{nc: nc}
}

func (c *NATSConnector) Close() {
	c.nc.Close()
}

type command struct {
	Channel string `json:"channel"`
	Track   Track  `json:"track,omitempty"`
}

type reply struct {
	Error string `json:"error,omitempty"`
}

func subject(channelID, name string) string {
	return "voice." + channelID + "." + name
}

func (c *NATSConnector) Join(ctx context.Context, channelID string, handler func(Event)) (Connection, error) {
	sub, err := c.nc.Subscribe(subject(channelID, "events"), func(m *nats.Msg) {
		var ev Event
		if err := json.Unmarshal(m.Data, &ev); err != nil {
			log.Warn().Err(err).Str("channel", channelID).Msg("malformed voice event")
			return
		}
		handler(ev)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVoiceJoin, err)
	}

	conn := &natsConn{nc: c.nc, channel: channelID, sub: sub}
	if err := conn.request(ctx, "join", command{Channel: channelID}); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("%w: %w", domain.ErrVoiceJoin, err)
	}
	return conn, nil
}

type natsConn struct {
	nc      *nats.Conn
	channel string
	sub     *nats.Subscription
}

func (c *natsConn) Play(ctx context.Context, track Track) error {
	return c.request(ctx, "play", command{Channel: c.channel, Track: track})
}

func (c *natsConn) Stop(ctx context.Context) error {
	return c.request(ctx, "stop", command{Channel: c.channel})
}

func (c *natsConn) Disconnect(ctx context.Context) error {
	err := c.request(ctx, "disconnect", command{Channel: c.channel})
	if uerr := c.sub.Unsubscribe(); uerr != nil && !errors.Is(uerr, nats.ErrConnectionClosed) {
		err = errors.Join(err, uerr)
	}
	return err
}

func (c *natsConn) request(ctx context.Context, name string, cmd command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	msg, err := c.nc.RequestWithContext(ctx, subject(c.channel, name), data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrVoiceCommand, name, err)
	}
	var r reply
	if err := json.Unmarshal(msg.Data, &r); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrVoiceCommand, name, err)
	}
	if r.Error != "" {
		return fmt.Errorf("%w: %s: %s", domain.ErrVoiceCommand, name, r.Error)
	}
	return nil
}
