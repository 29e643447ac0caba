package game

import (
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Socket is the transport under a client.
type Socket interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Ping() error
	Close(reason string)
}

const (
	reasonSlowClient = "slow-client"
	reasonWriteError = "write-error"
)

// WSClient pumps packets between a socket and a room. Rooms only ever call
// the non-blocking Send, Ping and Close.
type WSClient struct {
	socket  Socket
	limiter *rate.Limiter
	outbox  chan []byte
	pings   chan struct{}
	done    chan struct{}

	closeOnce sync.Once
	reason    string
}

func NewClient(socket Socket) *WSClient {
	return &WSClient{
		socket:  socket,
		limiter: rate.NewLimiter(10, 20),
		outbox:  make(chan []byte, 256),
		pings:   make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (c *WSClient) Send(data []byte) {
	select {
	case c.outbox <- data:
	case <-c.done:
	default:
		c.Close(reasonSlowClient)
	}
}

func (c *WSClient) Ping() {
	select {
	case c.pings <- struct{}{}:
	default:
	}
}

// Close asks WritePump to close the socket with reason. Later calls are no-ops.
func (c *WSClient) Close(reason string) {
	c.closeOnce.Do(func() {
		c.reason = reason
		close(c.done)
	})
}

func (c *WSClient) WritePump() {
	for {
		select {
		case data := <-c.outbox:
			if err := c.socket.Write(data); err != nil {
				c.Close(reasonWriteError)
				c.socket.Close(c.reason)
				return
			}
		case <-c.pings:
			if err := c.socket.Ping(); err != nil {
				c.Close(reasonWriteError)
				c.socket.Close(c.reason)
				return
			}
		case <-c.done:
			c.socket.Close(c.reason)
			return
		}
	}
}

// ReadPump feeds decoded requests to sink until the socket fails, then
// leaves the seat.
func (c *WSClient) ReadPump(seat int, sink PacketSink) {
	defer sink.Leave(seat, c)

	for {
		data, err := c.socket.Read()
		if err != nil {
			c.Close("")
			return
		}
		if !c.limiter.Allow() {
			continue
		}
		req, err := DecodeRequest(data)
		if err != nil {
			log.Debug().Err(err).Int("seat", seat).Msg("dropping malformed request")
			continue
		}
		sink.Submit(seat, c, req)
	}
}
