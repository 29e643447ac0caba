package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"werewolf/cards"
	"werewolf/domain"
	"werewolf/history"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Snapshot is the recoverable state of a room.
type Snapshot struct {
	RoomID    string          `json:"roomId"`
	ChannelID string          `json:"channelId"`
	Seats     []SeatSnapshot  `json:"seats"`
	State     GameState       `json:"state"`
	History   []history.Event `json:"history"`
}

type SeatSnapshot struct {
	User         *domain.User `json:"user,omitempty"`
	StartingCard cards.Card   `json:"startingCard,omitempty"`
	RoleState    int          `json:"roleState,omitempty"`
	Scratch      []int        `json:"scratch,omitempty"`
}

func EncodeSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedSnapshotError, err)
	}
	return data, nil
}

func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", domain.UnexpectedSnapshotError, err)
	}
	if s.State.Counts.Cards == nil {
		s.State.Counts.Cards = map[cards.Card]int{}
	}
	return s, nil
}

func (r *Room) snapshot() Snapshot {
	seats := make([]SeatSnapshot, len(r.seats))
	for i, s := range r.seats {
		seats[i] = SeatSnapshot{
			User:         s.User,
			StartingCard: s.StartingCard,
			RoleState:    s.RoleState,
			Scratch:      append([]int(nil), s.Scratch...),
		}
	}
	state := r.state
	state.Deck = append([]cards.Card(nil), r.state.Deck...)
	state.Votes = append([]int(nil), r.state.Votes...)
	return Snapshot{
		RoomID:    r.id,
		ChannelID: r.channelID,
		Seats:     seats,
		State:     state,
		History:   r.history.Events(),
	}
}

// restore loads s into a room that has not started running yet.
func (r *Room) restore(s Snapshot) {
	r.channelID = s.ChannelID
	r.seats = make([]*Seat, len(s.Seats))
	for i, ss := range s.Seats {
		r.seats[i] = &Seat{
			User:         ss.User,
			StartingCard: ss.StartingCard,
			RoleState:    ss.RoleState,
			Scratch:      ss.Scratch,
		}
	}
	r.state = s.State
	r.history = history.New(s.History)
}

// persister writes a room's snapshots off the room goroutine. Only the most
// recent pending snapshot is kept.
type persister struct {
	store   SnapshotStore
	key     string
	timeout time.Duration
	log     zerolog.Logger
	pending chan []byte
	done    chan struct{}
}

func newPersister(store SnapshotStore, key string, timeout time.Duration, log zerolog.Logger) *persister {
	if timeout <= 0 {
		timeout = DefaultSettings().PersistTimeout
	}
	p := &persister{
		store:   store,
		key:     key,
		timeout: timeout,
		log:     log,
		pending: make(chan []byte, 1),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// save queues data, replacing a snapshot that was not written yet. Only the
// room goroutine calls it.
func (p *persister) save(data []byte) {
	select {
	case <-p.pending:
	default:
	}
	p.pending <- data
}

func (p *persister) run() {
	defer close(p.done)
	for data := range p.pending {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.store.Put(ctx, p.key, data); err != nil {
			p.log.Error().Err(err).Msg("failed to persist snapshot")
		}
		cancel()
	}
}

// close flushes the last queued snapshot and stops the writer.
func (p *persister) close() {
	close(p.pending)
	<-p.done
}

// loadSnapshot reads and decodes the snapshot stored under key.
func loadSnapshot(ctx context.Context, store SnapshotStore, key string) (Snapshot, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			return Snapshot{}, domain.ErrRoomNotFound
		}
		return Snapshot{}, err
	}
	return DecodeSnapshot(data)
}
