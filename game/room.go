package game

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"werewolf/cards"
	"werewolf/domain"
	"werewolf/history"
	"werewolf/logger"
	"werewolf/storage"
	"werewolf/timer"
	"werewolf/voice"

	"github.com/rs/zerolog"
)

type envelope struct {
	seat int
	from Client
	req  Request
}

type joinRequest struct {
	user   domain.User
	seat   int
	client Client
	result chan joinResult
}

type joinResult struct {
	seat int
	err  error
}

type leaveRequest struct {
	seat   int
	client Client
}

// RoomConfig carries the collaborators of a room. Zero values fall back to
// real time, a time-seeded PRNG, the default role set and no persistence.
type RoomConfig struct {
	ID        string
	ChannelID string
	Settings  Settings
	Clock     timer.Clock
	Rand      *rand.Rand
	Roles     map[cards.Card]Role
	Catalog   TrackCatalog
	Store     SnapshotStore
	OnDestroy func(id string)
}

// Room is a single game table. Its state is only touched from the goroutine
// running Run; everything else talks to it over channels.
type Room struct {
	id        string
	channelID string
	settings  Settings
	clock     timer.Clock
	rng       *rand.Rand
	roles     map[cards.Card]Role
	catalog   TrackCatalog
	voice     voice.Connection
	persister *persister
	onDestroy func(id string)
	log       zerolog.Logger

	seats   []*Seat
	state   GameState
	history *history.Log
	timer   *timer.Timer

	currentTrack  voice.Track
	recovering    bool
	replayPending bool

	inbox       chan envelope
	joins       chan joinRequest
	leaves      chan leaveRequest
	fires       chan uint64
	voiceEvents chan voice.Event
	control     chan func(*Room)
	quit        chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
}

func NewRoom(cfg RoomConfig) *Room {
	if cfg.Clock == nil {
		cfg.Clock = timer.RealClock()
	}
	if cfg.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		cfg.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if cfg.Roles == nil {
		cfg.Roles = DefaultRoles()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = voice.DefaultCatalog()
	}
	if cfg.Settings == (Settings{}) {
		cfg.Settings = DefaultSettings()
	}

	r := &Room{
		id:          cfg.ID,
		channelID:   cfg.ChannelID,
		settings:    cfg.Settings,
		clock:       cfg.Clock,
		rng:         cfg.Rand,
		roles:       cfg.Roles,
		catalog:     cfg.Catalog,
		onDestroy:   cfg.OnDestroy,
		log:         logger.Room(cfg.ID),
		history:     history.New(nil),
		state:       GameState{Counts: cards.NewCounts(), LoneWolf: true},
		inbox:       make(chan envelope, 1024),
		joins:       make(chan joinRequest),
		leaves:      make(chan leaveRequest, 64),
		fires:       make(chan uint64, 16),
		voiceEvents: make(chan voice.Event, 64),
		control:     make(chan func(*Room), 16),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	if cfg.Store != nil {
		r.persister = newPersister(cfg.Store, storage.RoomKey(cfg.ID), cfg.Settings.PersistTimeout, r.log)
	}
	r.timer = timer.New(cfg.Clock, func(gen uint64) {
		select {
		case r.fires <- gen:
		case <-r.quit:
		}
	})
	return r
}

func (r *Room) ID() string {
	return r.id
}

func (r *Room) ChannelID() string {
	return r.channelID
}

func (r *Room) attachVoice(conn voice.Connection) {
	r.voice = conn
}

// InitSeats seats users in order and pads the table to size with empty seats.
// It moves the room from None to Setup.
func (r *Room) InitSeats(users []domain.User, size int) {
	if size < len(users) {
		size = len(users)
	}
	r.seats = make([]*Seat, size)
	for i := range r.seats {
		r.seats[i] = &Seat{}
		if i < len(users) {
			u := users[i]
			r.seats[i].User = &u
		}
	}
	r.state.DeliberationDuration = r.settings.DeliberationDuration
	r.setPhase(PhaseSetup)
}

// Run is the room loop. It returns once Close is called.
func (r *Room) Run() {
	defer close(r.done)
	r.reenter()

	for {
		select {
		case env := <-r.inbox:
			r.handleRequest(env.seat, env.from, env.req)
		case jr := <-r.joins:
			seat, err := r.handleJoin(jr.user, jr.seat, jr.client)
			jr.result <- joinResult{seat: seat, err: err}
		case lv := <-r.leaves:
			r.handleLeave(lv.seat, lv.client)
		case gen := <-r.fires:
			r.handleFire(gen)
		case ev := <-r.voiceEvents:
			r.handleVoiceEvent(ev)
		case f := <-r.control:
			f(r)
		case <-r.quit:
			r.teardown()
			return
		}
	}
}

// Close stops the loop, disconnects every seat and releases voice. It blocks
// until pending snapshot writes are flushed.
func (r *Room) Close() {
	r.closeOnce.Do(func() { close(r.quit) })
	<-r.done
}

func (r *Room) teardown() {
	r.timer.Stop()
	r.stopTrack()
	for _, s := range r.seats {
		if s.client != nil {
			s.client.Close(domain.ErrRoomClosed.Error())
			s.client = nil
		}
	}
	if r.voice != nil {
		ctx, cancel := context.WithTimeout(context.Background(), r.settings.VoiceTimeout)
		if err := r.voice.Disconnect(ctx); err != nil {
			r.log.Error().Err(err).Msg("voice disconnect failed")
		}
		cancel()
	}
	if r.persister != nil {
		r.persister.close()
	}
}

// Join seats client for user, returning the seat index it got.
func (r *Room) Join(ctx context.Context, user domain.User, seat int, client Client) (int, error) {
	jr := joinRequest{user: user, seat: seat, client: client, result: make(chan joinResult, 1)}
	select {
	case r.joins <- jr:
	case <-r.quit:
		return -1, domain.ErrRoomClosed
	case <-ctx.Done():
		return -1, ctx.Err()
	}
	res := <-jr.result
	return res.seat, res.err
}

func (r *Room) Submit(seat int, from Client, req Request) {
	select {
	case r.inbox <- envelope{seat: seat, from: from, req: req}:
	case <-r.quit:
	}
}

func (r *Room) Leave(seat int, client Client) {
	select {
	case r.leaves <- leaveRequest{seat: seat, client: client}:
	case <-r.quit:
	}
}

func (r *Room) Pause(ctx context.Context) error {
	return r.exec(ctx, (*Room).pause)
}

func (r *Room) Resume(ctx context.Context) error {
	return r.exec(ctx, (*Room).resume)
}

func (r *Room) Info(ctx context.Context) (RoomInfo, error) {
	var info RoomInfo
	err := r.exec(ctx, func(r *Room) { info = r.info() })
	return info, err
}

// PingClients asks every connected seat to ping. It never blocks.
func (r *Room) PingClients() {
	select {
	case r.control <- (*Room).pingClients:
	default:
	}
}

func (r *Room) deliverVoiceEvent(ev voice.Event) {
	select {
	case r.voiceEvents <- ev:
	case <-r.quit:
	}
}

func (r *Room) exec(ctx context.Context, f func(*Room)) error {
	finished := make(chan struct{})
	task := func(r *Room) {
		f(r)
		close(finished)
	}
	select {
	case r.control <- task:
	case <-r.quit:
		return domain.ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-r.done:
		return domain.ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Room) info() RoomInfo {
	return RoomInfo{
		ID:     r.id,
		Phase:  r.state.Phase,
		Paused: r.state.Paused,
		Seats:  r.seatInfos(),
	}
}

func (r *Room) seatInfos() []SeatInfo {
	infos := make([]SeatInfo, len(r.seats))
	for i, s := range r.seats {
		infos[i] = SeatInfo{Seat: i, User: s.User, Connected: s.client != nil, Speaking: s.speaking}
	}
	return infos
}

func (r *Room) pingClients() {
	for _, s := range r.seats {
		if s.client != nil {
			s.client.Ping()
		}
	}
}

func (r *Room) send(seat int, data []byte) {
	if data == nil || !r.isSeat(seat) {
		return
	}
	if c := r.seats[seat].client; c != nil {
		c.Send(data)
	}
}

func (r *Room) broadcast(data []byte) {
	if data == nil {
		return
	}
	for _, s := range r.seats {
		if s.client != nil {
			s.client.Send(data)
		}
	}
}

func (r *Room) now() int64 {
	return r.clock.Now().UnixMilli()
}

// record appends e to the history and pushes it to whoever may see it.
// Nothing is recorded while a recovered step is being replayed.
func (r *Room) record(e history.Event) {
	if r.recovering {
		return
	}
	e.Timestamp = r.now()
	r.history.Append(e)

	data := MakePacketHistoryAppended(e)
	if e.IsPlayerEvent() {
		r.send(e.Seat, data)
		return
	}
	r.broadcast(data)
}

func (r *Room) playerEvent(seat int, kind history.Kind) history.Event {
	return history.Event{Kind: kind, Seat: seat, User: r.seats[seat].User}
}

func (r *Room) roomEvent(kind history.Kind) history.Event {
	return history.Event{Kind: kind, Seat: history.NoSeat}
}

func (r *Room) persist() {
	if r.persister == nil {
		return
	}
	data, err := EncodeSnapshot(r.snapshot())
	if err != nil {
		r.log.Error().Err(err).Msg("failed to encode snapshot")
		return
	}
	r.persister.save(data)
}

func (r *Room) pause() {
	if !r.state.Started() || r.state.Phase == PhaseEnd || r.state.Paused {
		return
	}
	r.timer.Pause()
	r.stopTrack()
	r.state.Paused = true
	r.broadcast(MakePacketPauseChanged(true))
	r.persist()
}

func (r *Room) resume() {
	if !r.state.Paused {
		return
	}
	r.state.Paused = false
	r.broadcast(MakePacketPauseChanged(false))

	switch {
	case r.replayPending:
		r.replayPending = false
		r.replayStep()
	case r.timer.Remaining() > 0:
		r.timer.Resume()
	default:
		r.advance()
	}
	r.persist()
}

func (r *Room) playTrack(track voice.Track) time.Duration {
	r.currentTrack = track
	if r.voice != nil {
		ctx, cancel := context.WithTimeout(context.Background(), r.settings.VoiceTimeout)
		defer cancel()
		if err := r.voice.Play(ctx, track); err != nil {
			r.log.Error().Err(err).Str("track", string(track)).Msg("voice play failed")
		}
	}
	d := r.catalog.Duration(track)
	if d <= 0 {
		// nothing waits on it, so its finish must not cut the next step short
		r.currentTrack = ""
	}
	return d
}

func (r *Room) stopTrack() {
	if r.currentTrack == "" {
		return
	}
	r.currentTrack = ""
	if r.voice == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.settings.VoiceTimeout)
	defer cancel()
	if err := r.voice.Stop(ctx); err != nil {
		r.log.Error().Err(err).Msg("voice stop failed")
	}
}

func (r *Room) handleVoiceEvent(ev voice.Event) {
	switch ev.Kind {
	case voice.TrackFinished:
		if r.state.Paused || ev.Track == "" || ev.Track != r.currentTrack {
			return
		}
		r.currentTrack = ""
		r.timer.Stop()
		r.advance()
	case voice.SpeakingChanged:
		for i, s := range r.seats {
			if s.User != nil && s.User.ID == ev.UserID {
				if s.speaking != ev.Speaking {
					s.speaking = ev.Speaking
					r.broadcast(MakePacketSpeakingChanged(i, ev.Speaking))
				}
				return
			}
		}
	}
}
