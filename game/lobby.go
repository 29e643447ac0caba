package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"werewolf/cards"
	"werewolf/domain"
	"werewolf/session"
	"werewolf/storage"
	"werewolf/timer"
	"werewolf/voice"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxSeats = 32

type SessionStore interface {
	MintInvite(g session.Grant) (string, error)
	PeekInvite(code string) (session.Grant, error)
	ClaimInvite(code string) (session.Grant, error)
	MintRefresh(g session.Grant) string
	ResolveRefresh(token string) (session.Grant, error)
	RevokeRoom(roomID string)
	Sweep() int
}

// PacketSink receives what a connected client reads off the wire.
type PacketSink interface {
	Submit(seat int, from Client, req Request)
	Leave(seat int, client Client)
}

type LobbyConfig struct {
	Voice         voice.Connector
	Store         SnapshotStore
	Sessions      SessionStore
	Catalog       TrackCatalog
	Settings      Settings
	Clock         timer.Clock
	Roles         map[cards.Card]Role
	PingInterval  time.Duration
	SweepInterval time.Duration
}

type CreateRoomRequest struct {
	ID        string        `json:"id"`
	ChannelID string        `json:"channelId" binding:"required"`
	Users     []domain.User `json:"users"`
	Seats     int           `json:"seats"`
}

type Credentials struct {
	Invite  string
	Refresh string
	Seat    int
}

type ConnectResult struct {
	RoomID       string
	Seat         int
	RefreshToken string
	Sink         PacketSink
}

type registerRequest struct {
	room   *Room
	result chan error
}

type lookupRequest struct {
	id     string
	remove bool
	result chan *Room
}

// Lobby owns every live room. The room map is only touched by Run.
type Lobby struct {
	cfg LobbyConfig

	rooms    map[string]*Room
	register chan registerRequest
	lookups  chan lookupRequest
	list     chan chan []*Room
	started  chan struct{}
}

func NewLobby(cfg LobbyConfig) *Lobby {
	if cfg.Voice == nil {
		cfg.Voice = voice.Silent{}
	}
	if cfg.Settings == (Settings{}) {
		cfg.Settings = DefaultSettings()
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return &Lobby{
		cfg:      cfg,
		rooms:    map[string]*Room{},
		register: make(chan registerRequest),
		lookups:  make(chan lookupRequest),
		list:     make(chan chan []*Room),
		started:  make(chan struct{}),
	}
}

// Run serves the lobby until ctx is done.
func (l *Lobby) Run(ctx context.Context) {
	ping := time.NewTicker(l.cfg.PingInterval)
	defer ping.Stop()
	sweep := time.NewTicker(l.cfg.SweepInterval)
	defer sweep.Stop()

	close(l.started)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			for _, r := range l.rooms {
				r.PingClients()
			}
		case <-sweep.C:
			if l.cfg.Sessions != nil {
				if n := l.cfg.Sessions.Sweep(); n > 0 {
					log.Debug().Int("dropped", n).Msg("expired refresh tokens swept")
				}
			}
		case req := <-l.register:
			if _, ok := l.rooms[req.room.id]; ok {
				req.result <- domain.ErrRoomExists
				continue
			}
			l.rooms[req.room.id] = req.room
			req.result <- nil
		case req := <-l.lookups:
			r := l.rooms[req.id]
			if req.remove {
				delete(l.rooms, req.id)
			}
			req.result <- r
		case resp := <-l.list:
			rooms := make([]*Room, 0, len(l.rooms))
			for _, r := range l.rooms {
				rooms = append(rooms, r)
			}
			resp <- rooms
		}
	}
}

// Started is closed once Run is serving.
func (l *Lobby) Started() <-chan struct{} {
	return l.started
}

func (l *Lobby) addRoom(ctx context.Context, r *Room) error {
	req := registerRequest{room: r, result: make(chan error, 1)}
	select {
	case l.register <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-req.result
}

func (l *Lobby) lookup(ctx context.Context, id string, remove bool) (*Room, error) {
	req := lookupRequest{id: id, remove: remove, result: make(chan *Room, 1)}
	select {
	case l.lookups <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	r := <-req.result
	if r == nil {
		return nil, domain.ErrRoomNotFound
	}
	return r, nil
}

func (l *Lobby) snapshotRooms(ctx context.Context) ([]*Room, error) {
	resp := make(chan []*Room, 1)
	select {
	case l.list <- resp:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return <-resp, nil
}

func (l *Lobby) newRoom(id, channelID string) *Room {
	return NewRoom(RoomConfig{
		ID:        id,
		ChannelID: channelID,
		Settings:  l.cfg.Settings,
		Clock:     l.cfg.Clock,
		Roles:     l.cfg.Roles,
		Catalog:   l.cfg.Catalog,
		Store:     l.cfg.Store,
		OnDestroy: func(id string) {
			go func() {
				if err := l.DestroyRoom(context.Background(), id); err != nil {
					log.Error().Err(err).Str("room", id).Msg("destroy failed")
				}
			}()
		},
	})
}

// discard releases a room that never ran. Callers that reached it through
// the lobby in the meantime see it as closed.
func (r *Room) discard() {
	r.closeOnce.Do(func() { close(r.quit) })
	close(r.done)
	if r.persister != nil {
		r.persister.close()
	}
}

func validateCreate(req CreateRoomRequest) error {
	if req.ChannelID == "" || req.Seats < 1 || req.Seats > maxSeats || len(req.Users) > req.Seats {
		return domain.ErrInvalidRoomConfig
	}
	seen := make(map[string]bool, len(req.Users))
	for _, u := range req.Users {
		if u.ID == "" || seen[u.ID] {
			return domain.ErrInvalidRoomConfig
		}
		seen[u.ID] = true
	}
	return nil
}

// CreateRoom opens a room bound to a voice channel and starts its loop.
func (l *Lobby) CreateRoom(ctx context.Context, req CreateRoomRequest) (RoomInfo, error) {
	if err := validateCreate(req); err != nil {
		return RoomInfo{}, err
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	r := l.newRoom(req.ID, req.ChannelID)
	if err := l.addRoom(ctx, r); err != nil {
		r.discard()
		return RoomInfo{}, err
	}
	if err := l.joinVoice(ctx, r); err != nil {
		l.lookup(context.Background(), r.id, true)
		r.discard()
		return RoomInfo{}, err
	}

	r.InitSeats(req.Users, req.Seats)
	info := r.info()
	go r.Run()

	log.Info().Str("room", r.id).Int("seats", req.Seats).Msg("room created")
	return info, nil
}

// LoadRoom brings a room back from its last snapshot.
func (l *Lobby) LoadRoom(ctx context.Context, id string) (RoomInfo, error) {
	if l.cfg.Store == nil {
		return RoomInfo{}, domain.ErrRoomNotFound
	}
	snap, err := loadSnapshot(ctx, l.cfg.Store, storage.RoomKey(id))
	if err != nil {
		return RoomInfo{}, err
	}

	r := l.newRoom(id, snap.ChannelID)
	r.restore(snap)
	if err := l.addRoom(ctx, r); err != nil {
		r.discard()
		return RoomInfo{}, err
	}
	if err := l.joinVoice(ctx, r); err != nil {
		l.lookup(context.Background(), r.id, true)
		r.discard()
		return RoomInfo{}, err
	}

	info := r.info()
	go r.Run()

	log.Info().Str("room", id).Str("phase", info.Phase.String()).Msg("room recovered")
	return info, nil
}

func (l *Lobby) joinVoice(ctx context.Context, r *Room) error {
	conn, err := l.cfg.Voice.Join(ctx, r.channelID, r.deliverVoiceEvent)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVoiceJoin, err)
	}
	r.attachVoice(conn)
	return nil
}

// Recover loads every persisted room. Rooms that fail to load are logged and
// skipped.
func (l *Lobby) Recover(ctx context.Context) (int, error) {
	if l.cfg.Store == nil {
		return 0, nil
	}
	keys, err := l.cfg.Store.ListKeys(ctx, storage.RoomPrefix)
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, key := range keys {
		id, ok := storage.RoomID(key)
		if !ok {
			continue
		}
		if _, err := l.LoadRoom(ctx, id); err != nil {
			log.Error().Err(err).Str("room", id).Msg("failed to recover room")
			continue
		}
		loaded++
	}
	return loaded, nil
}

// DestroyRoom stops a room, disconnects its seats and forgets its snapshot
// and tokens.
func (l *Lobby) DestroyRoom(ctx context.Context, id string) error {
	r, err := l.lookup(ctx, id, true)
	if err != nil {
		return err
	}
	r.Close()

	if l.cfg.Store != nil {
		if err := l.cfg.Store.Delete(ctx, storage.RoomKey(id)); err != nil {
			log.Error().Err(err).Str("room", id).Msg("failed to delete snapshot")
		}
	}
	if l.cfg.Sessions != nil {
		l.cfg.Sessions.RevokeRoom(id)
	}
	log.Info().Str("room", id).Msg("room destroyed")
	return nil
}

// MintInvite issues an invite for user. Once the game has started only
// seated users can be invited back.
func (l *Lobby) MintInvite(ctx context.Context, roomID string, user domain.User) (string, error) {
	r, err := l.lookup(ctx, roomID, false)
	if err != nil {
		return "", err
	}
	info, err := r.Info(ctx)
	if err != nil {
		return "", err
	}
	if info.Phase > PhaseSetup && info.SeatOf(user.ID) < 0 {
		return "", domain.ErrRoomStarted
	}
	return l.cfg.Sessions.MintInvite(session.Grant{User: user, RoomID: roomID})
}

// Connect resolves creds to a seat and attaches client to it. An invite is
// only consumed once the seat is taken. A fresh refresh token is issued on
// every successful connect.
func (l *Lobby) Connect(ctx context.Context, creds Credentials, client Client) (ConnectResult, error) {
	var (
		grant session.Grant
		err   error
	)
	switch {
	case creds.Invite != "":
		grant, err = l.cfg.Sessions.PeekInvite(creds.Invite)
	case creds.Refresh != "":
		grant, err = l.cfg.Sessions.ResolveRefresh(creds.Refresh)
	default:
		err = domain.ErrInvalidToken
	}
	if err != nil {
		return ConnectResult{}, err
	}

	r, err := l.lookup(ctx, grant.RoomID, false)
	if err != nil {
		return ConnectResult{}, err
	}
	seat, err := r.Join(ctx, grant.User, creds.Seat, client)
	if err != nil {
		return ConnectResult{}, err
	}
	if creds.Invite != "" {
		// a concurrent connect claimed the same invite first
		if _, err := l.cfg.Sessions.ClaimInvite(creds.Invite); err != nil {
			r.Leave(seat, client)
			return ConnectResult{}, err
		}
	}

	return ConnectResult{
		RoomID:       r.id,
		Seat:         seat,
		RefreshToken: l.cfg.Sessions.MintRefresh(grant),
		Sink:         r,
	}, nil
}

func (l *Lobby) Pause(ctx context.Context, id string) error {
	r, err := l.lookup(ctx, id, false)
	if err != nil {
		return err
	}
	return r.Pause(ctx)
}

func (l *Lobby) Resume(ctx context.Context, id string) error {
	r, err := l.lookup(ctx, id, false)
	if err != nil {
		return err
	}
	return r.Resume(ctx)
}

func (l *Lobby) Rooms(ctx context.Context) ([]RoomInfo, error) {
	rooms, err := l.snapshotRooms(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		info, err := r.Info(ctx)
		if errors.Is(err, domain.ErrRoomClosed) {
			continue
		}
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Shutdown stops every room but keeps their snapshots for the next start.
func (l *Lobby) Shutdown(ctx context.Context) error {
	rooms, err := l.snapshotRooms(ctx)
	if err != nil {
		return err
	}
	for _, r := range rooms {
		r.Close()
	}
	return nil
}
