package game

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"werewolf/cards"
	"werewolf/domain"
	"werewolf/timer/timertest"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// fakeClient records every packet a room sends it.
type fakeClient struct {
	mu      sync.Mutex
	packets []rawPacket
	closed  string
	pings   int
}

type rawPacket struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func (c *fakeClient) Send(data []byte) {
	var p rawPacket
	if err := json.Unmarshal(data, &p); err != nil {
		panic(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.packets = append(c.packets, p)
}

func (c *fakeClient) Ping() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pings++
}

func (c *fakeClient) Close(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = reason
}

func (c *fakeClient) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.packets = nil
}

func (c *fakeClient) events(name string) []json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []json.RawMessage
	for _, p := range c.packets {
		if p.Event == name {
			out = append(out, p.Payload)
		}
	}
	return out
}

func (c *fakeClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.packets)
}

// lastView decodes the latest gameState packet.
func (c *fakeClient) lastView(t *testing.T) StateView {
	t.Helper()
	views := c.events(EventGameState)
	require.NotEmpty(t, views, "no gameState packet received")
	var view StateView
	require.NoError(t, json.Unmarshal(views[len(views)-1], &view))
	return view
}

var testEpoch = time.Unix(1_700_000_000, 0)

// harness drives a room synchronously. Nothing runs the room loop; timer
// fires are drained by hand.
type harness struct {
	t       *testing.T
	room    *Room
	clock   *timertest.Clock
	users   []domain.User
	clients []*fakeClient
}

func testUser(i int) domain.User {
	return domain.User{ID: fmt.Sprintf("user-%d", i), DisplayName: fmt.Sprintf("Player %d", i)}
}

func newHarness(t *testing.T, seats int, cfg RoomConfig) *harness {
	t.Helper()
	clock := timertest.NewClock(testEpoch)
	if cfg.ID == "" {
		cfg.ID = "room-1"
	}
	cfg.ChannelID = "channel-1"
	cfg.Clock = clock
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(1, 2))
	}

	h := &harness{t: t, room: NewRoom(cfg), clock: clock}
	for i := range seats {
		h.users = append(h.users, testUser(i))
	}
	h.room.InitSeats(h.users, seats)
	for i := range seats {
		c := &fakeClient{}
		h.clients = append(h.clients, c)
		seat, err := h.room.handleJoin(h.users[i], i, c)
		require.NoError(t, err)
		require.Equal(t, i, seat)
	}
	return h
}

func (h *harness) setCounts(counts map[cards.Card]int) {
	for card, n := range counts {
		h.room.handleCardCount(card, n)
	}
}

// deal fakes a started game with a fixed deck, skipping the shuffle.
func (h *harness) deal(deck ...cards.Card) {
	h.room.state.Deck = deck
	for i, s := range h.room.seats {
		s.StartingCard = deck[i]
	}
	h.room.state.Phase = PhaseNight
	h.room.state.Step = 0
}

func (h *harness) act(seat int, a Action) {
	h.room.handleRequest(seat, h.clients[seat], NightRoleActionRequest{Action: a})
}

func (h *harness) drain() {
	for {
		select {
		case gen := <-h.room.fires:
			h.room.handleFire(gen)
		default:
			return
		}
	}
}

// fireNext lets the pending timer run out.
func (h *harness) fireNext() {
	h.clock.Advance(h.room.timer.Remaining())
	h.drain()
}

func (h *harness) resetClients() {
	for _, c := range h.clients {
		c.reset()
	}
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func isWindowStep(name string) bool {
	return name == "setup" || name == "show werewolves"
}

// wake starts role's turn and runs it until its action window is open.
func (h *harness) wake(role cards.Card) {
	h.t.Helper()
	h.room.setNightRole(role)
	h.room.advance()
	for range 10 {
		steps := h.room.stageSteps()
		if s := h.room.state.Step; s > 0 && s <= len(steps) && isWindowStep(steps[s-1].Name) {
			return
		}
		h.fireNext()
	}
	h.t.Fatalf("window of %s never opened", role)
}
