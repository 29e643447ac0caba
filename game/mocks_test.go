package game

import (
	"context"

	"werewolf/domain"
	"werewolf/voice"

	"github.com/stretchr/testify/mock"
)

// --- voice.Connection ---

type MockVoiceConnection struct {
	mock.Mock
}

func (m *MockVoiceConnection) Play(ctx context.Context, track voice.Track) error {
	args := m.Called(ctx, track)
	return args.Error(0)
}

func (m *MockVoiceConnection) Stop(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVoiceConnection) Disconnect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- voice.Connector ---

type MockVoiceConnector struct {
	mock.Mock
}

func (m *MockVoiceConnector) Join(ctx context.Context, channelID string, handler func(voice.Event)) (voice.Connection, error) {
	args := m.Called(ctx, channelID, handler)
	conn, _ := args.Get(0).(voice.Connection)
	return conn, args.Error(1)
}

// --- SnapshotStore ---

type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockSnapshotStore) Put(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *MockSnapshotStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockSnapshotStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

// --- Socket ---

type MockSocket struct {
	mock.Mock
}

func (m *MockSocket) Read() ([]byte, error) {
	args := m.Called()
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockSocket) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockSocket) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSocket) Close(reason string) {
	m.Called(reason)
}

// --- PacketSink ---

type MockPacketSink struct {
	mock.Mock
}

func (m *MockPacketSink) Submit(seat int, from Client, req Request) {
	m.Called(seat, from, req)
}

func (m *MockPacketSink) Leave(seat int, client Client) {
	m.Called(seat, client)
}

// --- LobbyService ---

type MockLobbyService struct {
	mock.Mock
}

func (m *MockLobbyService) CreateRoom(ctx context.Context, req CreateRoomRequest) (RoomInfo, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(RoomInfo), args.Error(1)
}

func (m *MockLobbyService) DestroyRoom(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLobbyService) MintInvite(ctx context.Context, roomID string, user domain.User) (string, error) {
	args := m.Called(ctx, roomID, user)
	return args.String(0), args.Error(1)
}

func (m *MockLobbyService) Connect(ctx context.Context, creds Credentials, client Client) (ConnectResult, error) {
	args := m.Called(ctx, creds, client)
	return args.Get(0).(ConnectResult), args.Error(1)
}

func (m *MockLobbyService) Pause(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLobbyService) Resume(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLobbyService) Rooms(ctx context.Context) ([]RoomInfo, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]RoomInfo)
	return rooms, args.Error(1)
}
