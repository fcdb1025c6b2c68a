package game

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abhijeetkharade09/Sketch-Hero/domain"
)

// --- Player ---

// fakePlayer records everything the room sends it. Scenario tests assert
// against the decoded packets. Safe for concurrent use so registry tests
// can poll while the room goroutine is sending.
type fakePlayer struct {
	id       string
	username string
	avatar   string

	mu       sync.Mutex
	sent     [][]byte
	pings    int
	released bool
	room     *Room
}

func newFakePlayer(id, username string) *fakePlayer {
	return &fakePlayer{id: id, username: username}
}

func (f *fakePlayer) UserID() string   { return f.id }
func (f *fakePlayer) Username() string { return f.username }
func (f *fakePlayer) Avatar() string   { return f.avatar }

func (f *fakePlayer) Send(data []byte) error {
	f.mu.Lock()
	f.sent = append(f.sent, data)
	f.mu.Unlock()
	return nil
}

func (f *fakePlayer) Ping() error {
	f.mu.Lock()
	f.pings++
	f.mu.Unlock()
	return nil
}

func (f *fakePlayer) SetRoom(r *Room) {
	f.mu.Lock()
	f.room = r
	f.mu.Unlock()
}

func (f *fakePlayer) CancelAndRelease() {
	f.mu.Lock()
	f.released = true
	f.mu.Unlock()
}

func (f *fakePlayer) reset() {
	f.mu.Lock()
	f.sent = nil
	f.mu.Unlock()
}

func (f *fakePlayer) pingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

func (f *fakePlayer) wasReleased() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

func (f *fakePlayer) getRoom() *Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.room
}

// packets decodes everything sent so far.
func (f *fakePlayer) packets(t *testing.T) []Packet {
	t.Helper()
	f.mu.Lock()
	sent := make([][]byte, len(f.sent))
	copy(sent, f.sent)
	f.mu.Unlock()

	out := make([]Packet, 0, len(sent))
	for _, data := range sent {
		var pkt Packet
		require.NoError(t, json.Unmarshal(data, &pkt))
		out = append(out, pkt)
	}
	return out
}

// countOfType is packet counting without test assertions, usable from
// Eventually conditions.
func (f *fakePlayer) countOfType(ptype string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, data := range f.sent {
		var pkt Packet
		if json.Unmarshal(data, &pkt) == nil && pkt.Type == ptype {
			n++
		}
	}
	return n
}

// lastOfType returns the most recent packet of the given type, or fails.
func (f *fakePlayer) lastOfType(t *testing.T, ptype string) Packet {
	t.Helper()
	pkts := f.packets(t)
	for i := len(pkts) - 1; i >= 0; i-- {
		if pkts[i].Type == ptype {
			return pkts[i]
		}
	}
	t.Fatalf("%s never received a %q packet", f.username, ptype)
	return Packet{}
}

func (f *fakePlayer) hasPacketOfType(t *testing.T, ptype string) bool {
	t.Helper()
	for _, pkt := range f.packets(t) {
		if pkt.Type == ptype {
			return true
		}
	}
	return false
}

func decodeData[T any](t *testing.T, pkt Packet) T {
	t.Helper()
	var payload T
	require.NoError(t, json.Unmarshal(pkt.Data, &payload))
	return payload
}

// --- Conn ---

type MockConn struct {
	mock.Mock
}

func (m *MockConn) Close(errCode string) {
	m.Called(errCode)
}

func (m *MockConn) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockConn) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockConn) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- RoomStore ---

type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) CreateRoom(ctx context.Context, hostID string, maxPlayers, roundCount, roundTime int) (domain.Room, error) {
	args := m.Called(ctx, hostID, maxPlayers, roundCount, roundTime)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomStore) GetRoomByCode(ctx context.Context, code string) (domain.Room, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(domain.Room), args.Error(1)
}

// --- UserGetter ---

type MockUserGetter struct {
	mock.Mock
}

func (m *MockUserGetter) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

// --- RandomWordsGenerator ---

type MockRandomWordsGenerator struct {
	mock.Mock
}

func (m *MockRandomWordsGenerator) Generate(count int) []string {
	args := m.Called(count)
	return args.Get(0).([]string)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}
