package game

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlayer_SendBufferFull(t *testing.T) {
	t.Parallel()

	conn := &MockConn{}
	p := NewPlayer("u1", "alice", "", conn)

	// No write pump draining: the outbox eventually overflows.
	for i := 0; i < outboxSize; i++ {
		require.NoError(t, p.Send([]byte("x")))
	}
	assert.ErrorIs(t, p.Send([]byte("x")), ErrSendBufferFull)
}

func TestPlayer_PingNeverBlocks(t *testing.T) {
	t.Parallel()

	conn := &MockConn{}
	p := NewPlayer("u1", "alice", "", conn)

	for i := 0; i < 5; i++ {
		assert.NoError(t, p.Ping())
	}
}

func TestPlayer_WritePump(t *testing.T) {
	t.Parallel()

	written := make(chan []byte, 8)
	conn := &MockConn{}
	conn.On("Write", mock.Anything).Run(func(args mock.Arguments) {
		written <- args.Get(0).([]byte)
	}).Return(nil)
	conn.On("Ping").Return(nil)
	conn.On("Close", "").Return()

	p := NewPlayer("u1", "alice", "", conn)
	go p.WritePump()

	require.NoError(t, p.Send([]byte("hello")))
	select {
	case data := <-written:
		assert.Equal(t, []byte("hello"), data)
	case <-time.After(time.Second):
		t.Fatal("write pump never flushed the outbox")
	}

	p.CancelAndRelease()
}

func TestPlayer_CancelAndReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	conn := &MockConn{}
	conn.On("Close", "").Return()

	p := NewPlayer("u1", "alice", "", conn)
	p.CancelAndRelease()
	p.CancelAndRelease()
	p.CancelAndRelease()

	conn.AssertNumberOfCalls(t, "Close", 1)
}

func TestPlayer_ReadPumpForwardsToRoom(t *testing.T) {
	t.Parallel()

	wordGen := &MockRandomWordsGenerator{}
	r := NewRoom(RoomConfig{
		ID: "room-p", Code: "WXYZ", HostID: "u1",
		MaxPlayers: 4, RoundCount: 3, RoundTime: 60,
	}, wordGen, rand.New(rand.NewSource(1)), nil)
	go r.GameLoop()
	defer r.CloseAndRelease()

	closed := make(chan struct{}, 1)
	conn := &MockConn{}
	conn.On("Read").Return([]byte(`{"type":"chat","data":{"text":"hello room"}}`), nil).Once()
	conn.On("Read").Return([]byte(nil), io.EOF)
	conn.On("Close", mock.Anything).Run(func(mock.Arguments) {
		closed <- struct{}{}
	}).Return()

	p := NewPlayer("u1", "alice", "", conn)
	jreq := NewJoinRequest(p)
	r.RequestJoin(jreq)
	require.NoError(t, <-jreq.errChan)

	bob := newFakePlayer("u2", "bob")
	bobReq := NewJoinRequest(bob)
	r.RequestJoin(bobReq)
	require.NoError(t, <-bobReq.errChan)

	go p.ReadPump()

	require.Eventually(t, func() bool {
		return bob.countOfType(PacketMessage) > 0
	}, time.Second, time.Millisecond*5, "chat packet never reached the room")

	// The EOF tears the connection down through the room.
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("read error never released the connection")
	}
}

func TestPlayer_ReadPumpWithoutRoom(t *testing.T) {
	t.Parallel()

	conn := &MockConn{}
	conn.On("Read").Return([]byte(nil), io.EOF)
	conn.On("Close", "").Return()

	p := NewPlayer("u1", "alice", "", conn)
	p.ReadPump()

	conn.AssertCalled(t, "Close", "")
}
