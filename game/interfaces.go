package game

import (
	"context"
	"time"

	"github.com/abhijeetkharade09/Sketch-Hero/domain"
)

// Conn is the minimal surface of a websocket connection the game needs.
// The concrete implementation wraps gorilla/websocket; tests mock it.
type Conn interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

// Player is one attached connection, owned by its read/write pumps.
type Player interface {
	UserID() string
	Username() string
	Avatar() string
	Send(data []byte) error
	Ping() error
	SetRoom(r *Room)
	CancelAndRelease()
}

type UserGetter interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

type RoomStore interface {
	CreateRoom(ctx context.Context, hostID string, maxPlayers, roundCount, roundTime int) (domain.Room, error)
	GetRoomByCode(ctx context.Context, code string) (domain.Room, error)
}

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type RandomWordsGenerator interface {
	Generate(count int) []string
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}
