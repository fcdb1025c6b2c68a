package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	outboxSize    = 256
	removeTimeout = time.Second * 5
)

// wsPlayer binds one user identity to one websocket connection. The read
// pump is the only reader of the socket, the write pump the only writer;
// everything else talks to the player through Send and Ping.
type wsPlayer struct {
	id       string
	username string
	avatar   string

	conn    Conn
	limiter *rate.Limiter

	outbox chan []byte
	pings  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	roomMu sync.Mutex
	room   *Room

	releaseOnce sync.Once
}

func NewPlayer(id, username, avatar string, conn Conn) *wsPlayer {
	ctx, cancel := context.WithCancel(context.Background())
	return &wsPlayer{
		id:       id,
		username: username,
		avatar:   avatar,
		conn:     conn,
		limiter:  rate.NewLimiter(rate.Limit(20), 40),
		outbox:   make(chan []byte, outboxSize),
		pings:    make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (p *wsPlayer) UserID() string   { return p.id }
func (p *wsPlayer) Username() string { return p.username }
func (p *wsPlayer) Avatar() string   { return p.avatar }

func (p *wsPlayer) SetRoom(r *Room) {
	p.roomMu.Lock()
	p.room = r
	p.roomMu.Unlock()
}

func (p *wsPlayer) getRoom() *Room {
	p.roomMu.Lock()
	defer p.roomMu.Unlock()
	return p.room
}

// Send queues data for the write pump. A full outbox means the client
// cannot keep up; dropping beats blocking the room actor.
func (p *wsPlayer) Send(data []byte) error {
	select {
	case p.outbox <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (p *wsPlayer) Ping() error {
	select {
	case p.pings <- struct{}{}:
	default:
	}
	return nil
}

// CancelAndRelease tears the connection down. Safe to call from any
// goroutine, any number of times.
func (p *wsPlayer) CancelAndRelease() {
	p.releaseOnce.Do(func() {
		p.cancel()
		p.conn.Close("")
	})
}

// ReadPump decodes inbound packets and forwards them to the player's room.
// It exits on the first read error and asks the room to drop the player.
func (p *wsPlayer) ReadPump() {
	defer p.requestRemoval()

	for {
		data, err := p.conn.Read()
		if err != nil {
			return
		}

		if !p.limiter.Allow() {
			continue
		}

		var pkt Packet
		if err := json.Unmarshal(data, &pkt); err != nil {
			log.Debug().Str("player", p.id).Msg("dropping malformed packet")
			continue
		}

		room := p.getRoom()
		if room == nil {
			continue
		}
		room.Send(p.ctx, clientEnvelope{packet: pkt, from: p})
	}
}

func (p *wsPlayer) WritePump() {
	defer p.requestRemoval()

	for {
		select {
		case <-p.ctx.Done():
			return
		case data := <-p.outbox:
			if err := p.conn.Write(data); err != nil {
				return
			}
		case <-p.pings:
			if err := p.conn.Ping(); err != nil {
				return
			}
		}
	}
}

func (p *wsPlayer) requestRemoval() {
	ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()

	if room := p.getRoom(); room != nil {
		room.RemoveMe(ctx, p)
		return
	}
	p.CancelAndRelease()
}
