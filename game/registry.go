package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const pingInterval = time.Second * 30

type roomLookup struct {
	code   string
	create func() *Room // nil means lookup only
	resp   chan *Room
}

// Registry owns the live rooms, keyed by join code. A single actor
// goroutine serializes every map access; the shared one-second ticker is
// fanned out from here so each room does not need its own timer goroutine.
type Registry struct {
	rooms map[string]*Room

	lookups        chan roomLookup
	removeRoomChan chan string

	tickerCreator PeriodicTickerChannelCreator
}

func NewRegistry(tickerCreator PeriodicTickerChannelCreator) *Registry {
	return &Registry{
		rooms:          map[string]*Room{},
		lookups:        make(chan roomLookup, 256),
		removeRoomChan: make(chan string, 32),
		tickerCreator:  tickerCreator,
	}
}

// GetOrCreateRoom returns the running room for code. When the room is not
// live and create is non-nil, the registry builds it, starts its game loop
// and returns it. Returns nil when the room does not exist and no
// constructor was given, or when ctx expires first.
func (g *Registry) GetOrCreateRoom(ctx context.Context, code string, create func() *Room) *Room {
	req := roomLookup{code: code, create: create, resp: make(chan *Room, 1)}

	select {
	case g.lookups <- req:
	case <-ctx.Done():
		return nil
	}

	select {
	case room := <-req.resp:
		return room
	case <-ctx.Done():
		return nil
	}
}

// RemoveRoom drops a room and releases its connections. Nothing in the
// engine calls this on its own; idle-room reclamation is left to whatever
// operates the process.
func (g *Registry) RemoveRoom(code string) {
	select {
	case g.removeRoomChan <- code:
	default:
	}
}

// RegistryActor runs until the process exits. started is closed once the
// actor is receiving, so callers can block on readiness.
func (g *Registry) RegistryActor(started chan struct{}) {
	ticker := g.tickerCreator.Create(time.Second)
	pingTicker := g.tickerCreator.Create(pingInterval)

	close(started)

	for {
		select {
		case now := <-ticker:
			for _, r := range g.rooms {
				r.Tick(now)
			}

		case <-pingTicker:
			for _, r := range g.rooms {
				r.PingPlayers()
			}

		case req := <-g.lookups:
			g.handleLookup(req)

		case code := <-g.removeRoomChan:
			g.handleRemoveRoom(code)
		}
	}
}

func (g *Registry) handleLookup(req roomLookup) {
	room, ok := g.rooms[req.code]
	if !ok && req.create != nil {
		room = req.create()
		g.rooms[req.code] = room
		go room.GameLoop()
		log.Info().Str("room", req.code).Int("rooms", len(g.rooms)).Msg("room registered")
	}
	req.resp <- room
}

func (g *Registry) handleRemoveRoom(code string) {
	room, ok := g.rooms[code]
	if !ok {
		return
	}
	delete(g.rooms, code)
	room.CloseAndRelease()
	log.Info().Str("room", code).Int("rooms", len(g.rooms)).Msg("room removed")
}
