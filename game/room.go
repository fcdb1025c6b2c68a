package game

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"
)

type Phase int

const (
	PhaseLobby Phase = iota
	PhaseSelectingWord
	PhaseDrawing
	PhaseRoundEnd
	PhaseGameEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseSelectingWord:
		return "selecting_word"
	case PhaseDrawing:
		return "drawing"
	case PhaseRoundEnd:
		return "round_end"
	case PhaseGameEnd:
		return "game_end"
	}
	return "unknown"
}

const (
	wordChoiceCount      = 3
	wordSelectionSeconds = 15
	turnCooldownSeconds  = 5
	minPlayersToStart    = 2
)

// playerState is the per-room record of a player. It outlives the
// connection: a disconnect only flips connected, the score and identity
// stay for the rest of the session.
type playerState struct {
	id         string
	username   string
	avatar     string
	score      int
	connected  bool
	hasGuessed bool
	conn       Player
}

// countdown is the room's single timer. At most one is active at any
// instant; starting a phase replaces the previous one, and a tick whose
// phase no longer matches the room is stale and ignored.
type countdown struct {
	active    bool
	remaining int
	phase     Phase
}

type joinRequest struct {
	player  Player
	errChan chan error
}

func NewJoinRequest(player Player) joinRequest {
	return joinRequest{player: player, errChan: make(chan error, 1)}
}

type clientEnvelope struct {
	packet Packet
	from   Player
}

type RoomConfig struct {
	ID         string
	Code       string
	HostID     string
	MaxPlayers int
	RoundCount int
	RoundTime  int // seconds
}

// Room owns the authoritative game state of one session. All mutation
// happens on the GameLoop goroutine; the exported methods only hand events
// over via channels.
type Room struct {
	id         string
	code       string
	hostID     string
	maxPlayers int
	roundCount int
	roundTime  int

	phase       Phase
	round       int
	drawerIndex int
	drawerID    string
	word        string
	reveal      []bool
	wordChoices []string
	countdown   countdown
	players     []*playerState
	strokes     []json.RawMessage

	wordGen RandomWordsGenerator
	rng     *rand.Rand
	clock   func() time.Time

	inbox        chan clientEnvelope
	joinRequests chan joinRequest
	removals     chan Player
	ticks        chan time.Time
	pings        chan struct{}
	done         chan struct{}
	closeOnce    sync.Once
}

func NewRoom(cfg RoomConfig, wordGen RandomWordsGenerator, rng *rand.Rand, clock func() time.Time) *Room {
	if clock == nil {
		clock = time.Now
	}
	return &Room{
		id:         cfg.ID,
		code:       cfg.Code,
		hostID:     cfg.HostID,
		maxPlayers: cfg.MaxPlayers,
		roundCount: cfg.RoundCount,
		roundTime:  cfg.RoundTime,
		phase:      PhaseLobby,

		wordGen: wordGen,
		rng:     rng,
		clock:   clock,

		inbox:        make(chan clientEnvelope, 1024),
		joinRequests: make(chan joinRequest),
		removals:     make(chan Player, 64),
		ticks:        make(chan time.Time, 24),
		pings:        make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
}

func (r *Room) Code() string { return r.code }

// RequestJoin hands a join to the room goroutine. The result arrives on the
// request's errChan.
func (r *Room) RequestJoin(jreq joinRequest) {
	select {
	case r.joinRequests <- jreq:
	case <-r.done:
		jreq.errChan <- ErrRoomNotFound
	}
}

// Send delivers a client packet to the room goroutine.
func (r *Room) Send(ctx context.Context, env clientEnvelope) {
	select {
	case r.inbox <- env:
	case <-ctx.Done():
	case <-r.done:
	}
}

// RemoveMe marks the player behind this connection as disconnected.
func (r *Room) RemoveMe(ctx context.Context, p Player) {
	select {
	case r.removals <- p:
	case <-ctx.Done():
	case <-r.done:
	}
}

// Tick forwards one shared-ticker beat to the room. Non-blocking: a room
// that cannot keep up drops beats rather than stalling the registry.
func (r *Room) Tick(now time.Time) {
	select {
	case r.ticks <- now:
	default:
	}
}

func (r *Room) PingPlayers() {
	select {
	case r.pings <- struct{}{}:
	default:
	}
}

func (r *Room) CloseAndRelease() {
	r.closeOnce.Do(func() { close(r.done) })
}

// GameLoop serializes every event touching this room's state.
func (r *Room) GameLoop() {
	for {
		select {
		case env := <-r.inbox:
			r.dispatch(env)
		case jreq := <-r.joinRequests:
			r.handleJoinRequest(jreq)
		case p := <-r.removals:
			r.handleRemovePlayer(p)
		case now := <-r.ticks:
			r.handleTick(now)
		case <-r.pings:
			r.handlePing()
		case <-r.done:
			for _, ps := range r.players {
				if ps.conn != nil {
					ps.conn.CancelAndRelease()
				}
			}
			return
		}
	}
}

func (r *Room) dispatch(env clientEnvelope) {
	senderID := env.from.UserID()

	switch env.packet.Type {
	case PacketStartGame:
		r.handleStartGame(senderID)
	case PacketSelectWord:
		var payload SelectWordPayload
		if err := json.Unmarshal(env.packet.Data, &payload); err != nil {
			return
		}
		r.handleWordSelection(payload.Word, senderID)
	case PacketChat:
		var payload ChatPayload
		if err := json.Unmarshal(env.packet.Data, &payload); err != nil {
			return
		}
		r.handleChatMessage(payload.Text, senderID)
	case PacketDraw:
		r.handleDrawingData(env.packet.Data, env.from)
	case PacketClear:
		r.handleClear(env.from)
	}
}

func (r *Room) playerByID(id string) *playerState {
	for _, ps := range r.players {
		if ps.id == id {
			return ps
		}
	}
	return nil
}

// connected returns the ordered (join order) view of connected players,
// which is the denominator for turn rotation.
func (r *Room) connected() []*playerState {
	out := make([]*playerState, 0, len(r.players))
	for _, ps := range r.players {
		if ps.connected {
			out = append(out, ps)
		}
	}
	return out
}

func (r *Room) startCountdown(phase Phase, seconds int) {
	r.countdown = countdown{active: true, remaining: seconds, phase: phase}
}

func (r *Room) stopCountdown() {
	r.countdown.active = false
}
