package game

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/abhijeetkharade09/Sketch-Hero/domain"
)

var (
	ErrRoomNotFoundStr         = "room-not-found"
	ErrRoomFullStr             = "room-full"
	ErrInvalidRequestFormatStr = "bad-request-format"
	ErrUnknownStr              = "unknown-error"
	ErrServerTimeoutStr        = "server-timeout"
)

const (
	defaultMaxPlayers = 8
	defaultRoundCount = 3
	defaultRoundTime  = 60

	maxMaxPlayers = 16
	maxRoundCount = 10
	maxRoundTime  = 180

	joinTimeout = time.Second * 10
)

type GameHandler struct {
	registry *Registry
	rooms    RoomStore
	users    UserGetter
	wordGen  RandomWordsGenerator
	upgrader websocket.Upgrader
}

func NewGameHandler(registry *Registry, rooms RoomStore, users UserGetter, wordGen RandomWordsGenerator, checkOrigin func(r *http.Request) bool) *GameHandler {
	return &GameHandler{
		registry: registry,
		rooms:    rooms,
		users:    users,
		wordGen:  wordGen,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

type createRoomRequest struct {
	MaxPlayers int `json:"maxPlayers"`
	RoundCount int `json:"roundCount"`
	RoundTime  int `json:"roundTime"`
}

func (req *createRoomRequest) applyDefaults() {
	if req.MaxPlayers < 2 || req.MaxPlayers > maxMaxPlayers {
		req.MaxPlayers = defaultMaxPlayers
	}
	if req.RoundCount < 1 || req.RoundCount > maxRoundCount {
		req.RoundCount = defaultRoundCount
	}
	if req.RoundTime < 15 || req.RoundTime > maxRoundTime {
		req.RoundTime = defaultRoundTime
	}
}

func (h *GameHandler) CreateRoomHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	if id == "" {
		log.Error().Str("ip", ctx.ClientIP()).Msg("no id in context, middleware missing?")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		return
	}

	req := createRoomRequest{}
	// An empty body means all defaults.
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ErrInvalidRequestFormatStr})
		return
	}
	req.applyDefaults()

	room, err := h.rooms.CreateRoom(ctx.Request.Context(), id, req.MaxPlayers, req.RoundCount, req.RoundTime)
	if err != nil {
		log.Error().Err(err).Msg("create room")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		return
	}

	ctx.JSON(http.StatusCreated, room)
}

func (h *GameHandler) GetRoomHandler(ctx *gin.Context) {
	code := strings.ToUpper(ctx.Param("code"))

	room, err := h.rooms.GetRoomByCode(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": ErrRoomNotFoundStr})
			return
		}
		log.Error().Err(err).Str("code", code).Msg("get room")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		return
	}

	ctx.JSON(http.StatusOK, room)
}

// JoinRoomHandler upgrades the request to a websocket and attaches the
// caller to the room's session, reviving the session from storage when no
// actor is live for the code.
func (h *GameHandler) JoinRoomHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	if id == "" {
		log.Error().Str("ip", ctx.ClientIP()).Msg("no id in context, middleware missing?")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		return
	}
	code := strings.ToUpper(ctx.Param("code"))

	user, err := h.users.GetUserByID(ctx.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("join: get user")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		return
	}

	record, err := h.rooms.GetRoomByCode(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": ErrRoomNotFoundStr})
			return
		}
		log.Error().Err(err).Str("code", code).Msg("join: get room")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("ws upgrade failed")
		return
	}
	socket := NewWebsocketConnection(conn)

	joinCtx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	defer cancel()

	room := h.registry.GetOrCreateRoom(joinCtx, code, func() *Room {
		return NewRoom(RoomConfig{
			ID:         record.ID,
			Code:       record.Code,
			HostID:     record.HostID,
			MaxPlayers: record.MaxPlayers,
			RoundCount: record.RoundCount,
			RoundTime:  record.RoundTime,
		}, h.wordGen, rand.New(rand.NewSource(time.Now().UnixNano())), nil)
	})
	if room == nil {
		socket.Close(ErrServerTimeoutStr)
		return
	}

	player := NewPlayer(user.ID, user.Username, user.Avatar, socket)
	jreq := NewJoinRequest(player)
	room.RequestJoin(jreq)

	select {
	case err := <-jreq.errChan:
		if err != nil {
			socket.Close(err.Error())
			return
		}
	case <-joinCtx.Done():
		socket.Close(ErrServerTimeoutStr)
		return
	}

	go player.ReadPump()
	go player.WritePump()
}
