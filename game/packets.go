package game

import (
	"encoding/json"
	"fmt"
)

// Packet is the wire envelope. Every websocket frame, inbound or outbound,
// is one of these.
type Packet struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound packet types.
const (
	PacketStartGame  = "start_game"
	PacketSelectWord = "select_word"
	PacketChat       = "chat"
	PacketDraw       = "draw"
	PacketClear      = "clear"
)

// Outbound packet types.
const (
	PacketGameState   = "game_state"
	PacketMessage     = "message"
	PacketTimerTick   = "timer_tick"
	PacketWordChoices = "word_choices"
	PacketYourWord    = "your_word"
	PacketRoundEnd    = "round_end"
	PacketGameEnd     = "game_end"
	PacketError       = "error"
)

// Message kinds inside a PacketMessage.
const (
	KindChat         = "chat"
	KindSystem       = "system"
	KindCloseGuess   = "close_guess"
	KindCorrectGuess = "correct_guess"
)

type SelectWordPayload struct {
	Word string `json:"word"`
}

type ChatPayload struct {
	Text string `json:"text"`
}

type PlayerPublic struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	Score      int    `json:"score"`
	Connected  bool   `json:"connected"`
	IsDrawer   bool   `json:"isDrawer"`
	HasGuessed bool   `json:"hasGuessed"`
}

// GameStatePayload is the public projection of a room session. Word is
// populated only for the drawer's copy and for everyone once the turn is
// over.
type GameStatePayload struct {
	RoomID    string         `json:"roomId"`
	Code      string         `json:"code"`
	HostID    string         `json:"hostId"`
	Phase     string         `json:"phase"`
	Round     int            `json:"round"`
	MaxRounds int            `json:"maxRounds"`
	DrawerID  string         `json:"drawerId"`
	WordHint  string         `json:"wordHint"`
	Word      string         `json:"word,omitempty"`
	Timer     int            `json:"timer"`
	Players   []PlayerPublic `json:"players"`
}

type MessagePayload struct {
	ID        string `json:"id"`
	UserID    string `json:"userId,omitempty"`
	Username  string `json:"username,omitempty"`
	Text      string `json:"text"`
	Kind      string `json:"kind"`
	Timestamp int64  `json:"timestamp"`
}

type TimerTickPayload struct {
	Seconds int `json:"seconds"`
}

type WordChoicesPayload struct {
	Choices []string `json:"choices"`
}

type YourWordPayload struct {
	Word string `json:"word"`
}

type RoundEndPayload struct {
	Word string `json:"word"`
}

type GameEndPayload struct {
	Players []PlayerPublic `json:"players"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
}

func encodePacket(ptype string, payload any) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Packet{Type: ptype})
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", ptype, err)
	}
	return json.Marshal(Packet{Type: ptype, Data: raw})
}
