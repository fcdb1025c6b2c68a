package domain

// User is a guest identity. There are no credentials; a user record is
// created once per browser session and referenced by id afterwards.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar"`
	TotalScore  int    `json:"totalScore"`
	GamesPlayed int    `json:"gamesPlayed"`
}

// Room is the persistent room record. The in-memory game session keyed by
// Code is owned by the game package; this struct never changes after
// creation except for HostID, which may be claimed by the first player to
// attach when the room was created without a host.
type Room struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	HostID     string `json:"hostId,omitempty"`
	MaxPlayers int    `json:"maxPlayers"`
	RoundCount int    `json:"roundCount"`
	RoundTime  int    `json:"roundTime"`
}
