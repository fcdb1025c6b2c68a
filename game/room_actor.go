package game

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// --- transitions ---

func (r *Room) handleStartGame(senderID string) {
	if r.phase != PhaseLobby {
		return
	}
	if senderID != r.hostID {
		return
	}
	if len(r.connected()) < minPlayersToStart {
		if ps := r.playerByID(senderID); ps != nil {
			r.sendPacket(ps, PacketError, ErrorPayload{Reason: "not-enough-players"})
		}
		return
	}

	log.Info().Str("room", r.code).Str("host", senderID).Msg("game started")
	r.round = 1
	r.drawerIndex = 0
	r.beginTurn()
}

// beginTurn moves the session into SelectingWord for the drawer at
// drawerIndex. With nobody connected the advance stays deferred: the
// session sits in its current phase with no countdown until a join
// retriggers it.
func (r *Room) beginTurn() {
	connected := r.connected()
	if len(connected) == 0 {
		r.stopCountdown()
		return
	}

	drawer := connected[r.drawerIndex%len(connected)]

	r.phase = PhaseSelectingWord
	r.drawerID = drawer.id
	r.word = ""
	r.reveal = nil
	r.strokes = r.strokes[:0]
	r.wordChoices = r.wordGen.Generate(wordChoiceCount)
	for _, ps := range r.players {
		ps.hasGuessed = false
	}

	r.startCountdown(PhaseSelectingWord, wordSelectionSeconds)

	r.broadcastGameState()
	r.sendPacket(drawer, PacketWordChoices, WordChoicesPayload{Choices: r.wordChoices})
	r.broadcastSystem(fmt.Sprintf("Round %d started! %s is choosing a word.", r.round, drawer.username))
}

func (r *Room) handleWordSelection(word, senderID string) {
	if r.phase != PhaseSelectingWord {
		return
	}
	if senderID != r.drawerID || r.word != "" {
		return
	}
	if !slices.Contains(r.wordChoices, word) {
		return
	}
	r.startDrawing(word)
}

func (r *Room) startDrawing(word string) {
	r.stopCountdown()
	r.word = word
	r.reveal = newRevealMask(word)
	r.phase = PhaseDrawing
	r.startCountdown(PhaseDrawing, r.roundTime)

	log.Info().Str("room", r.code).Str("drawer", r.drawerID).Msg("drawing phase started")

	r.broadcastGameState()
	if drawer := r.playerByID(r.drawerID); drawer != nil {
		r.sendPacket(drawer, PacketYourWord, YourWordPayload{Word: word})
		r.broadcastSystem(fmt.Sprintf("%s has chosen a word!", drawer.username))
	}
}

func (r *Room) handleChatMessage(text, senderID string) {
	sender := r.playerByID(senderID)
	if sender == nil {
		return
	}

	if r.phase == PhaseDrawing && r.word != "" && senderID != r.drawerID && !sender.hasGuessed {
		switch EvaluateGuess(text, r.word) {
		case GuessExact:
			points := GuessPoints(r.countdown.remaining, r.roundTime)
			sender.score += points
			sender.hasGuessed = true
			if drawer := r.playerByID(r.drawerID); drawer != nil {
				drawer.score += drawerBonusPoints
			}

			log.Info().Str("room", r.code).Str("player", sender.username).Int("points", points).Msg("correct guess")

			r.broadcastNotice(KindCorrectGuess, fmt.Sprintf("%s guessed the word!", sender.username))
			r.broadcastGameState()

			if r.allGuessersDone() {
				r.endTurn()
			}
			return

		case GuessClose:
			// Flagged to the room, but the guessed text itself stays out
			// of the notice.
			r.broadcastNotice(KindCloseGuess, fmt.Sprintf("%s is close!", sender.username))
			return
		}
	}

	r.broadcastChat(sender, text)
}

// allGuessersDone reports whether every connected non-drawer has guessed.
func (r *Room) allGuessersDone() bool {
	for _, ps := range r.connected() {
		if ps.id != r.drawerID && !ps.hasGuessed {
			return false
		}
	}
	return true
}

func (r *Room) endTurn() {
	r.stopCountdown()
	r.phase = PhaseRoundEnd

	r.broadcastSystem(fmt.Sprintf("Round ended! The word was %s", r.word))
	r.broadcastAll(PacketRoundEnd, RoundEndPayload{Word: r.word})
	r.broadcastGameState()

	r.startCountdown(PhaseRoundEnd, turnCooldownSeconds)
}

func (r *Room) advanceTurn() {
	connected := r.connected()
	if len(connected) == 0 {
		// No drawer can be picked. Stay in RoundEnd; the next join
		// retries the advance.
		return
	}

	next, wrapped := nextTurn(r.drawerIndex, len(connected))
	r.drawerIndex = next
	if wrapped {
		r.round++
	}

	if r.round > r.roundCount {
		r.endGame()
		return
	}

	r.beginTurn()
}

func (r *Room) endGame() {
	r.stopCountdown()
	r.phase = PhaseGameEnd

	log.Info().Str("room", r.code).Msg("game ended")

	final := r.publicPlayers()
	sort.SliceStable(final, func(i, j int) bool { return final[i].Score > final[j].Score })

	r.broadcastGameState()
	r.broadcastAll(PacketGameEnd, GameEndPayload{Players: final})
}

// handleTick is the 1 Hz drive of the room timer. A beat that arrives for
// a phase that already moved on is stale and does nothing.
func (r *Room) handleTick(_ time.Time) {
	if !r.countdown.active || r.countdown.phase != r.phase {
		return
	}

	r.countdown.remaining--
	r.broadcastAll(PacketTimerTick, TimerTickPayload{Seconds: r.countdown.remaining})

	if r.phase == PhaseDrawing && hintCheckpoint(r.countdown.remaining, r.roundTime) {
		revealOne(r.reveal, r.rng)
		r.broadcastGameState()
	}

	if r.countdown.remaining > 0 {
		return
	}

	r.stopCountdown()

	switch r.phase {
	case PhaseSelectingWord:
		// Drawer never picked: fall back to the first choice.
		if r.word == "" && len(r.wordChoices) > 0 {
			r.startDrawing(r.wordChoices[0])
		}
	case PhaseDrawing:
		r.endTurn()
	case PhaseRoundEnd:
		r.advanceTurn()
	}
}

// --- membership ---

func (r *Room) handleJoinRequest(jreq joinRequest) {
	p := jreq.player

	existing := r.playerByID(p.UserID())
	if existing == nil {
		if len(r.connected()) >= r.maxPlayers {
			jreq.errChan <- ErrRoomFull
			return
		}
		existing = &playerState{
			id:       p.UserID(),
			username: p.Username(),
			avatar:   p.Avatar(),
		}
		r.players = append(r.players, existing)

		// A room created without a host belongs to whoever shows up first.
		if r.hostID == "" {
			r.hostID = existing.id
		}
	} else if existing.conn != nil {
		// Replacing a zombie connection.
		existing.conn.CancelAndRelease()
	}

	existing.connected = true
	existing.conn = p
	p.SetRoom(r)
	jreq.errChan <- nil

	log.Info().Str("room", r.code).Str("player", existing.username).Msg("player joined")

	r.sendSnapshot(existing)
	r.broadcastGameState()
	r.broadcastSystem(fmt.Sprintf("%s joined the room!", existing.username))

	// A deferred round advance resumes as soon as somebody is connected.
	if r.phase == PhaseRoundEnd && !r.countdown.active {
		r.advanceTurn()
	}
}

func (r *Room) handleRemovePlayer(p Player) {
	for _, ps := range r.players {
		if ps.conn == p {
			ps.connected = false
			ps.conn = nil
			p.CancelAndRelease()

			log.Info().Str("room", r.code).Str("player", ps.username).Msg("player disconnected")

			r.broadcastGameState()
			r.broadcastSystem(fmt.Sprintf("%s disconnected.", ps.username))

			// An emptied session stays registered with its scores intact;
			// reclaiming idle rooms is an operational concern, not ours.
			if len(r.connected()) == 0 {
				log.Info().Str("room", r.code).Msg("room idle, everyone disconnected")
			}
			return
		}
	}
	// Connection was never attached to a player state; still release it.
	p.CancelAndRelease()
}

func (r *Room) handlePing() {
	for _, ps := range r.players {
		if ps.conn != nil {
			ps.conn.Ping()
		}
	}
}

// --- drawing relay ---

// handleDrawingData fans the opaque stroke payload out to everyone except
// the sender. The payload is never interpreted here.
func (r *Room) handleDrawingData(raw json.RawMessage, from Player) {
	if r.phase != PhaseDrawing {
		return
	}

	data, err := encodePacket(PacketDraw, raw)
	if err != nil {
		log.Error().Err(err).Str("room", r.code).Msg("encode draw packet")
		return
	}

	for _, ps := range r.players {
		if ps.conn != nil && ps.conn != from {
			ps.conn.Send(data)
		}
	}

	r.strokes = append(r.strokes, raw)
}

func (r *Room) handleClear(Player) {
	if r.phase != PhaseDrawing {
		return
	}
	r.strokes = r.strokes[:0]
	r.broadcastAll(PacketClear, nil)
}

// --- outbound ---

func (r *Room) sendPacket(ps *playerState, ptype string, payload any) {
	if ps.conn == nil {
		return
	}
	data, err := encodePacket(ptype, payload)
	if err != nil {
		log.Error().Err(err).Str("room", r.code).Str("type", ptype).Msg("encode packet")
		return
	}
	ps.conn.Send(data)
}

func (r *Room) broadcastAll(ptype string, payload any) {
	data, err := encodePacket(ptype, payload)
	if err != nil {
		log.Error().Err(err).Str("room", r.code).Str("type", ptype).Msg("encode packet")
		return
	}
	for _, ps := range r.players {
		if ps.conn != nil {
			ps.conn.Send(data)
		}
	}
}

func (r *Room) broadcastSystem(text string) {
	r.broadcastNotice(KindSystem, text)
}

func (r *Room) broadcastNotice(kind, text string) {
	r.broadcastAll(PacketMessage, MessagePayload{
		ID:        uuid.NewString(),
		Text:      text,
		Kind:      kind,
		Timestamp: r.clock().UnixMilli(),
	})
}

func (r *Room) broadcastChat(sender *playerState, text string) {
	r.broadcastAll(PacketMessage, MessagePayload{
		ID:        uuid.NewString(),
		UserID:    sender.id,
		Username:  sender.username,
		Text:      text,
		Kind:      KindChat,
		Timestamp: r.clock().UnixMilli(),
	})
}

func (r *Room) publicPlayers() []PlayerPublic {
	out := make([]PlayerPublic, 0, len(r.players))
	for _, ps := range r.players {
		out = append(out, PlayerPublic{
			ID:         ps.id,
			Username:   ps.username,
			Avatar:     ps.avatar,
			Score:      ps.score,
			Connected:  ps.connected,
			IsDrawer:   ps.id == r.drawerID,
			HasGuessed: ps.hasGuessed,
		})
	}
	return out
}

// gameStateFor builds the public projection for one recipient. The secret
// word is included only for the drawer, or for everyone once the phase has
// reached RoundEnd.
func (r *Room) gameStateFor(viewer *playerState) GameStatePayload {
	state := GameStatePayload{
		RoomID:    r.id,
		Code:      r.code,
		HostID:    r.hostID,
		Phase:     r.phase.String(),
		Round:     r.round,
		MaxRounds: r.roundCount,
		DrawerID:  r.drawerID,
		Players:   r.publicPlayers(),
	}

	// Without an active countdown the remaining field is leftover from the
	// previous phase, not something to show.
	if r.countdown.active {
		state.Timer = r.countdown.remaining
	}

	if r.word != "" && r.reveal != nil {
		state.WordHint = renderHint(r.word, r.reveal)
	}

	if r.phase == PhaseRoundEnd || r.phase == PhaseGameEnd || (viewer != nil && viewer.id == r.drawerID) {
		state.Word = r.word
	}

	return state
}

// broadcastGameState sends every connected player their own projection.
func (r *Room) broadcastGameState() {
	for _, ps := range r.players {
		if ps.conn != nil {
			r.sendPacket(ps, PacketGameState, r.gameStateFor(ps))
		}
	}
}

// sendSnapshot brings a (re)joining player up to speed: their state view
// plus the stroke backlog of the turn in progress.
func (r *Room) sendSnapshot(ps *playerState) {
	r.sendPacket(ps, PacketGameState, r.gameStateFor(ps))

	for _, stroke := range r.strokes {
		r.sendPacket(ps, PacketDraw, json.RawMessage(stroke))
	}

	if ps.id == r.drawerID {
		switch r.phase {
		case PhaseSelectingWord:
			r.sendPacket(ps, PacketWordChoices, WordChoicesPayload{Choices: r.wordChoices})
		case PhaseDrawing:
			r.sendPacket(ps, PacketYourWord, YourWordPayload{Word: r.word})
		}
	}
}
