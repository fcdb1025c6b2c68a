package game

// nextTurn advances the drawer index over the ordered connected-player
// view. It returns the next index and whether the rotation wrapped back to
// the first player, which is what bumps the round number.
func nextTurn(current, connectedCount int) (next int, wrapped bool) {
	if connectedCount <= 0 {
		return current, false
	}
	next = (current + 1) % connectedCount
	return next, next == 0
}
