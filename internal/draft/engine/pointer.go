// Package engine holds the pure state transitions of the draft: pointer
// advancement and the pick clock. Nothing here touches storage or does I/O.
package engine

// Advance moves the (round, pickIndex) pointer forward one slot. When the
// pointer is already at the final slot of the final round it is returned
// unchanged with ended set. Total function; never produces a partial state.
func Advance(currentRound, currentPickIndex, totalRounds, totalTeams int) (nextRound, nextPickIndex int, ended bool) {
	if currentPickIndex+1 < totalTeams {
		return currentRound, currentPickIndex + 1, false
	}
	if currentRound+1 <= totalRounds {
		return currentRound + 1, 0, false
	}
	return currentRound, currentPickIndex, true
}
