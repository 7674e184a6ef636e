// Package order computes snake draft turn sequences. All functions are pure
// and safe to call on every tick or render.
package order

import (
	"fmt"
	"strconv"
	"strings"
)

// Reversed reports whether the given round traverses the round-one order
// back-to-front. Round 2 is always reversed. With third round reversal, round
// 3 repeats round 2's direction. From round 4 on (and round 3 without TRR),
// direction comes from round parity alone, not from the previous round's
// actual direction. The net effect of TRR is that rounds 2, 3 and 4 are all
// reversed and round 5 runs forward again.
func Reversed(round int, thirdRoundReversal bool) bool {
	if thirdRoundReversal && round == 3 {
		return true
	}
	return round%2 == 0
}

// RoundOrder returns the turn sequence for the given round. Round 1 returns
// roundOneOrder unchanged; reversed rounds return a reversed copy.
func RoundOrder(roundOneOrder []string, round int, thirdRoundReversal bool) []string {
	if !Reversed(round, thirdRoundReversal) {
		return roundOneOrder
	}
	n := len(roundOneOrder)
	out := make([]string, n)
	for i, teamID := range roundOneOrder {
		out[n-1-i] = teamID
	}
	return out
}

// SeatForPointer maps the logical pick index within a round to the seat's
// fixed column on the board. Seat identity is stable across rounds; only the
// traversal direction changes.
func SeatForPointer(totalTeams, round, pickIndex int, thirdRoundReversal bool) int {
	if Reversed(round, thirdRoundReversal) {
		return totalTeams - 1 - pickIndex
	}
	return pickIndex
}

// SlotForSeat is the inverse of SeatForPointer: it maps a fixed column back
// to the 1-based logical slot number within the round.
func SlotForSeat(totalTeams, round, column int, thirdRoundReversal bool) int {
	if Reversed(round, thirdRoundReversal) {
		return totalTeams - column
	}
	return column + 1
}

// PickLabel formats the "round.slot" display label for the pick made from the
// given fixed column in the given round.
func PickLabel(totalTeams, round, column int, thirdRoundReversal bool) string {
	return fmt.Sprintf("%d.%d", round, SlotForSeat(totalTeams, round, column, thirdRoundReversal))
}

// ParseLabel parses a "round.slot" label back into its round number and
// 1-based slot number.
func ParseLabel(label string) (round, slot int, err error) {
	parts := strings.SplitN(label, ".", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid pick label %q", label)
	}
	round, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid round in pick label %q: %w", label, err)
	}
	slot, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid slot in pick label %q: %w", label, err)
	}
	return round, slot, nil
}
