package engine

import "github.com/gridchain/fantasydraft/internal/models"

// NoLimit is returned by Remaining when the draft has no per-pick time limit.
const NoLimit = -1

// Remaining derives the seconds left for the seat on the clock from wall
// clock time and the state's timer bookkeeping. It never mutates anything;
// callers re-read it on every tick.
func Remaining(nowMs, pickStartedAtMs int64, secondsPerPick int, paused bool, remainingAtPause int) int {
	if secondsPerPick == 0 {
		return NoLimit
	}
	if paused {
		return remainingAtPause
	}
	elapsed := (nowMs - pickStartedAtMs) / 1000
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := secondsPerPick - int(elapsed)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// RemainingFor is Remaining applied to a state snapshot.
func RemainingFor(s *models.DraftState, nowMs int64, secondsPerPick int) int {
	return Remaining(nowMs, s.PickStartedAtMs, secondsPerPick, s.Paused, s.RemainingAtPause)
}

// Pause freezes the clock, snapshotting the remaining seconds at the instant
// of pausing.
func Pause(s *models.DraftState, nowMs int64, secondsPerPick int) {
	s.RemainingAtPause = Remaining(nowMs, s.PickStartedAtMs, secondsPerPick, false, 0)
	s.Paused = true
}

// Resume unfreezes the clock. The pick start marker is rewound so the elapsed
// time computation continues exactly where the pause left it, without a jump.
func Resume(s *models.DraftState, nowMs int64, secondsPerPick int) {
	if secondsPerPick == 0 {
		s.PickStartedAtMs = nowMs
	} else {
		s.PickStartedAtMs = nowMs - int64(secondsPerPick-s.RemainingAtPause)*1000
	}
	s.Paused = false
	s.RemainingAtPause = 0
}

// Restart gives the seat coming on the clock a full countdown. Called on
// every pointer change while the draft is live and unpaused.
func Restart(s *models.DraftState, nowMs int64) {
	s.PickStartedAtMs = nowMs
	s.RemainingAtPause = 0
}

// Expired reports whether the current seat's clock has run out. It is the
// trigger condition for autopick; the clock itself never mutates state.
func Expired(s *models.DraftState, nowMs int64, secondsPerPick int) bool {
	if secondsPerPick == 0 || s.Paused {
		return false
	}
	return RemainingFor(s, nowMs, secondsPerPick) == 0
}
