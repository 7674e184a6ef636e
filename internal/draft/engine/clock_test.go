package engine

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/gridchain/fantasydraft/internal/models"
)

func TestRemainingCountsDown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	start := clock.Now().UnixMilli()

	assert.Equal(t, 30, Remaining(start, start, 30, false, 0))

	clock.Advance(12 * time.Second)
	assert.Equal(t, 18, Remaining(clock.Now().UnixMilli(), start, 30, false, 0))

	clock.Advance(time.Hour)
	assert.Equal(t, 0, Remaining(clock.Now().UnixMilli(), start, 30, false, 0))
}

func TestRemainingUnlimitedNeverExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	start := clock.Now().UnixMilli()
	clock.Advance(24 * time.Hour)

	nowMs := clock.Now().UnixMilli()
	assert.Equal(t, NoLimit, Remaining(nowMs, start, 0, false, 0))
	assert.False(t, Expired(&models.DraftState{PickStartedAtMs: start}, nowMs, 0))
}

func TestRemainingClampsFutureStartMarker(t *testing.T) {
	clock := clockwork.NewFakeClock()
	nowMs := clock.Now().UnixMilli()
	assert.Equal(t, 30, Remaining(nowMs, nowMs+5000, 30, false, 0))
}

func TestPauseFreezesClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := &models.DraftState{PickStartedAtMs: clock.Now().UnixMilli()}

	clock.Advance(10 * time.Second)
	Pause(s, clock.Now().UnixMilli(), 30)
	assert.True(t, s.Paused)
	assert.Equal(t, 20, s.RemainingAtPause)

	// Frozen: remaining does not change no matter how long the pause lasts.
	clock.Advance(time.Hour)
	assert.Equal(t, 20, RemainingFor(s, clock.Now().UnixMilli(), 30))
}

func TestPauseThenImmediateResumeKeepsRemaining(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := &models.DraftState{PickStartedAtMs: clock.Now().UnixMilli()}

	clock.Advance(7 * time.Second)
	nowMs := clock.Now().UnixMilli()
	before := RemainingFor(s, nowMs, 30)

	Pause(s, nowMs, 30)
	Resume(s, nowMs, 30)

	assert.False(t, s.Paused)
	assert.Equal(t, before, RemainingFor(s, nowMs, 30))
}

func TestResumeContinuesWhereItLeftOff(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := &models.DraftState{PickStartedAtMs: clock.Now().UnixMilli()}

	clock.Advance(10 * time.Second)
	Pause(s, clock.Now().UnixMilli(), 30)

	// A long pause costs no clock time.
	clock.Advance(5 * time.Minute)
	Resume(s, clock.Now().UnixMilli(), 30)
	assert.Equal(t, 20, RemainingFor(s, clock.Now().UnixMilli(), 30))

	clock.Advance(20 * time.Second)
	assert.Equal(t, 0, RemainingFor(s, clock.Now().UnixMilli(), 30))
	assert.True(t, Expired(s, clock.Now().UnixMilli(), 30))
}

func TestRestartGivesFullCountdown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := &models.DraftState{PickStartedAtMs: clock.Now().UnixMilli()}

	clock.Advance(25 * time.Second)
	Restart(s, clock.Now().UnixMilli())
	assert.Equal(t, 30, RemainingFor(s, clock.Now().UnixMilli(), 30))
}

func TestExpiredRequiresUnpausedZero(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := &models.DraftState{PickStartedAtMs: clock.Now().UnixMilli()}

	clock.Advance(31 * time.Second)
	assert.True(t, Expired(s, clock.Now().UnixMilli(), 30))

	Pause(s, clock.Now().UnixMilli(), 30)
	assert.False(t, Expired(s, clock.Now().UnixMilli(), 30))
}
