// Package controller orchestrates the draft: it derives the lifecycle phase,
// runs the tick loop, accepts human picks, and fires autopicks when a seat's
// clock expires.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/gridchain/fantasydraft/internal/draft/autopick"
	"github.com/gridchain/fantasydraft/internal/draft/engine"
	"github.com/gridchain/fantasydraft/internal/draft/events"
	"github.com/gridchain/fantasydraft/internal/draft/order"
	"github.com/gridchain/fantasydraft/internal/draft/state"
	"github.com/gridchain/fantasydraft/internal/models"
)

const (
	// DefaultTickInterval paces re-evaluation of the clock between actions.
	DefaultTickInterval = 500 * time.Millisecond
	// DefaultGracePeriod is the buffer between the scheduled start and the
	// first seat coming on the clock.
	DefaultGracePeriod = 2 * time.Minute
)

// Rejections for invalid actions. Callers treat these as no-ops: the action
// mutated nothing and the pointer did not move.
var (
	ErrNotLive     = errors.New("draft is not live")
	ErrNotOnClock  = errors.New("team is not on the clock")
	ErrPlayerTaken = errors.New("player already drafted")
)

// Publisher receives domain events for fan-out to viewers. Publish must not
// block; it is called from the controller's critical section.
type Publisher interface {
	Publish(evt events.Event)
}

// Config wires a controller to one draft instance.
type Config struct {
	DraftID      string
	Draft        models.DraftConfig
	Teams        []models.Team
	TickInterval time.Duration
	GracePeriod  time.Duration
}

// Controller is the single logical writer for this client process. All other
// components operate on snapshots; only the controller mutates the canonical
// state and persists it through the state manager.
type Controller struct {
	cfg      Config
	states   *state.Manager
	resolver *autopick.Resolver
	pub      Publisher
	clock    clockwork.Clock

	teamNames map[string]string
	wakeCh    chan struct{}
	unsub     func()

	mu sync.Mutex
	st *models.DraftState
}

func New(cfg Config, states *state.Manager, resolver *autopick.Resolver, pub Publisher, clock clockwork.Clock) *Controller {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}
	names := make(map[string]string, len(cfg.Teams))
	for _, t := range cfg.Teams {
		names[t.ID] = t.DisplayName
	}
	return &Controller{
		cfg:       cfg,
		states:    states,
		resolver:  resolver,
		pub:       pub,
		clock:     clock,
		teamNames: names,
		wakeCh:    make(chan struct{}, 1),
	}
}

// Open loads (or rebuilds) the state for the current configuration and
// subscribes to updates from other viewers.
func (c *Controller) Open(ctx context.Context) error {
	st, err := c.states.Load(ctx, c.cfg.Draft, c.cfg.Teams)
	if err != nil {
		return fmt.Errorf("load draft state: %w", err)
	}

	c.mu.Lock()
	c.st = st
	c.mu.Unlock()

	unsub, err := c.states.Subscribe(ctx, st.Signature, c.applyRemote)
	if err != nil {
		// Without a subscription this viewer still works; it just won't see
		// other writers until its own next save.
		log.Warn().Err(err).Str("draft_id", c.cfg.DraftID).Msg("state subscription unavailable")
	} else {
		c.unsub = unsub
	}
	return nil
}

// Close drops the state subscription.
func (c *Controller) Close() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}

// Run re-evaluates the draft on every tick and whenever a local action wakes
// it. Returns nil on context cancellation.
func (c *Controller) Run(ctx context.Context) error {
	log.Info().Str("draft_id", c.cfg.DraftID).Dur("tick", c.cfg.TickInterval).Msg("draft controller started")

	timer := c.clock.NewTimer(c.cfg.TickInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("draft_id", c.cfg.DraftID).Msg("draft controller shutting down")
			return nil
		case <-timer.Chan():
		case <-c.wakeCh:
		}
		c.Tick(ctx)
		timer.Reset(c.cfg.TickInterval)
	}
}

// Tick performs one evaluation: it stamps the live transition when the grace
// window has elapsed, resolves empty-seat turns, and fires the autopick when
// the clock has expired. Safe to call concurrently with user actions.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.st == nil || c.st.Ended {
		return
	}

	now := c.clock.Now()
	if c.st.StartedAtMs == 0 {
		if c.phaseLocked(now) != models.PhaseLive {
			return
		}
		c.beginLocked(ctx, now)
		return
	}
	if c.st.Paused {
		return
	}

	if c.onClockTeamLocked() == models.EmptySeat {
		// Nobody to act for an empty seat; resolve it from the pool at once
		// instead of letting a clock run for no one.
		c.autoResolveLocked(ctx, now)
		return
	}
	if engine.Expired(c.st, now.UnixMilli(), c.cfg.Draft.SecondsPerPick) {
		c.autoResolveLocked(ctx, now)
	}
}

// PlacePick records a human selection. Permitted only while the draft is
// live, for the team the pointer currently names, with an undrafted player.
func (c *Controller) PlacePick(ctx context.Context, teamID string, player models.Player) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.st == nil || c.phaseLocked(now) != models.PhaseLive {
		return ErrNotLive
	}
	if c.st.StartedAtMs == 0 {
		// The live window opened but no tick has stamped it yet.
		c.beginLocked(ctx, now)
	}
	if teamID != c.onClockTeamLocked() {
		return ErrNotOnClock
	}
	if c.st.PlayerDrafted(player.ID) {
		return ErrPlayerTaken
	}

	c.recordPickLocked(ctx, now, player, false)
	return nil
}

// Pause freezes the pick clock. Commissioner gating is enforced by the
// caller; the controller only checks the draft is live.
func (c *Controller) Pause(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.st == nil || c.phaseLocked(now) != models.PhaseLive || c.st.StartedAtMs == 0 {
		return ErrNotLive
	}

	engine.Pause(c.st, now.UnixMilli(), c.cfg.Draft.SecondsPerPick)
	c.saveLocked(ctx)
	c.publish(events.TypeDraftPaused, now, events.DraftPausedPayload{
		PausedAt:         now,
		RemainingSeconds: c.st.RemainingAtPause,
	})
	return nil
}

// Resume unfreezes the pick clock exactly where the pause left it.
func (c *Controller) Resume(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.st == nil || !c.st.Paused || c.st.Ended || c.st.StartedAtMs == 0 {
		return ErrNotLive
	}

	engine.Resume(c.st, now.UnixMilli(), c.cfg.Draft.SecondsPerPick)
	c.saveLocked(ctx)
	c.publish(events.TypeDraftResumed, now, events.DraftResumedPayload{
		ResumedAt:        now,
		RemainingSeconds: engine.RemainingFor(c.st, now.UnixMilli(), c.cfg.Draft.SecondsPerPick),
	})
	c.wake()
	return nil
}

// Reset re-runs the same draft from scratch: picks, pointer and timers are
// discarded, the round-one order and signature are kept.
func (c *Controller) Reset(ctx context.Context) error {
	fresh, err := c.states.Reset(ctx)
	if err != nil {
		return fmt.Errorf("reset draft state: %w", err)
	}

	c.mu.Lock()
	c.st = fresh
	c.mu.Unlock()

	c.publish(events.TypeDraftReset, c.clock.Now(), nil)
	c.wake()
	return nil
}

// beginLocked stamps the start of the live window and puts the first seat on
// the clock. StartedAtMs is set once and never reset while active.
func (c *Controller) beginLocked(ctx context.Context, now time.Time) {
	c.st.StartedAtMs = now.UnixMilli()
	engine.Restart(c.st, now.UnixMilli())
	c.saveLocked(ctx)

	totalPicks := c.st.TotalRounds * len(c.st.RoundOneOrder)
	log.Info().
		Str("draft_id", c.cfg.DraftID).
		Int("total_picks", totalPicks).
		Msg("draft live window opened")

	c.publish(events.TypeDraftStarted, now, events.DraftStartedPayload{
		StartedAt:   now,
		TotalRounds: c.st.TotalRounds,
		TotalPicks:  totalPicks,
	})
	c.publishPickStartedLocked(now)
}

// autoResolveLocked selects for the seat on the clock, or skips the turn when
// the pool is exhausted.
func (c *Controller) autoResolveLocked(ctx context.Context, now time.Time) {
	teamID := c.onClockTeamLocked()
	player, err := c.resolver.Resolve(ctx, teamID, c.st.DraftedIDs())
	if err != nil {
		// Transient source failure; the next tick retries.
		log.Error().Err(err).Str("draft_id", c.cfg.DraftID).Str("team_id", teamID).Msg("autopick failed")
		return
	}
	if player == nil {
		// Genuine skip: the global pool is exhausted. Advance with no pick.
		skipped := events.PickSkippedPayload{
			TeamID: teamID,
			Round:  c.st.CurrentRound,
			Slot:   c.st.CurrentPickIndex + 1,
		}
		log.Warn().
			Str("draft_id", c.cfg.DraftID).
			Str("team_id", teamID).
			Int("round", skipped.Round).
			Msg("player pool exhausted, skipping turn")
		c.advanceLocked(ctx, now)
		c.publish(events.TypePickSkipped, now, skipped)
		return
	}
	c.recordPickLocked(ctx, now, *player, true)
}

// recordPickLocked appends the pick and moves the pointer.
func (c *Controller) recordPickLocked(ctx context.Context, now time.Time, player models.Player, auto bool) {
	teamID := c.onClockTeamLocked()
	pick := models.Pick{
		Round:          c.st.CurrentRound,
		Slot:           c.st.CurrentPickIndex + 1,
		TeamID:         teamID,
		PlayerID:       player.ID,
		PlayerName:     player.Name,
		PlayerPosition: player.Position,
		PlayerTeam:     player.TeamAbbrev,
	}
	c.st.Picks = append(c.st.Picks, pick)

	log.Info().
		Str("draft_id", c.cfg.DraftID).
		Str("team_id", teamID).
		Str("player", player.Name).
		Str("label", pickLabel(pick)).
		Bool("auto", auto).
		Msg("pick made")

	c.advanceLocked(ctx, now)
	c.publish(events.TypePickMade, now, events.PickMadePayload{
		TeamID:     teamID,
		TeamName:   c.teamNames[teamID],
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Round:      pick.Round,
		Slot:       pick.Slot,
		Label:      pickLabel(pick),
		Auto:       auto,
	})
}

// advanceLocked moves the pointer one slot, restarting the clock for the new
// seat or finalizing the draft, then persists.
func (c *Controller) advanceLocked(ctx context.Context, now time.Time) {
	round, idx, ended := engine.Advance(c.st.CurrentRound, c.st.CurrentPickIndex, c.st.TotalRounds, len(c.st.RoundOneOrder))
	if ended {
		c.st.Ended = true
		c.st.Paused = true // no countdown after completion
		c.saveLocked(ctx)
		log.Info().Str("draft_id", c.cfg.DraftID).Int("total_picks", len(c.st.Picks)).Msg("draft completed")
		c.publish(events.TypeDraftCompleted, now, events.DraftCompletedPayload{
			CompletedAt: now,
			TotalPicks:  len(c.st.Picks),
		})
		return
	}

	c.st.CurrentRound = round
	c.st.CurrentPickIndex = idx
	engine.Restart(c.st, now.UnixMilli())
	c.saveLocked(ctx)
	c.publishPickStartedLocked(now)
}

func (c *Controller) publishPickStartedLocked(now time.Time) {
	c.publish(events.TypePickStarted, now, events.PickStartedPayload{
		TeamID:           c.onClockTeamLocked(),
		Round:            c.st.CurrentRound,
		Slot:             c.st.CurrentPickIndex + 1,
		Label:            fmt.Sprintf("%d.%d", c.st.CurrentRound, c.st.CurrentPickIndex+1),
		SecondsPerPick:   c.cfg.Draft.SecondsPerPick,
		RemainingSeconds: engine.RemainingFor(c.st, now.UnixMilli(), c.cfg.Draft.SecondsPerPick),
	})
}

func (c *Controller) saveLocked(ctx context.Context) {
	if err := c.states.Save(ctx, c.st); err != nil {
		log.Error().Err(err).Str("draft_id", c.cfg.DraftID).Msg("failed to save draft state")
	}
}

// onClockTeamLocked names the seat the pointer currently points at.
func (c *Controller) onClockTeamLocked() string {
	seq := order.RoundOrder(c.st.RoundOneOrder, c.st.CurrentRound, c.cfg.Draft.ThirdRoundReversal)
	return seq[c.st.CurrentPickIndex]
}

// phaseLocked derives the lifecycle phase from state and wall clock.
func (c *Controller) phaseLocked(now time.Time) models.Phase {
	switch {
	case c.st.Ended:
		return models.PhaseCompleted
	case c.st.StartedAtMs > 0 && c.st.Paused:
		return models.PhasePaused
	case c.st.StartedAtMs > 0:
		return models.PhaseLive
	case c.cfg.Draft.ScheduledStart.IsZero():
		return models.PhaseNotScheduled
	case now.Before(c.cfg.Draft.ScheduledStart):
		return models.PhaseScheduled
	case now.Before(c.cfg.Draft.ScheduledStart.Add(c.cfg.GracePeriod)):
		return models.PhaseGrace
	default:
		// Live window reached; the next tick stamps StartedAtMs.
		return models.PhaseLive
	}
}

// applyRemote replaces the local snapshot with a state written by another
// viewer. Last-writer-wins; the manager has already filtered signatures.
func (c *Controller) applyRemote(st *models.DraftState) {
	c.mu.Lock()
	c.st = st.Clone()
	c.mu.Unlock()

	c.publish(events.TypeStateSynced, c.clock.Now(), st)
	c.wake()
}

func (c *Controller) publish(t events.EventType, now time.Time, payload interface{}) {
	if c.pub == nil {
		return
	}
	c.pub.Publish(events.Event{Type: t, DraftID: c.cfg.DraftID, At: now, Payload: payload})
}

func (c *Controller) wake() {
	select {
	case c.wakeCh <- struct{}{}:
	default:
	}
}

func pickLabel(p models.Pick) string {
	return fmt.Sprintf("%d.%d", p.Round, p.Slot)
}
