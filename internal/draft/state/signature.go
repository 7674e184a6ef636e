package state

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/rand"
	"sort"

	"github.com/gridchain/fantasydraft/internal/models"
)

// ConfigSignature fingerprints the parts of the configuration that invalidate
// an in-progress draft: the expected round-one order (manual order or the
// team roster, depending on order mode) and the third round reversal flag.
// Seconds-per-pick and schedule changes deliberately do not alter it.
func ConfigSignature(cfg models.DraftConfig, teams []models.Team) string {
	h := sha256.New()
	fmt.Fprintf(h, "teams=%d;rounds=%d;trr=%t;mode=%s;", cfg.TotalTeams, cfg.TotalRounds, cfg.ThirdRoundReversal, cfg.OrderMode)

	if cfg.OrderMode == models.OrderModeManual {
		for _, teamID := range normalizedManualOrder(cfg) {
			io.WriteString(h, teamID)
			io.WriteString(h, "|")
		}
	} else {
		// Random mode: the concrete order is rolled once and persisted, so
		// the signature binds the roster set, not the shuffle.
		ids := make([]string, 0, len(teams))
		for _, t := range teams {
			ids = append(ids, t.ID)
		}
		sort.Strings(ids)
		for _, id := range ids {
			io.WriteString(h, id)
			io.WriteString(h, "|")
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

// NewState constructs a fresh, unstarted DraftState for the configuration:
// no picks, pointer at round 1 index 0, clock not running.
func NewState(cfg models.DraftConfig, teams []models.Team) *models.DraftState {
	return newStateFromOrder(buildRoundOneOrder(cfg, teams), ConfigSignature(cfg, teams), cfg.TotalRounds)
}

func newStateFromOrder(roundOneOrder []string, signature string, totalRounds int) *models.DraftState {
	return &models.DraftState{
		RoundOneOrder:    append([]string(nil), roundOneOrder...),
		Signature:        signature,
		TotalRounds:      totalRounds,
		CurrentRound:     1,
		CurrentPickIndex: 0,
		Picks:            []models.Pick{},
	}
}

// buildRoundOneOrder produces the round-one seat order. Manual mode takes the
// configured order verbatim, normalized to the configured seat count; random
// mode shuffles the filled seats and pads the remainder with empty seats.
func buildRoundOneOrder(cfg models.DraftConfig, teams []models.Team) []string {
	if cfg.OrderMode == models.OrderModeManual {
		return normalizedManualOrder(cfg)
	}

	out := make([]string, 0, cfg.TotalTeams)
	for _, t := range teams {
		out = append(out, t.ID)
	}
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	for len(out) < cfg.TotalTeams {
		out = append(out, models.EmptySeat)
	}
	return out[:cfg.TotalTeams]
}

func normalizedManualOrder(cfg models.DraftConfig) []string {
	out := make([]string, cfg.TotalTeams)
	for i := range out {
		if i < len(cfg.ManualOrder) {
			out[i] = cfg.ManualOrder[i]
		} else {
			out[i] = models.EmptySeat
		}
	}
	return out
}
